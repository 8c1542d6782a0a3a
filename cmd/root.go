package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubetarget/kubetarget/internal/instrumentation"
	"github.com/kubetarget/kubetarget/internal/kubeconfig"
)

// Persistent flag values shared by all subcommands.
var (
	flagKubeconfig string
	flagContext    string
	flagNamespace  string
	flagLogLevel   string
	flagTimeout    time.Duration
)

// telemetry is the optional instrumentation provider, nil unless enabled via
// the environment.
var telemetry *instrumentation.Provider

// rootCmd represents the base command for the kubetarget application.
var rootCmd = &cobra.Command{
	Use:   "kubetarget",
	Short: "Resolve the target Kubernetes context, namespace, and API resources",
	Long: `kubetarget determines which Kubernetes cluster context and namespace a
command should operate against, and enumerates the API resource types a live
cluster serves.

Context resolution prefers an explicit --context override, then the kubeconfig
current-context. Namespace resolution prefers an explicit --namespace override,
then the context's kubeconfig namespace, then the in-cluster service account
namespace, then "default".`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(flagLogLevel)
	},
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kubetarget version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := instrumentation.DefaultConfig()
	cfg.ServiceVersion = rootCmd.Version
	provider, err := instrumentation.NewProvider(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize instrumentation: %v\n", err)
	}
	telemetry = provider
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: instrumentation shutdown: %v\n", err)
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagKubeconfig, "kubeconfig", "",
		"Path to the kubeconfig file (default: $KUBECONFIG, then ~/.kube/config)")
	rootCmd.PersistentFlags().StringVar(&flagContext, "context", "",
		"Override the Kubernetes context to target")
	rootCmd.PersistentFlags().StringVarP(&flagNamespace, "namespace", "n", "",
		"Override the namespace to target")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0,
		"Per-request timeout for cluster calls (0 uses the default)")

	_ = rootCmd.RegisterFlagCompletionFunc("context", completeContexts)
	_ = rootCmd.RegisterFlagCompletionFunc("namespace", completeNamespaces)

	rootCmd.AddCommand(newContextCmd())
	rootCmd.AddCommand(newNamespaceCmd())
	rootCmd.AddCommand(newAPIResourcesCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}

// loadSource materializes the configuration snapshot for this invocation.
func loadSource() *kubeconfig.Source {
	return kubeconfig.Load(kubeconfig.LoadOptions{
		KubeconfigPath: flagKubeconfig,
		Logger:         slog.Default(),
	})
}

// setupLogging installs the default slog logger at the requested level.
func setupLogging(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q (expected debug, info, warn, or error)", level)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
	return nil
}
