package k8s

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"k8s.io/apimachinery/pkg/runtime/serializer"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/kubetarget/kubetarget/internal/kubeconfig"
)

// Logger is the leveled key/value logging interface consumed by this package.
// logging.SlogAdapter satisfies it.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// ClientConfig holds configuration for building cluster clients.
type ClientConfig struct {
	// Kubeconfig settings
	KubeconfigPath string
	Context        string

	// InCluster selects service-account authentication instead of kubeconfig.
	InCluster bool

	// Performance settings
	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	// Retry controls the transport-level retry behavior. The zero value
	// enables DefaultRetryPolicy; set Retry.Disabled to opt out.
	Retry RetryPolicy

	// UserAgent overrides the client user agent.
	UserAgent string

	// Logger receives transport diagnostics. Optional.
	Logger Logger
}

// applyDefaults fills in zero-valued settings.
func (c *ClientConfig) applyDefaults() {
	if c.QPSLimit == 0 {
		c.QPSLimit = DefaultQPSLimit
	}
	if c.BurstLimit == 0 {
		c.BurstLimit = DefaultBurstLimit
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout * time.Second
	}
	c.Retry.applyDefaults()
}

// RESTConfig builds a rest.Config for the configured context: service-account
// credentials when in-cluster, kubeconfig with a context override otherwise.
func RESTConfig(cfg *ClientConfig) (*rest.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("client configuration is required")
	}
	cfg.applyDefaults()

	var restConfig *rest.Config
	var err error

	if cfg.InCluster {
		if err := validateInClusterEnvironment(); err != nil {
			return nil, fmt.Errorf("in-cluster authentication not available: %w", err)
		}
		restConfig, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-cluster rest config: %w", err)
		}
	} else {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		if cfg.KubeconfigPath != "" {
			loadingRules.ExplicitPath = cfg.KubeconfigPath
		}

		contextConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			loadingRules,
			&clientcmd.ConfigOverrides{
				CurrentContext: cfg.Context,
			},
		)

		restConfig, err = contextConfig.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create rest config for context %q: %w", cfg.Context, err)
		}
	}

	restConfig.QPS = cfg.QPSLimit
	restConfig.Burst = cfg.BurstLimit
	restConfig.Timeout = cfg.Timeout
	if cfg.UserAgent != "" {
		restConfig.UserAgent = cfg.UserAgent
	}

	if !cfg.Retry.Disabled {
		policy, logger := cfg.Retry, cfg.Logger
		restConfig.Wrap(func(next http.RoundTripper) http.RoundTripper {
			return newRetryRoundTripper(next, policy, logger)
		})
	}

	return restConfig, nil
}

// NewRESTClient builds an unversioned REST client for the configured context,
// suitable for discovery requests with absolute paths.
func NewRESTClient(cfg *ClientConfig) (rest.Interface, error) {
	restConfig, err := RESTConfig(cfg)
	if err != nil {
		return nil, err
	}

	setUnversionedDefaults(restConfig)

	client, err := rest.UnversionedRESTClientFor(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create rest client: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("created rest client", "host", restConfig.Host, "context", cfg.Context)
	}
	return client, nil
}

// setUnversionedDefaults prepares a rest.Config for unversioned absolute-path
// requests against the discovery endpoints.
func setUnversionedDefaults(config *rest.Config) {
	config.APIPath = ""
	config.GroupVersion = nil
	config.NegotiatedSerializer = serializer.WithoutConversionCodecFactory{CodecFactory: scheme.Codecs}
	if config.UserAgent == "" {
		config.UserAgent = rest.DefaultKubernetesUserAgent()
	}
}

// validateInClusterEnvironment checks that the service account mount is
// complete before attempting in-cluster authentication.
func validateInClusterEnvironment() error {
	for _, file := range []string{
		kubeconfig.ServiceAccountTokenFile,
		kubeconfig.ServiceAccountCACertFile,
		kubeconfig.ServiceAccountNamespaceFile,
	} {
		path := filepath.Join(kubeconfig.DefaultServiceAccountDir, file)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("service account %s not found at %s", file, path)
		}
	}
	return nil
}
