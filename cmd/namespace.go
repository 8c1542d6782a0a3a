package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubetarget/kubetarget/internal/instrumentation"
	"github.com/kubetarget/kubetarget/internal/resolve"
)

// newNamespaceCmd creates the Cobra command that prints the effective namespace.
func newNamespaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "namespace",
		Short: "Print the effective Kubernetes namespace",
		Long: `Print the namespace kubetarget would operate against: the --namespace
override when given, otherwise the resolved context's kubeconfig namespace,
otherwise the in-cluster service account namespace, otherwise "default".

Namespace resolution consults the resolved context, so this fails when no
context is available and no --namespace override is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := loadSource()

			// An explicit namespace needs no context at all.
			if flagNamespace != "" {
				telemetry.Metrics().RecordResolution(cmd.Context(), "namespace", instrumentation.StatusSuccess)
				fmt.Fprintln(cmd.OutOrStdout(), flagNamespace)
				return nil
			}

			contextName, err := resolve.Context(flagContext, src)
			if err != nil {
				telemetry.Metrics().RecordResolution(cmd.Context(), "namespace", instrumentation.StatusError)
				return err
			}

			namespace := resolve.Namespace(flagNamespace, contextName, src)
			telemetry.Metrics().RecordResolution(cmd.Context(), "namespace", instrumentation.StatusSuccess)

			fmt.Fprintln(cmd.OutOrStdout(), namespace)
			return nil
		},
	}
}
