package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubetarget/kubetarget/internal/instrumentation"
	"github.com/kubetarget/kubetarget/internal/resolve"
)

// newContextCmd creates the Cobra command that prints the effective context.
func newContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Print the effective Kubernetes context",
		Long: `Print the context kubetarget would operate against: the --context
override when given, otherwise the kubeconfig current-context. Fails when
neither is available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := loadSource()

			contextName, err := resolve.Context(flagContext, src)
			if err != nil {
				telemetry.Metrics().RecordResolution(cmd.Context(), "context", instrumentation.StatusError)
				return err
			}
			telemetry.Metrics().RecordResolution(cmd.Context(), "context", instrumentation.StatusSuccess)

			fmt.Fprintln(cmd.OutOrStdout(), contextName)
			return nil
		},
	}
}
