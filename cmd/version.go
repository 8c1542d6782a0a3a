package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kubetarget",
		Long:  `All software has versions. This is kubetarget's.`,
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is set by the main package at build time.
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kubetarget version %s\n", rootCmd.Version)
		},
	}
}
