// Package cmd provides the command-line interface for kubetarget.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - context: Prints the effective Kubernetes context for this invocation
//   - namespace: Prints the effective namespace for this invocation
//   - api-resources: Discovers and prints the cluster's API resource catalog,
//     optionally resolving specific resource targets
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// Command Structure:
//
//	kubetarget context [--context NAME]
//	kubetarget namespace [--context NAME] [--namespace NAME]
//	kubetarget api-resources [target ...]
//	kubetarget version
//	kubetarget self-update
//	kubetarget help [command]
//
// The --context and --namespace flags provide kubeconfig-aware dynamic shell
// completion: contexts are listed from the active kubeconfig with the current
// context first, and namespaces from the per-context defaults it records.
package cmd
