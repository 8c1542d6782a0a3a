package cmd

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// completeContexts provides dynamic completion for the --context flag: every
// context from the active kubeconfig, current context first, annotated with
// its cluster and default namespace.
func completeContexts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	src := loadSource()

	var completions []string
	for _, info := range src.Contexts() {
		if !strings.HasPrefix(info.Name, toComplete) {
			continue
		}

		var details []string
		if info.Current {
			details = append(details, "[current]")
		}
		if info.Cluster != "" {
			details = append(details, "cluster="+info.Cluster)
		}
		if info.Namespace != "" {
			details = append(details, "namespace="+info.Namespace)
		}

		completion := info.Name
		if len(details) > 0 {
			completion += "\t" + strings.Join(details, " ")
		}
		completions = append(completions, completion)
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeNamespaces provides dynamic completion for the --namespace flag from
// the namespaces the kubeconfig records per context, plus "default".
func completeNamespaces(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	src := loadSource()

	seen := map[string]bool{"default": true}
	for _, info := range src.Contexts() {
		if info.Namespace != "" {
			seen[info.Namespace] = true
		}
	}

	var completions []string
	for ns := range seen {
		if strings.HasPrefix(ns, toComplete) {
			completions = append(completions, ns)
		}
	}
	sort.Strings(completions)

	return completions, cobra.ShellCompDirectiveNoFileComp
}
