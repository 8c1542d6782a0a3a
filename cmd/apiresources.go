package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kubetarget/kubetarget/internal/discovery"
	"github.com/kubetarget/kubetarget/internal/k8s"
	"github.com/kubetarget/kubetarget/internal/kubeconfig"
	"github.com/kubetarget/kubetarget/internal/logging"
	"github.com/kubetarget/kubetarget/internal/resolve"
)

// newAPIResourcesCmd creates the Cobra command that discovers and prints the
// cluster's API resource catalog.
func newAPIResourcesCmd() *cobra.Command {
	var namespacedOnly bool
	var apiGroup string

	cmd := &cobra.Command{
		Use:   "api-resources [target ...]",
		Short: "Print the API resource types the cluster serves",
		Long: `Query the cluster's discovery endpoints and print the supported API
resource types: core group first, then named groups in server-reported order,
one entry per (group, resource) with metadata from the group's preferred
version.

With targets, resolve each one against the catalog by plural name, singular
name, short name, or group-qualified name ("deployments.apps"), and print only
the matches. Unresolved targets make the command fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := loadSource()

			client, contextName, err := newDiscoveryClient(src)
			if err != nil {
				return err
			}

			logger := logging.WithContext(slog.Default(), contextName)
			logger.Debug("starting discovery")

			catalog, err := client.ListAPIResources(cmd.Context())
			if err != nil {
				logger.Error("discovery failed", logging.SanitizedErr(err))
				return err
			}

			if len(args) > 0 {
				catalog, err = discovery.FindAll(args, catalog)
				if err != nil {
					return err
				}
			}

			printCatalog(cmd, filterCatalog(catalog, apiGroup, namespacedOnly))
			return nil
		},
	}

	cmd.Flags().BoolVar(&namespacedOnly, "namespaced", false,
		"Only show namespace-scoped resources")
	cmd.Flags().StringVar(&apiGroup, "api-group", "",
		"Only show resources in the named API group")

	return cmd
}

// newDiscoveryClient resolves the effective context and builds a discovery
// client for it. When no context is available but the process runs inside a
// cluster, service-account authentication is used instead.
func newDiscoveryClient(src *kubeconfig.Source) (*discovery.Client, string, error) {
	clientConfig := &k8s.ClientConfig{
		KubeconfigPath: flagKubeconfig,
		Timeout:        flagTimeout,
		Logger:         logging.NewSlogAdapter(slog.Default()),
	}

	contextName, err := resolve.Context(flagContext, src)
	switch {
	case err == nil:
		clientConfig.Context = contextName
	case errors.Is(err, resolve.ErrNoContextAvailable) && src.InCluster():
		clientConfig.InCluster = true
		contextName = k8s.InClusterContext
	default:
		return nil, "", err
	}

	restClient, err := k8s.NewRESTClient(clientConfig)
	if err != nil {
		return nil, "", err
	}

	client := discovery.New(
		discovery.NewRESTHandle(restClient),
		discovery.WithLogger(slog.Default()),
		discovery.WithMetrics(telemetry.Metrics()),
	)
	return client, contextName, nil
}

// filterCatalog applies the --api-group and --namespaced filters.
func filterCatalog(catalog []discovery.Resource, apiGroup string, namespacedOnly bool) []discovery.Resource {
	if apiGroup == "" && !namespacedOnly {
		return catalog
	}
	var filtered []discovery.Resource
	for _, resource := range catalog {
		if apiGroup != "" && resource.Group != apiGroup {
			continue
		}
		if namespacedOnly && !resource.Namespaced {
			continue
		}
		filtered = append(filtered, resource)
	}
	return filtered
}

// printCatalog renders the catalog as an aligned table.
func printCatalog(cmd *cobra.Command, catalog []discovery.Resource) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSHORTNAMES\tAPIVERSION\tNAMESPACED\tKIND")
	for _, resource := range catalog {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			resource.Name,
			strings.Join(resource.ShortNames, ","),
			resource.APIVersion(),
			resource.Namespaced,
			resource.Kind,
		)
	}
	_ = w.Flush()
}
