package discovery

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubetarget/kubetarget/internal/instrumentation"
	"github.com/kubetarget/kubetarget/internal/logging"
)

// DefaultConcurrency bounds the number of in-flight group-version fetches.
const DefaultConcurrency = 8

// ClientHandle is the authenticated, transport-capable collaborator the
// discovery client consumes. Retry and backoff are its responsibility, not
// this package's.
type ClientHandle interface {
	// ServerGroups performs root discovery: the legacy core group's versions
	// merged with every named group, core group first.
	ServerGroups(ctx context.Context) (*metav1.APIGroupList, error)

	// ServerResourcesForGroupVersion fetches the resource list for one
	// group-version, e.g. "v1" or "apps/v1".
	ServerResourcesForGroupVersion(ctx context.Context, groupVersion string) (*metav1.APIResourceList, error)
}

// Client aggregates the cluster's discovery endpoints into a resource catalog.
// Construction performs no network calls; all I/O happens in ListAPIResources.
type Client struct {
	handle      ClientHandle
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	concurrency int
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for discovery progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics attaches discovery metrics recording.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithConcurrency bounds concurrent group-version fetches. Values below 1
// fall back to DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New creates a discovery client over the given handle.
func New(handle ClientHandle, opts ...Option) *Client {
	c := &Client{
		handle:      handle,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetchTarget is one group-version to fetch, in catalog traversal order.
type fetchTarget struct {
	gv        GroupVersion
	preferred bool
}

// ListAPIResources queries the cluster's discovery endpoints and returns the
// merged, deduplicated catalog.
//
// Sub-fetches run concurrently but the catalog order is defined purely by the
// server-reported group and version order: core group first, then named groups
// as reported, then versions within each group as reported. A failing fetch
// for any group-version fails the whole call; no partial catalog is returned.
func (c *Client) ListAPIResources(ctx context.Context) ([]Resource, error) {
	ctx, span := instrumentation.StartDiscoverySpan(ctx, "discovery.list_api_resources")
	defer span.End()

	start := time.Now()

	groups, err := c.handle.ServerGroups(ctx)
	if err != nil {
		rootErr := &RootDiscoveryError{Err: err}
		instrumentation.RecordSpanError(span, rootErr)
		c.metrics.RecordDiscovery(ctx, time.Since(start), 0, instrumentation.StatusError)
		return nil, rootErr
	}

	targets := fetchTargets(groups)
	c.logger.Debug("root discovery complete",
		slog.Int("groups", len(groups.Groups)),
		slog.Int("group_versions", len(targets)))

	lists, err := c.fetchAll(ctx, targets)
	if err != nil {
		instrumentation.RecordSpanError(span, err)
		c.metrics.RecordDiscovery(ctx, time.Since(start), 0, instrumentation.StatusError)
		return nil, err
	}

	catalog := mergeCatalog(targets, lists)
	span.SetAttributes(instrumentation.DiscoveryResultAttrs(len(groups.Groups), len(catalog))...)
	c.metrics.RecordDiscovery(ctx, time.Since(start), len(catalog), instrumentation.StatusSuccess)
	c.logger.Debug("discovery complete",
		slog.Int("resources", len(catalog)),
		logging.Duration(time.Since(start)))

	return catalog, nil
}

// fetchTargets flattens root discovery output into the ordered list of
// group-versions to fetch. The preferred version of a group is the
// server-declared one, falling back to the first version reported.
func fetchTargets(groups *metav1.APIGroupList) []fetchTarget {
	var targets []fetchTarget
	for _, group := range groups.Groups {
		if len(group.Versions) == 0 {
			continue
		}
		preferred := group.PreferredVersion.Version
		if preferred == "" {
			preferred = group.Versions[0].Version
		}
		for _, version := range group.Versions {
			targets = append(targets, fetchTarget{
				gv:        GroupVersion{Group: group.Name, Version: version.Version},
				preferred: version.Version == preferred,
			})
		}
	}
	return targets
}

// fetchAll issues one resource-list fetch per target, concurrently and
// fail-fast: the first failure cancels the siblings and is returned as a
// GroupVersionError. Results are positioned by target index so completion
// order cannot leak into catalog order.
func (c *Client) fetchAll(ctx context.Context, targets []fetchTarget) ([]*metav1.APIResourceList, error) {
	lists := make([]*metav1.APIResourceList, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			start := time.Now()
			list, err := c.handle.ServerResourcesForGroupVersion(ctx, target.gv.String())
			if err != nil {
				c.metrics.RecordDiscoveryFetch(ctx, target.gv.Group, target.gv.Version, time.Since(start), instrumentation.StatusError)
				return &GroupVersionError{Group: target.gv.Group, Version: target.gv.Version, Err: err}
			}
			c.metrics.RecordDiscoveryFetch(ctx, target.gv.Group, target.gv.Version, time.Since(start), instrumentation.StatusSuccess)
			lists[i] = list
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

// mergeCatalog merges per-group-version resource lists in traversal order,
// deduplicating by (group, plural name). The first occurrence fixes an entry's
// position; a later occurrence from the group's preferred version replaces the
// entry's metadata in place. Subresources (names containing '/') are skipped.
func mergeCatalog(targets []fetchTarget, lists []*metav1.APIResourceList) []Resource {
	type dedupKey struct {
		group string
		name  string
	}

	var catalog []Resource
	position := make(map[dedupKey]int)
	fromPreferred := make(map[dedupKey]bool)

	for i, target := range targets {
		list := lists[i]
		if list == nil {
			continue
		}
		for _, apiResource := range list.APIResources {
			if strings.Contains(apiResource.Name, "/") {
				continue
			}

			group, version := target.gv.Group, target.gv.Version
			// Aggregated lists may carry per-resource group/version overrides.
			if apiResource.Group != "" {
				group = apiResource.Group
			}
			if apiResource.Version != "" {
				version = apiResource.Version
			}

			desc := Resource{
				Group:        group,
				Version:      version,
				Name:         apiResource.Name,
				SingularName: apiResource.SingularName,
				Kind:         apiResource.Kind,
				Namespaced:   apiResource.Namespaced,
				ShortNames:   apiResource.ShortNames,
				Verbs:        apiResource.Verbs,
			}

			key := dedupKey{group: group, name: apiResource.Name}
			if pos, seen := position[key]; seen {
				if target.preferred && !fromPreferred[key] {
					catalog[pos] = desc
					fromPreferred[key] = true
				}
				continue
			}
			position[key] = len(catalog)
			fromPreferred[key] = target.preferred
			catalog = append(catalog, desc)
		}
	}

	return catalog
}
