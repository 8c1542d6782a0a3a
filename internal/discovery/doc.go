// Package discovery turns an authenticated cluster handle into a normalized
// catalog of the API resource types the cluster serves.
//
// The protocol is the standard Kubernetes discovery API: root discovery (the
// legacy core versions at /api merged with the named groups at /apis) followed
// by one resource-list fetch per group-version. Per-group-version fetches are
// issued concurrently with fail-fast semantics; the merged catalog is
// deterministic regardless of fetch completion order.
//
// The same kind served at multiple versions of a group is one logical resource:
// the catalog deduplicates by (group, plural name) and keeps the metadata from
// the group's preferred version. Catalogs are built fresh on every call: a
// cluster's resource types change as CRDs come and go, and a stale catalog
// would silently misclassify resources.
package discovery
