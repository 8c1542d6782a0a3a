// Package kubeconfig builds the read-only configuration snapshot that context
// and namespace resolution operate on.
//
// A Source is materialized once per invocation from the ambient inputs, the
// kubeconfig file (honoring the KUBECONFIG environment variable and an explicit
// path override) and the in-cluster service account mount, and is immutable
// afterwards. Resolution logic never touches files or environment variables
// itself; it only consults the lookups exposed here.
//
// A missing or malformed kubeconfig yields an empty Source rather than an
// error: resolution is expected to degrade gracefully, and the resolvers decide
// for themselves whether the absence of a signal is fatal.
package kubeconfig
