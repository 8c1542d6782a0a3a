// Package k8s constructs authenticated REST clients for a resolved cluster
// context.
//
// It owns the transport concerns the rest of the codebase treats as external:
// kubeconfig-based and in-cluster authentication, rate limits and timeouts,
// and transparent retry of idempotent requests with exponential backoff.
// Discovery deliberately contains no retry logic of its own; transient
// failures are absorbed here, at the transport, or not at all.
package k8s
