package resolve

import "errors"

// DefaultNamespace is the universal namespace fallback. It exists in every
// cluster, which is what makes namespace resolution total.
const DefaultNamespace = "default"

// ErrNoContextAvailable indicates that neither an explicit context override
// nor a kubeconfig current-context was available. Check with errors.Is.
var ErrNoContextAvailable = errors.New("no Kubernetes context available: no --context override and no current-context in kubeconfig")

// ConfigSource exposes the read-only configuration lookups resolution needs.
// It is satisfied by *kubeconfig.Source.
type ConfigSource interface {
	// CurrentContext returns the kubeconfig current-context, if set.
	CurrentContext() (string, bool)

	// NamespaceFor returns the default namespace recorded for a context.
	NamespaceFor(context string) (string, bool)

	// InClusterNamespace returns the service-account namespace when running
	// inside a cluster.
	InClusterNamespace() (string, bool)
}

// Context resolves the effective context name.
//
// Precedence, first match wins:
//  1. the explicit override, verbatim
//  2. the kubeconfig current-context
//
// When both are absent it fails with ErrNoContextAvailable; it never returns
// an empty context on success.
func Context(explicit string, cfg ConfigSource) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if current, ok := cfg.CurrentContext(); ok {
		return current, nil
	}
	return "", ErrNoContextAvailable
}

// Namespace resolves the effective namespace for the given context.
//
// Precedence, first match wins:
//  1. the explicit override, verbatim
//  2. the namespace recorded for the context in the kubeconfig
//  3. the in-cluster service-account namespace
//  4. DefaultNamespace
//
// Total by construction: it never fails and never returns an empty string.
func Namespace(explicit, context string, cfg ConfigSource) string {
	if explicit != "" {
		return explicit
	}
	if ns, ok := cfg.NamespaceFor(context); ok {
		return ns
	}
	if ns, ok := cfg.InClusterNamespace(); ok {
		return ns
	}
	return DefaultNamespace
}
