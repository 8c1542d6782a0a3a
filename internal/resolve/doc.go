// Package resolve determines the effective Kubernetes context and namespace
// for an invocation.
//
// Both resolvers are pure functions over an already-materialized ConfigSource;
// they perform no I/O and never consult ambient state directly. The precedence
// rules differ deliberately: an explicit context override always wins and the
// absence of any context signal is a hard error (there is no meaningful
// "default context"), whereas namespace resolution is total because "default"
// is a real namespace present in every cluster.
package resolve
