// Package logging provides structured logging utilities for kubetarget.
//
// It centralizes attribute naming so log lines stay consistent and queryable
// across the codebase, and sanitizes values that may leak network topology:
// Kubernetes API server errors routinely embed the cluster endpoint, so error
// attributes built here have IP addresses redacted.
//
// Typical usage:
//
//	logger := logging.WithOperation(slog.Default(), "discovery")
//	logger.Info("catalog built",
//	    logging.Context("prod"),
//	    logging.Namespace("team-a"))
package logging
