// Package observability provides logging and metrics support for the
// discovery service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for searches, providers, papers, indexing, and events
//   - Context helpers for propagating request identifiers
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("query", query).Msg("search started")
//
// Add search context to a logger:
//
//	logger = observability.WithSearchContext(logger, query, source)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("discovery")
//
// Record metrics:
//
//	metrics.RecordSearchStarted()
//	metrics.RecordProviderSearch("semantic_scholar", 12, 0.8)
//	metrics.RecordPapersDiscovered("arxiv", 42)
//
// # Context Helpers
//
// Store and retrieve request context:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	reqID := observability.RequestIDFromContext(ctx)
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: Search request identifier
//   - query: User's search query
//   - source: Paper source (semantic_scholar, crossref, arxiv, etc.)
//   - paper_id: Paper identifier
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
