package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the discovery service.
// Metrics are organized by subsystem: searches, providers, papers, the
// write-back indexer, and event publishing. All counters and histograms are
// registered via promauto for automatic registration with the default
// Prometheus registry.
type Metrics struct {
	// SearchesStarted counts the total number of search requests received.
	SearchesStarted prometheus.Counter

	// SearchesCompleted counts the total number of searches that returned results.
	SearchesCompleted prometheus.Counter

	// SearchesFallback counts the searches answered from the static fallback set.
	SearchesFallback prometheus.Counter

	// SearchDuration observes the end-to-end duration of searches in seconds.
	SearchDuration prometheus.Histogram

	// ResultsPerSearch observes the distribution of result counts per search.
	ResultsPerSearch prometheus.Histogram

	// SuggestRequests counts typeahead suggestion requests.
	SuggestRequests prometheus.Counter

	// ProviderSearches counts provider fan-out calls, labeled by source.
	ProviderSearches *prometheus.CounterVec

	// ProviderFailures counts failed provider calls, labeled by source.
	ProviderFailures *prometheus.CounterVec

	// ProviderDuration observes provider call duration in seconds, labeled by source.
	ProviderDuration *prometheus.HistogramVec

	// PapersPerProvider observes the distribution of papers returned per provider call.
	PapersPerProvider *prometheus.HistogramVec

	// PapersDiscovered counts the total number of unique papers discovered.
	PapersDiscovered prometheus.Counter

	// PapersDuplicate counts the total number of duplicate records collapsed during merging.
	PapersDuplicate prometheus.Counter

	// PapersBySource counts papers discovered, labeled by source.
	PapersBySource *prometheus.CounterVec

	// IndexSubmitted counts papers submitted to the write-back indexer.
	IndexSubmitted prometheus.Counter

	// IndexDropped counts papers dropped because the indexer queue was full.
	IndexDropped prometheus.Counter

	// IndexFailed counts failed index write batches.
	IndexFailed prometheus.Counter

	// EventsPublished counts events published to the broker, labeled by event type.
	EventsPublished *prometheus.CounterVec

	// EventsFailed counts failed event publishes, labeled by event type.
	EventsFailed *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Searches
		SearchesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of search requests received",
		}),
		SearchesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of searches that completed",
		}),
		SearchesFallback: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_fallback_total",
			Help:      "Total number of searches answered from the static fallback set",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end duration of searches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		ResultsPerSearch: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_per_search",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),
		SuggestRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggest_requests_total",
			Help:      "Total number of typeahead suggestion requests",
		}),

		// Providers
		ProviderSearches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_searches_total",
			Help:      "Total number of provider fan-out calls by source",
		}, []string{"source"}),
		ProviderFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "Total number of failed provider calls by source",
		}, []string{"source"}),
		ProviderDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_duration_seconds",
			Help:      "Duration of provider calls in seconds by source",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"source"}),
		PapersPerProvider: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "papers_per_provider",
			Help:      "Number of papers returned per provider call by source",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}, []string{"source"}),

		// Papers
		PapersDiscovered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_discovered_total",
			Help:      "Total number of unique papers discovered",
		}),
		PapersDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_duplicate_total",
			Help:      "Total number of duplicate records collapsed during merging",
		}),
		PapersBySource: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_by_source_total",
			Help:      "Total number of papers discovered by source",
		}, []string{"source"}),

		// Indexer
		IndexSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_submitted_total",
			Help:      "Total number of papers submitted to the write-back indexer",
		}),
		IndexDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_dropped_total",
			Help:      "Total number of papers dropped because the indexer queue was full",
		}),
		IndexFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_failed_total",
			Help:      "Total number of failed index write batches",
		}),

		// Events
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of events published by type",
		}, []string{"type"}),
		EventsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Total number of failed event publishes by type",
		}, []string{"type"}),
	}
}

// RecordSearchStarted records that a search request was received.
func (m *Metrics) RecordSearchStarted() {
	m.SearchesStarted.Inc()
}

// RecordSearchCompleted records a finished search.
func (m *Metrics) RecordSearchCompleted(resultCount int, durationSeconds float64) {
	m.SearchesCompleted.Inc()
	m.SearchDuration.Observe(durationSeconds)
	m.ResultsPerSearch.Observe(float64(resultCount))
}

// RecordSearchFallback records a search answered from the fallback set.
func (m *Metrics) RecordSearchFallback() {
	m.SearchesFallback.Inc()
}

// RecordSuggestRequest records a typeahead suggestion request.
func (m *Metrics) RecordSuggestRequest() {
	m.SuggestRequests.Inc()
}

// RecordProviderSearch records one provider fan-out call.
func (m *Metrics) RecordProviderSearch(source string, paperCount int, durationSeconds float64) {
	m.ProviderSearches.WithLabelValues(source).Inc()
	m.ProviderDuration.WithLabelValues(source).Observe(durationSeconds)
	m.PapersPerProvider.WithLabelValues(source).Observe(float64(paperCount))
}

// RecordProviderFailure records a failed provider call.
func (m *Metrics) RecordProviderFailure(source string) {
	m.ProviderFailures.WithLabelValues(source).Inc()
}

// RecordPapersDiscovered records papers discovered from a source.
func (m *Metrics) RecordPapersDiscovered(source string, count int) {
	m.PapersDiscovered.Add(float64(count))
	m.PapersBySource.WithLabelValues(source).Add(float64(count))
}

// RecordPaperDuplicates records duplicate records collapsed in one merge.
func (m *Metrics) RecordPaperDuplicates(count int) {
	m.PapersDuplicate.Add(float64(count))
}

// RecordIndexSubmitted records papers accepted by the indexer queue.
func (m *Metrics) RecordIndexSubmitted(count int) {
	m.IndexSubmitted.Add(float64(count))
}

// RecordIndexDropped records papers dropped by a full indexer queue.
func (m *Metrics) RecordIndexDropped(count int) {
	m.IndexDropped.Add(float64(count))
}

// RecordIndexFailed records a failed index write batch.
func (m *Metrics) RecordIndexFailed() {
	m.IndexFailed.Inc()
}

// RecordEventPublished records a successfully published event.
func (m *Metrics) RecordEventPublished(eventType string) {
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

// RecordEventFailed records a failed event publish.
func (m *Metrics) RecordEventFailed(eventType string) {
	m.EventsFailed.WithLabelValues(eventType).Inc()
}
