package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	// Use unique namespace to avoid conflicts with other tests
	m := NewMetrics("test_discovery_new")

	assert.NotNil(t, m.SearchesStarted)
	assert.NotNil(t, m.SearchesCompleted)
	assert.NotNil(t, m.SearchesFallback)
	assert.NotNil(t, m.SearchDuration)
	assert.NotNil(t, m.ResultsPerSearch)
	assert.NotNil(t, m.SuggestRequests)
	assert.NotNil(t, m.ProviderSearches)
	assert.NotNil(t, m.ProviderFailures)
	assert.NotNil(t, m.ProviderDuration)
	assert.NotNil(t, m.PapersPerProvider)
	assert.NotNil(t, m.PapersDiscovered)
	assert.NotNil(t, m.PapersDuplicate)
	assert.NotNil(t, m.PapersBySource)
	assert.NotNil(t, m.IndexSubmitted)
	assert.NotNil(t, m.IndexDropped)
	assert.NotNil(t, m.IndexFailed)
	assert.NotNil(t, m.EventsPublished)
	assert.NotNil(t, m.EventsFailed)
}

func TestRecordSearchStarted(t *testing.T) {
	m := NewMetrics("test_search_started")

	initial := testutil.ToFloat64(m.SearchesStarted)
	m.RecordSearchStarted()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesStarted))
}

func TestRecordSearchCompleted(t *testing.T) {
	m := NewMetrics("test_search_completed")

	m.RecordSearchCompleted(15, 0.42)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesCompleted))

	// Check histogram
	histCount, err := getHistogramSampleCount(m.SearchDuration)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)

	histCount, err = getHistogramSampleCount(m.ResultsPerSearch)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)
}

func TestRecordSearchFallback(t *testing.T) {
	m := NewMetrics("test_search_fallback")

	m.RecordSearchFallback()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesFallback))
}

func TestRecordSuggestRequest(t *testing.T) {
	m := NewMetrics("test_suggest_request")

	m.RecordSuggestRequest()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SuggestRequests))
}

func TestRecordProviderSearch(t *testing.T) {
	m := NewMetrics("test_provider_search")

	m.RecordProviderSearch("arxiv", 8, 1.2)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProviderSearches.WithLabelValues("arxiv")))
}

func TestRecordProviderFailure(t *testing.T) {
	m := NewMetrics("test_provider_failure")

	m.RecordProviderFailure("core")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProviderFailures.WithLabelValues("core")))
}

func TestRecordPapersDiscovered(t *testing.T) {
	m := NewMetrics("test_papers_discovered")

	m.RecordPapersDiscovered("semantic_scholar", 42)
	assert.Equal(t, float64(42), testutil.ToFloat64(m.PapersDiscovered))
	assert.Equal(t, float64(42), testutil.ToFloat64(m.PapersBySource.WithLabelValues("semantic_scholar")))
}

func TestRecordPaperDuplicates(t *testing.T) {
	m := NewMetrics("test_paper_duplicates")

	m.RecordPaperDuplicates(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.PapersDuplicate))
}

func TestRecordIndexCounters(t *testing.T) {
	m := NewMetrics("test_index_counters")

	m.RecordIndexSubmitted(10)
	m.RecordIndexDropped(2)
	m.RecordIndexFailed()

	assert.Equal(t, float64(10), testutil.ToFloat64(m.IndexSubmitted))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.IndexDropped))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IndexFailed))
}

func TestRecordEventPublished(t *testing.T) {
	m := NewMetrics("test_event_published")

	m.RecordEventPublished("discovery.search_completed")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsPublished.WithLabelValues("discovery.search_completed")))
}

func TestRecordEventFailed(t *testing.T) {
	m := NewMetrics("test_event_failed")

	m.RecordEventFailed("discovery.papers_discovered")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsFailed.WithLabelValues("discovery.papers_discovered")))
}

// Helper to get histogram sample count
func getHistogramSampleCount(h prometheus.Histogram) (uint64, error) {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	close(ch)

	var m prometheus.Metric
	for m = range ch {
		break
	}

	var dto = &dto.Metric{}
	if err := m.Write(dto); err != nil {
		return 0, err
	}

	return dto.Histogram.GetSampleCount(), nil
}
