package meili

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/providers"
)

// fakeMeili serves the two Meilisearch endpoints the provider touches.
func fakeMeili(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{Host: server.URL, Enabled: true})
}

func TestProvider_Search(t *testing.T) {
	provider := fakeMeili(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/papers/search", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "graph neural networks", body["q"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"hits": []map[string]interface{}{
				{
					"id":        "idx-1",
					"title":     "Graph Neural Networks: A Review",
					"authors":   []string{"Kim Lee"},
					"year":      2021,
					"citations": 300,
					"url":       "https://example.org/gnn",
					"source":    "Semantic Scholar",
					"doi":       "10.3000/gnn",
				},
				{
					"id": "idx-untitled",
				},
			},
			"estimatedTotalHits": 12,
			"offset":             0,
			"limit":              10,
			"processingTimeMs":   1,
			"query":              "graph neural networks",
		})
	})

	result, err := provider.Search(context.Background(), providers.SearchParams{Query: "graph neural networks"})
	require.NoError(t, err)

	assert.Equal(t, 12, result.TotalResults)
	assert.True(t, result.HasMore)
	assert.Equal(t, domain.SourceTypeMeilisearch, result.Source)
	require.Len(t, result.Papers, 1)

	paper := result.Papers[0]
	assert.Equal(t, "idx-1", paper.ID)
	assert.Equal(t, "Graph Neural Networks: A Review", paper.Title)
	assert.Equal(t, 2021, paper.Year)
	assert.Equal(t, 300, paper.Citations)
	assert.Equal(t, "10.3000/gnn", paper.DOI)
	// Indexed records keep the source they were first discovered through.
	assert.Equal(t, "Semantic Scholar", paper.Source)
}

func TestProvider_Search_Filter(t *testing.T) {
	var gotFilter interface{}
	provider := fakeMeili(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		gotFilter = body["filter"]
		json.NewEncoder(w).Encode(map[string]interface{}{"hits": []interface{}{}})
	})

	_, err := provider.Search(context.Background(), providers.SearchParams{
		Query:        "q",
		YearFrom:     2019,
		YearTo:       2023,
		MinCitations: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "year >= 2019 AND year <= 2023 AND citations >= 100", gotFilter)
}

func TestBuildFilter(t *testing.T) {
	assert.Empty(t, buildFilter(providers.SearchParams{}))
	assert.Equal(t, "year >= 2020", buildFilter(providers.SearchParams{YearFrom: 2020}))
	assert.Equal(t, "citations >= 5", buildFilter(providers.SearchParams{MinCitations: 5}))
}

func TestProvider_GetByID(t *testing.T) {
	provider := fakeMeili(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/papers/documents/idx-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "idx-1",
			"title": "Indexed Paper",
			"year":  2020,
		})
	})

	paper, err := provider.GetByID(context.Background(), "idx-1")
	require.NoError(t, err)
	assert.Equal(t, "Indexed Paper", paper.Title)
}

func TestProvider_GetByID_NotFound(t *testing.T) {
	provider := fakeMeili(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Document `missing` not found.",
			"code":    "document_not_found",
			"type":    "invalid_request",
		})
	})

	_, err := provider.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProvider_IsEnabled_RequiresHost(t *testing.T) {
	enabled := New(Config{Host: "http://localhost:7700", Enabled: true})
	assert.True(t, enabled.IsEnabled())

	noHost := New(Config{Enabled: true})
	assert.False(t, noHost.IsEnabled())
}
