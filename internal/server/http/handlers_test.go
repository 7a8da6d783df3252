package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/providers"
	"github.com/researchx/discovery-service/internal/search"
)

type fakeProvider struct {
	source  domain.SourceType
	papers  []*domain.Paper
	err     error
	byID    map[string]*domain.Paper
	gotMin  int
	gotFrom int
	gotTo   int
}

func (f *fakeProvider) Search(ctx context.Context, params providers.SearchParams) (*providers.SearchResult, error) {
	f.gotMin = params.MinCitations
	f.gotFrom = params.YearFrom
	f.gotTo = params.YearTo
	if f.err != nil {
		return nil, f.err
	}
	return &providers.SearchResult{Papers: f.papers, Source: f.source}, nil
}

func (f *fakeProvider) GetByID(ctx context.Context, id string) (*domain.Paper, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.NewNotFoundError("paper", id)
}

func (f *fakeProvider) SourceType() domain.SourceType { return f.source }
func (f *fakeProvider) Name() string                  { return string(f.source) }
func (f *fakeProvider) IsEnabled() bool               { return true }

func newTestServer(t *testing.T, provs ...providers.SearchProvider) *Server {
	t.Helper()
	registry := providers.NewRegistry(5 * time.Second)
	for _, p := range provs {
		registry.Register(p)
	}
	svc := search.NewService(search.Config{
		Registry: registry,
		Logger:   zerolog.Nop(),
	})
	return NewServer(Config{Address: "127.0.0.1:0"}, svc, zerolog.Nop())
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestSearchPapersSuccess(t *testing.T) {
	prov := &fakeProvider{
		source: domain.SourceTypeSemanticScholar,
		papers: []*domain.Paper{
			{ID: "p1", Title: "Attention Is All You Need", Authors: []string{"Vaswani"}, Year: 2017, Citations: 90000, Source: "Semantic Scholar", DOI: "10.1/attn"},
		},
	}
	s := newTestServer(t, prov)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/papers/search?q=attention")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "Attention Is All You Need", resp.Papers[0].Title)
	assert.Equal(t, 1, resp.ResultCount)
	assert.Equal(t, 1, resp.SourcesAsked)
	assert.False(t, resp.FallbackUsed)
	assert.NotNil(t, resp.Papers[0].RelevanceScore)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestSearchPapersForwardsFilters(t *testing.T) {
	prov := &fakeProvider{source: domain.SourceTypeCrossRef}
	s := newTestServer(t, prov)

	rec := doRequest(t, s, http.MethodGet,
		"/api/v1/papers/search?q=deep+learning&year_from=2020&year_to=2023&min_citations=50")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2020, prov.gotFrom)
	assert.Equal(t, 2023, prov.gotTo)
	assert.Equal(t, 50, prov.gotMin)
}

func TestSearchPapersValidation(t *testing.T) {
	s := newTestServer(t, &fakeProvider{source: domain.SourceTypeArXiv})

	tests := []struct {
		name   string
		target string
	}{
		{"missing query", "/api/v1/papers/search"},
		{"query too short", "/api/v1/papers/search?q=a"},
		{"bad year_from", "/api/v1/papers/search?q=test&year_from=abc"},
		{"year range inverted", "/api/v1/papers/search?q=test&year_from=2023&year_to=2020"},
		{"bad limit", "/api/v1/papers/search?q=test&limit=xyz"},
		{"limit too large", "/api/v1/papers/search?q=test&limit=9999"},
		{"bad sort key", "/api/v1/papers/search?q=test&sort_by=alphabetical"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSearchPapersNeverFailsOnProviderErrors(t *testing.T) {
	s := newTestServer(t, &fakeProvider{
		source: domain.SourceTypeSemanticScholar,
		err:    errors.New("upstream down"),
	})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/papers/search?q=quantum+computing")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.FallbackUsed)
	assert.NotEmpty(t, resp.Papers)
}

func TestSuggestTitles(t *testing.T) {
	registry := providers.NewRegistry(time.Second)
	svc := search.NewService(search.Config{
		Registry:  registry,
		Suggester: suggesterFunc(func(partial string) []string { return []string{"Deep Learning"} }),
		Logger:    zerolog.Nop(),
	})
	s := NewServer(Config{}, svc, zerolog.Nop())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/papers/suggest?q=deep")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "deep", resp.Query)
	assert.Equal(t, []string{"Deep Learning"}, resp.Suggestions)
}

type suggesterFunc func(string) []string

func (f suggesterFunc) Suggest(partial string) []string { return f(partial) }

func TestSuggestTitlesEmptyIsNotAnError(t *testing.T) {
	s := newTestServer(t, &fakeProvider{source: domain.SourceTypeArXiv})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/papers/suggest?q=z")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Suggestions)
	assert.Empty(t, resp.Suggestions)
}

func TestListSources(t *testing.T) {
	s := newTestServer(t,
		&fakeProvider{source: domain.SourceTypeArXiv},
		&fakeProvider{source: domain.SourceTypeCrossRef},
	)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/papers/sources")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sourcesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"arxiv", "crossref"}, resp.Sources)
}

func TestGetPaper(t *testing.T) {
	prov := &fakeProvider{
		source: domain.SourceTypeSemanticScholar,
		byID: map[string]*domain.Paper{
			"abc": {ID: "abc", Title: "Known Paper", Year: 2021, Source: "Semantic Scholar"},
		},
	}
	s := newTestServer(t, prov)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/papers/semantic_scholar/abc")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp paperDetailsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Known Paper", resp.Paper.Title)
	})

	t.Run("unknown paper", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/papers/semantic_scholar/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown source", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/papers/not_a_source/abc")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		s := newTestServer(t, &fakeProvider{source: domain.SourceTypeArXiv})
		rec := doRequest(t, s, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz with providers", func(t *testing.T) {
		s := newTestServer(t, &fakeProvider{source: domain.SourceTypeArXiv})
		rec := doRequest(t, s, http.MethodGet, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz without providers", func(t *testing.T) {
		s := newTestServer(t)
		rec := doRequest(t, s, http.MethodGet, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeProvider{source: domain.SourceTypeArXiv})
	rec := doRequest(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCorrelationIDMiddleware(t *testing.T) {
	s := newTestServer(t, &fakeProvider{source: domain.SourceTypeArXiv})

	t.Run("generated when absent", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/healthz")
		assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	})

	t.Run("echoed when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Correlation-ID", "my-correlation-id")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		assert.Equal(t, "my-correlation-id", rec.Header().Get("X-Correlation-ID"))
	})
}
