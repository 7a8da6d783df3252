package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/providers"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/">
  <opensearch:totalResults>42</opensearch:totalResults>
  <opensearch:startIndex>0</opensearch:startIndex>
  <opensearch:itemsPerPage>2</opensearch:itemsPerPage>
  <entry>
    <id>http://arxiv.org/abs/2301.12345v2</id>
    <title>Attention   Mechanisms
      in Vision</title>
    <summary>We survey
      attention mechanisms.</summary>
    <published>2023-01-15T18:30:00Z</published>
    <author><name>Alice Chen</name></author>
    <author><name>Bob Park</name></author>
    <link rel="alternate" type="text/html" href="https://arxiv.org/abs/2301.12345v2"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v1</id>
    <title>Legacy Identifier Paper</title>
    <summary>Old scheme.</summary>
    <published>1999-01-04T00:00:00Z</published>
    <author><name>Carol Wu</name></author>
  </entry>
</feed>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{
		BaseURL:   server.URL,
		RateLimit: 1000,
		BurstSize: 1000,
		Enabled:   true,
	}, nil)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "all:attention", r.URL.Query().Get("search_query"))
		assert.Equal(t, "submittedDate", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "descending", r.URL.Query().Get("sortOrder"))
		w.Write([]byte(sampleFeed))
	})

	result, err := client.Search(context.Background(), providers.SearchParams{Query: "attention"})
	require.NoError(t, err)

	assert.Equal(t, 42, result.TotalResults)
	assert.True(t, result.HasMore)
	assert.Equal(t, domain.SourceTypeArXiv, result.Source)
	require.Len(t, result.Papers, 2)

	first := result.Papers[0]
	assert.Equal(t, "2301.12345", first.ID)
	assert.Equal(t, "Attention Mechanisms in Vision", first.Title)
	assert.Equal(t, "We survey attention mechanisms.", first.Abstract)
	assert.Equal(t, []string{"Alice Chen", "Bob Park"}, first.Authors)
	assert.Equal(t, 2023, first.Year)
	assert.Zero(t, first.Citations)
	assert.Equal(t, "https://arxiv.org/abs/2301.12345v2", first.URL)
	assert.Equal(t, "arXiv", first.Source)

	second := result.Papers[1]
	assert.Equal(t, "hep-th/9901001", second.ID)
	assert.Equal(t, 1999, second.Year)
	assert.Equal(t, "http://arxiv.org/abs/hep-th/9901001v1", second.URL)
}

func TestClient_Search_YearFilter(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	_, err := client.Search(context.Background(), providers.SearchParams{
		Query:    "q",
		YearFrom: 2020,
		YearTo:   2022,
	})
	require.NoError(t, err)
	assert.Equal(t, "all:q AND submittedDate:[202001010000 TO 202212312359]", gotQuery)
}

func TestBuildDateFilter(t *testing.T) {
	assert.Empty(t, buildDateFilter(0, 0))
	assert.Equal(t, "submittedDate:[202001010000 TO *]", buildDateFilter(2020, 0))
	assert.Equal(t, "submittedDate:[* TO 202212312359]", buildDateFilter(0, 2022))
}

func TestExtractArXivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.12345v1", "2301.12345"},
		{"http://arxiv.org/abs/2301.12345", "2301.12345"},
		{"http://arxiv.org/abs/hep-th/9901001v3", "hep-th/9901001"},
		{"https://example.org/not-arxiv", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractArXivID(tt.in), tt.in)
	}
}

func TestClient_GetByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2301.12345", r.URL.Query().Get("id_list"))
		w.Write([]byte(sampleFeed))
	})

	paper, err := client.GetByID(context.Background(), "2301.12345")
	require.NoError(t, err)
	assert.Equal(t, "2301.12345", paper.ID)
}

func TestClient_GetByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	_, err := client.GetByID(context.Background(), "0000.00000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Search_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.Search(context.Background(), providers.SearchParams{Query: "q"})
	var apiErr *domain.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "arXiv", apiErr.Source)
}
