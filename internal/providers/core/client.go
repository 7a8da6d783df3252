package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/providers"
)

const (
	// DefaultBaseURL is the default CORE v3 API base URL.
	DefaultBaseURL = "https://api.core.ac.uk/v3"

	// DefaultRateLimit is the default rate limit for requests per second.
	// CORE's free tier is tight, so the default stays conservative.
	DefaultRateLimit = 2.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 2

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 10

	// sourceName is the human-readable name stamped on records.
	sourceName = "CORE"
)

// Config holds configuration for the CORE client.
type Config struct {
	// BaseURL is the CORE API base URL.
	BaseURL string

	// APIKey is the bearer token. CORE requires one for all requests;
	// the provider reports itself disabled without it.
	APIKey string

	// Timeout is the request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int

	// MaxResults is the maximum results per search request.
	MaxResults int

	// Enabled indicates whether this provider participates in searches.
	Enabled bool
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Client implements providers.SearchProvider for CORE.
type Client struct {
	config     Config
	httpClient *providers.HTTPClient
	now        func() time.Time
}

var _ providers.SearchProvider = (*Client)(nil)

// New creates a new CORE client. If httpClient is nil one is created from
// the config.
func New(cfg Config, httpClient *providers.HTTPClient) *Client {
	cfg.applyDefaults()

	if httpClient == nil {
		httpClient = providers.NewHTTPClient(providers.HTTPClientConfig{
			Timeout:      cfg.Timeout,
			RateLimit:    cfg.RateLimit,
			BurstSize:    cfg.BurstSize,
			APIKey:       bearerToken(cfg.APIKey),
			APIKeyHeader: "Authorization",
		})
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func bearerToken(key string) string {
	if key == "" {
		return ""
	}
	return "Bearer " + key
}

// Search queries CORE works matching the given parameters.
func (c *Client) Search(ctx context.Context, params providers.SearchParams) (*providers.SearchResult, error) {
	start := time.Now()

	maxResults := params.MaxResults
	if maxResults == 0 {
		maxResults = c.config.MaxResults
	}

	body, err := json.Marshal(searchRequest{
		Q:      buildQuery(params),
		Limit:  maxResults,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/search/works", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(respBody), nil)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	papers := make([]*domain.Paper, 0, len(searchResp.Results))
	for i := range searchResp.Results {
		if paper := c.toPaper(&searchResp.Results[i]); paper != nil {
			papers = append(papers, paper)
		}
	}

	nextOffset := params.Offset + len(searchResp.Results)

	return &providers.SearchResult{
		Papers:         papers,
		TotalResults:   searchResp.TotalHits,
		HasMore:        nextOffset < searchResp.TotalHits,
		NextOffset:     nextOffset,
		Source:         domain.SourceTypeCORE,
		SearchDuration: time.Since(start),
	}, nil
}

// GetByID retrieves one work by its CORE ID.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Paper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/works/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewNotFoundError("paper", id)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(respBody), nil)
	}

	var result workResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	paper := c.toPaper(&result)
	if paper == nil {
		return nil, domain.NewNotFoundError("paper", id)
	}
	return paper, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeCORE
}

// Name returns the human-readable name for this provider.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this provider is enabled. CORE cannot be
// queried without an API key.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled && c.config.APIKey != ""
}

// buildQuery renders the CORE query string, folding year constraints into
// the query language since the search endpoint has no separate filters.
func buildQuery(params providers.SearchParams) string {
	parts := []string{params.Query}
	if params.YearFrom > 0 {
		parts = append(parts, fmt.Sprintf("yearPublished>=%d", params.YearFrom))
	}
	if params.YearTo > 0 {
		parts = append(parts, fmt.Sprintf("yearPublished<=%d", params.YearTo))
	}
	return strings.Join(parts, " AND ")
}

// toPaper converts a CORE work to the canonical record. Returns nil for
// works without a title.
func (c *Client) toPaper(w *workResult) *domain.Paper {
	if w == nil || w.Title == "" {
		return nil
	}

	authors := make([]string, 0, len(w.Authors))
	for _, a := range w.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	year := w.YearPublished
	if year == 0 {
		year = c.now().Year()
	}

	pageURL := w.DownloadURL
	if pageURL == "" {
		for _, l := range w.Links {
			if l.Type == "display" && l.URL != "" {
				pageURL = l.URL
				break
			}
		}
	}
	if pageURL == "" {
		pageURL = "https://core.ac.uk/works/" + strconv.FormatInt(w.ID, 10)
	}

	return &domain.Paper{
		ID:        strconv.FormatInt(w.ID, 10),
		Title:     w.Title,
		Authors:   authors,
		Year:      year,
		Citations: w.CitationCount,
		URL:       pageURL,
		Source:    sourceName,
		Abstract:  w.Abstract,
		DOI:       w.DOI,
	}
}
