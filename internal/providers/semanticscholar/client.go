package semanticscholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/providers"
)

const (
	// DefaultBaseURL is the default base URL for the Semantic Scholar Graph API.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultRateLimit is the default rate limit for unauthenticated requests.
	DefaultRateLimit = 10.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 10

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults is the default maximum number of results per search.
	DefaultMaxResults = 10

	// apiKeyHeader is the header name for the Semantic Scholar API key.
	apiKeyHeader = "x-api-key"

	// paperFields is the field list requested from the API.
	paperFields = "paperId,externalIds,title,abstract,year,url,authors,citationCount"

	// sourceName is the human-readable name stamped on records.
	sourceName = "Semantic Scholar"
)

// Config contains configuration options for the Semantic Scholar client.
type Config struct {
	// BaseURL overrides the API base URL.
	BaseURL string

	// APIKey is the optional API key; authenticated requests get higher
	// rate limits.
	APIKey string

	// Timeout is the HTTP request timeout.
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

// Client implements providers.SearchProvider for Semantic Scholar.
type Client struct {
	config     Config
	httpClient *providers.HTTPClient
	now        func() time.Time
}

// Compile-time check that Client implements providers.SearchProvider.
var _ providers.SearchProvider = (*Client)(nil)

// New creates a new Semantic Scholar client. If httpClient is nil one is
// created from the config; passing a client is useful for tests.
func New(cfg Config, httpClient *providers.HTTPClient) *Client {
	cfg.applyDefaults()

	if httpClient == nil {
		httpClient = providers.NewHTTPClient(providers.HTTPClientConfig{
			Timeout:      cfg.Timeout,
			RateLimit:    cfg.RateLimit,
			BurstSize:    cfg.BurstSize,
			APIKey:       cfg.APIKey,
			APIKeyHeader: apiKeyHeader,
		})
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Search queries Semantic Scholar for papers matching the given parameters.
func (c *Client) Search(ctx context.Context, params providers.SearchParams) (*providers.SearchResult, error) {
	start := time.Now()

	searchURL, err := c.buildSearchURL(params)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(body), nil)
	}

	// Limit body to 10MB to prevent resource exhaustion.
	var searchResp SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	papers := make([]*domain.Paper, 0, len(searchResp.Data))
	for i := range searchResp.Data {
		if paper := c.toPaper(&searchResp.Data[i]); paper != nil {
			papers = append(papers, paper)
		}
	}

	return &providers.SearchResult{
		Papers:         papers,
		TotalResults:   searchResp.Total,
		HasMore:        searchResp.Next > 0,
		NextOffset:     searchResp.Next,
		Source:         domain.SourceTypeSemanticScholar,
		SearchDuration: time.Since(start),
	}, nil
}

// GetByID retrieves one paper by its Semantic Scholar ID or DOI.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Paper, error) {
	paperURL := fmt.Sprintf("%s/paper/%s?fields=%s", c.config.BaseURL, url.PathEscape(id), paperFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, paperURL, nil)
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
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(body), nil)
	}

	var result PaperResult
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
	return domain.SourceTypeSemanticScholar
}

// Name returns the human-readable name for this provider.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this provider is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// buildSearchURL constructs the paper search URL.
func (c *Client) buildSearchURL(params providers.SearchParams) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	base.Path = base.Path + "/paper/search"

	maxResults := params.MaxResults
	if maxResults == 0 {
		maxResults = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("limit", strconv.Itoa(maxResults))
	q.Set("fields", paperFields)
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if yearFilter := buildYearFilter(params.YearFrom, params.YearTo); yearFilter != "" {
		q.Set("year", yearFilter)
	}
	if params.MinCitations > 0 {
		q.Set("minCitationCount", strconv.Itoa(params.MinCitations))
	}

	base.RawQuery = q.Encode()
	return base.String(), nil
}

// buildYearFilter renders the API's year range syntax: "2020-2023",
// "2020-", or "-2023".
func buildYearFilter(from, to int) string {
	switch {
	case from > 0 && to > 0:
		return fmt.Sprintf("%d-%d", from, to)
	case from > 0:
		return fmt.Sprintf("%d-", from)
	case to > 0:
		return fmt.Sprintf("-%d", to)
	default:
		return ""
	}
}

// toPaper converts an API result to the canonical record. Returns nil for
// results missing the required title.
func (c *Client) toPaper(r *PaperResult) *domain.Paper {
	if r == nil || r.Title == "" {
		return nil
	}

	authors := make([]string, 0, len(r.Authors))
	for _, a := range r.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	year := r.Year
	if year == 0 {
		year = c.now().Year()
	}

	pageURL := r.URL
	if pageURL == "" {
		pageURL = "https://www.semanticscholar.org/paper/" + r.PaperID
	}

	doi := ""
	if r.ExternalIDs != nil {
		doi = r.ExternalIDs.DOI
	}

	return &domain.Paper{
		ID:        r.PaperID,
		Title:     r.Title,
		Authors:   authors,
		Year:      year,
		Citations: r.CitationCount,
		URL:       pageURL,
		Source:    sourceName,
		Abstract:  r.Abstract,
		DOI:       doi,
	}
}
