package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/providers"
)

const (
	// DefaultBaseURL is the default CrossRef REST API base URL.
	DefaultBaseURL = "https://api.crossref.org"

	// DefaultRateLimit is the default rate limit for requests per second.
	// The polite pool (with a mailto) gets more generous treatment.
	DefaultRateLimit = 5.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 5

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 10

	// sourceName is the human-readable name stamped on records.
	sourceName = "CrossRef"
)

// jatsTagRe strips JATS markup that CrossRef embeds in abstracts.
var jatsTagRe = regexp.MustCompile(`</?jats:[^>]+>|</?[a-zA-Z][^>]*>`)

// Config holds configuration for the CrossRef client.
type Config struct {
	// BaseURL is the CrossRef API base URL.
	BaseURL string

	// Mailto is the contact email appended to requests. Providing one
	// routes requests through CrossRef's polite pool.
	Mailto string

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

// Client implements providers.SearchProvider for CrossRef.
type Client struct {
	config     Config
	httpClient *providers.HTTPClient
	now        func() time.Time
}

var _ providers.SearchProvider = (*Client)(nil)

// New creates a new CrossRef client. If httpClient is nil one is created
// from the config.
func New(cfg Config, httpClient *providers.HTTPClient) *Client {
	cfg.applyDefaults()

	if httpClient == nil {
		userAgent := "ResearchX-Discovery/1.0"
		if cfg.Mailto != "" {
			userAgent += " (mailto:" + cfg.Mailto + ")"
		}
		httpClient = providers.NewHTTPClient(providers.HTTPClientConfig{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			BurstSize: cfg.BurstSize,
			UserAgent: userAgent,
		})
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Search queries CrossRef works matching the given parameters.
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

	var worksResp worksResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&worksResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	papers := make([]*domain.Paper, 0, len(worksResp.Message.Items))
	for i := range worksResp.Message.Items {
		if paper := c.toPaper(&worksResp.Message.Items[i]); paper != nil {
			papers = append(papers, paper)
		}
	}

	maxResults := params.MaxResults
	if maxResults == 0 {
		maxResults = c.config.MaxResults
	}
	nextOffset := params.Offset + len(worksResp.Message.Items)

	return &providers.SearchResult{
		Papers:         papers,
		TotalResults:   worksResp.Message.TotalResults,
		HasMore:        nextOffset < worksResp.Message.TotalResults,
		NextOffset:     nextOffset,
		Source:         domain.SourceTypeCrossRef,
		SearchDuration: time.Since(start),
	}, nil
}

// GetByID retrieves one work by DOI.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Paper, error) {
	workURL := c.config.BaseURL + "/works/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, workURL, nil)
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

	var workResp workResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&workResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	paper := c.toPaper(&workResp.Message)
	if paper == nil {
		return nil, domain.NewNotFoundError("paper", id)
	}
	return paper, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeCrossRef
}

// Name returns the human-readable name for this provider.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this provider is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

func (c *Client) buildSearchURL(params providers.SearchParams) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	base.Path = base.Path + "/works"

	maxResults := params.MaxResults
	if maxResults == 0 {
		maxResults = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("rows", strconv.Itoa(maxResults))
	q.Set("select", "DOI,title,author,issued,is-referenced-by-count,URL,abstract,type")
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if c.config.Mailto != "" {
		q.Set("mailto", c.config.Mailto)
	}

	var filters []string
	if params.YearFrom > 0 {
		filters = append(filters, fmt.Sprintf("from-pub-date:%d-01-01", params.YearFrom))
	}
	if params.YearTo > 0 {
		filters = append(filters, fmt.Sprintf("until-pub-date:%d-12-31", params.YearTo))
	}
	if len(filters) > 0 {
		q.Set("filter", strings.Join(filters, ","))
	}

	base.RawQuery = q.Encode()
	return base.String(), nil
}

// toPaper converts a CrossRef work to the canonical record. Returns nil for
// works without a title.
func (c *Client) toPaper(w *work) *domain.Paper {
	if w == nil || len(w.Title) == 0 || w.Title[0] == "" {
		return nil
	}

	authors := make([]string, 0, len(w.Author))
	for _, a := range w.Author {
		name := formatAuthor(a)
		if name != "" {
			authors = append(authors, name)
		}
	}

	year := w.Issued.Year()
	if year == 0 && w.Published != nil {
		year = w.Published.Year()
	}
	if year == 0 {
		year = c.now().Year()
	}

	pageURL := w.URL
	if pageURL == "" && w.DOI != "" {
		pageURL = "https://doi.org/" + w.DOI
	}

	return &domain.Paper{
		ID:        w.DOI,
		Title:     w.Title[0],
		Authors:   authors,
		Year:      year,
		Citations: w.ReferencedCount,
		URL:       pageURL,
		Source:    sourceName,
		Abstract:  stripJATS(w.Abstract),
		DOI:       w.DOI,
	}
}

// formatAuthor renders "Given Family", falling back to whichever parts are
// present.
func formatAuthor(a author) string {
	switch {
	case a.Given != "" && a.Family != "":
		return a.Given + " " + a.Family
	case a.Family != "":
		return a.Family
	case a.Given != "":
		return a.Given
	default:
		return a.Name
	}
}

// stripJATS removes JATS markup from CrossRef abstracts and collapses the
// surrounding whitespace.
func stripJATS(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(jatsTagRe.ReplaceAllString(s, " ")), " ")
}
