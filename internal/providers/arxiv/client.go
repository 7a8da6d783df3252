package arxiv

import (
	"context"
	"encoding/xml"
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
	// DefaultBaseURL is the default arXiv API base URL.
	DefaultBaseURL = "https://export.arxiv.org/api"

	// DefaultRateLimit is the default rate limit. arXiv asks clients to
	// keep request rates low.
	DefaultRateLimit = 3.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 3

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 10

	// sourceName is the human-readable name stamped on records.
	sourceName = "arXiv"
)

// arxivIDRegex extracts the arXiv ID from the entry URL. Matches both
// modern IDs like "2301.12345v1" and legacy IDs like "hep-th/9901001v1".
var arxivIDRegex = regexp.MustCompile(`arxiv\.org/abs/(.+?)(?:v\d+)?$`)

// Config holds configuration for the arXiv client.
type Config struct {
	// BaseURL is the arXiv API base URL.
	BaseURL string

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

// Client implements providers.SearchProvider for arXiv.
type Client struct {
	config     Config
	httpClient *providers.HTTPClient
	now        func() time.Time
}

var _ providers.SearchProvider = (*Client)(nil)

// New creates a new arXiv client. If httpClient is nil one is created from
// the config.
func New(cfg Config, httpClient *providers.HTTPClient) *Client {
	cfg.applyDefaults()

	if httpClient == nil {
		httpClient = providers.NewHTTPClient(providers.HTTPClientConfig{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			BurstSize: cfg.BurstSize,
		})
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Search queries arXiv for papers matching the given parameters.
func (c *Client) Search(ctx context.Context, params providers.SearchParams) (*providers.SearchResult, error) {
	start := time.Now()

	searchURL, err := c.buildSearchURL(params)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	feed, err := c.fetchFeed(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	papers := make([]*domain.Paper, 0, len(feed.Entries))
	for i := range feed.Entries {
		if paper := c.entryToPaper(&feed.Entries[i]); paper != nil {
			papers = append(papers, paper)
		}
	}

	nextOffset := params.Offset + len(feed.Entries)

	return &providers.SearchResult{
		Papers:         papers,
		TotalResults:   feed.TotalResults,
		HasMore:        nextOffset < feed.TotalResults,
		NextOffset:     nextOffset,
		Source:         domain.SourceTypeArXiv,
		SearchDuration: time.Since(start),
	}, nil
}

// GetByID retrieves one paper by its arXiv ID.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Paper, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/query"

	q := url.Values{}
	q.Set("id_list", id)
	base.RawQuery = q.Encode()

	feed, err := c.fetchFeed(ctx, base.String())
	if err != nil {
		return nil, err
	}

	if len(feed.Entries) == 0 {
		return nil, domain.NewNotFoundError("paper", id)
	}
	paper := c.entryToPaper(&feed.Entries[0])
	if paper == nil {
		return nil, domain.NewNotFoundError("paper", id)
	}
	return paper, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeArXiv
}

// Name returns the human-readable name for this provider.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this provider is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

func (c *Client) fetchFeed(ctx context.Context, feedURL string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
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

	var feed Feed
	if err := xml.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &feed, nil
}

// buildSearchURL constructs the arXiv query URL, sorted by submission date
// newest first.
func (c *Client) buildSearchURL(params providers.SearchParams) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/query"

	searchQuery := "all:" + params.Query
	if dateFilter := buildDateFilter(params.YearFrom, params.YearTo); dateFilter != "" {
		searchQuery += " AND " + dateFilter
	}

	maxResults := params.MaxResults
	if maxResults == 0 {
		maxResults = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("search_query", searchQuery)
	q.Set("max_results", strconv.Itoa(maxResults))
	if params.Offset > 0 {
		q.Set("start", strconv.Itoa(params.Offset))
	}
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")

	base.RawQuery = q.Encode()
	return base.String(), nil
}

// buildDateFilter renders arXiv's submittedDate range syntax.
func buildDateFilter(yearFrom, yearTo int) string {
	if yearFrom == 0 && yearTo == 0 {
		return ""
	}

	fromStr := "*"
	if yearFrom > 0 {
		fromStr = fmt.Sprintf("%d01010000", yearFrom)
	}
	toStr := "*"
	if yearTo > 0 {
		toStr = fmt.Sprintf("%d12312359", yearTo)
	}
	return fmt.Sprintf("submittedDate:[%s TO %s]", fromStr, toStr)
}

// entryToPaper converts an Atom entry to the canonical record. arXiv does
// not report citation counts, so Citations stays at zero.
func (c *Client) entryToPaper(entry *Entry) *domain.Paper {
	if entry == nil {
		return nil
	}

	title := normalizeWhitespace(entry.Title)
	if title == "" {
		return nil
	}

	arxivID := extractArXivID(entry.ID)
	if arxivID == "" {
		return nil
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	year := c.now().Year()
	if published, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		year = published.Year()
	}

	pageURL := entry.ID
	for _, l := range entry.Links {
		if l.Rel == "alternate" && l.Href != "" {
			pageURL = l.Href
			break
		}
	}

	return &domain.Paper{
		ID:       arxivID,
		Title:    title,
		Authors:  authors,
		Year:     year,
		URL:      pageURL,
		Source:   sourceName,
		Abstract: normalizeWhitespace(entry.Summary),
		DOI:      strings.TrimSpace(entry.DOI),
	}
}

// extractArXivID pulls the bare arXiv ID out of an entry URL, dropping any
// version suffix.
func extractArXivID(entryURL string) string {
	matches := arxivIDRegex.FindStringSubmatch(entryURL)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

// normalizeWhitespace collapses the newlines and indentation that arXiv
// embeds in Atom text fields.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
