// Package meili provides a SearchProvider backed by a Meilisearch index.
//
// The index is populated by the background indexer with papers discovered
// through the external providers, so repeated queries get fast local hits
// even when the upstream APIs are slow or rate limited.
package meili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/providers"
)

const (
	// DefaultIndexUID is the default Meilisearch index holding papers.
	DefaultIndexUID = "papers"

	// DefaultMaxResults is the default maximum results per search.
	DefaultMaxResults = 10

	// sourceName is the human-readable name stamped on records.
	sourceName = "Meilisearch"
)

// Config holds configuration for the Meilisearch provider.
type Config struct {
	// Host is the Meilisearch server URL, e.g. "http://localhost:7700".
	Host string

	// APIKey is the Meilisearch API key, if the server requires one.
	APIKey string

	// IndexUID is the index to search.
	IndexUID string

	// MaxResults is the maximum results per search request.
	MaxResults int

	// Enabled indicates whether this provider participates in searches.
	Enabled bool
}

func (c *Config) applyDefaults() {
	if c.IndexUID == "" {
		c.IndexUID = DefaultIndexUID
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Provider implements providers.SearchProvider over a Meilisearch index.
type Provider struct {
	config Config
	index  meilisearch.IndexManager
}

var _ providers.SearchProvider = (*Provider)(nil)

// New creates a new Meilisearch provider.
func New(cfg Config) *Provider {
	cfg.applyDefaults()

	var opts []meilisearch.Option
	if cfg.APIKey != "" {
		opts = append(opts, meilisearch.WithAPIKey(cfg.APIKey))
	}
	client := meilisearch.New(cfg.Host, opts...)

	return &Provider{
		config: cfg,
		index:  client.Index(cfg.IndexUID),
	}
}

// NewWithIndex creates a provider over an existing index manager. This is
// useful for tests and for sharing a client with the indexer.
func NewWithIndex(cfg Config, index meilisearch.IndexManager) *Provider {
	cfg.applyDefaults()
	return &Provider{config: cfg, index: index}
}

// Search queries the index for papers matching the given parameters.
func (p *Provider) Search(ctx context.Context, params providers.SearchParams) (*providers.SearchResult, error) {
	start := time.Now()

	maxResults := params.MaxResults
	if maxResults == 0 {
		maxResults = p.config.MaxResults
	}

	req := &meilisearch.SearchRequest{
		Limit:  int64(maxResults),
		Offset: int64(params.Offset),
	}
	if filter := buildFilter(params); filter != "" {
		req.Filter = filter
	}

	resp, err := p.index.SearchWithContext(ctx, params.Query, req)
	if err != nil {
		return nil, fmt.Errorf("searching index %q: %w", p.config.IndexUID, err)
	}

	papers, err := decodeHits(resp.Hits)
	if err != nil {
		return nil, err
	}

	total := int(resp.EstimatedTotalHits)
	nextOffset := params.Offset + len(papers)

	return &providers.SearchResult{
		Papers:         papers,
		TotalResults:   total,
		HasMore:        nextOffset < total,
		NextOffset:     nextOffset,
		Source:         domain.SourceTypeMeilisearch,
		SearchDuration: time.Since(start),
	}, nil
}

// GetByID retrieves one indexed paper by its document ID.
func (p *Provider) GetByID(ctx context.Context, id string) (*domain.Paper, error) {
	var paper domain.Paper
	if err := p.index.GetDocumentWithContext(ctx, id, nil, &paper); err != nil {
		if isNotFound(err) {
			return nil, domain.NewNotFoundError("paper", id)
		}
		return nil, fmt.Errorf("fetching document %q: %w", id, err)
	}
	return &paper, nil
}

// SourceType returns the source type identifier.
func (p *Provider) SourceType() domain.SourceType {
	return domain.SourceTypeMeilisearch
}

// Name returns the human-readable name for this provider.
func (p *Provider) Name() string {
	return sourceName
}

// IsEnabled returns whether this provider is enabled. A host is required.
func (p *Provider) IsEnabled() bool {
	return p.config.Enabled && p.config.Host != ""
}

// buildFilter renders the Meilisearch filter expression for the year and
// citation constraints. The indexer declares year, source and citations as
// filterable attributes.
func buildFilter(params providers.SearchParams) string {
	var clauses []string
	if params.YearFrom > 0 {
		clauses = append(clauses, fmt.Sprintf("year >= %d", params.YearFrom))
	}
	if params.YearTo > 0 {
		clauses = append(clauses, fmt.Sprintf("year <= %d", params.YearTo))
	}
	if params.MinCitations > 0 {
		clauses = append(clauses, fmt.Sprintf("citations >= %d", params.MinCitations))
	}
	return strings.Join(clauses, " AND ")
}

// decodeHits converts raw search hits back into domain records via a JSON
// round trip.
func decodeHits(hits []interface{}) ([]*domain.Paper, error) {
	papers := make([]*domain.Paper, 0, len(hits))
	for _, hit := range hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("encoding hit: %w", err)
		}
		var paper domain.Paper
		if err := json.Unmarshal(raw, &paper); err != nil {
			return nil, fmt.Errorf("decoding hit: %w", err)
		}
		if paper.Title == "" {
			continue
		}
		// Indexed records keep the source they were discovered through;
		// only stamp records that predate source attribution.
		if paper.Source == "" {
			paper.Source = sourceName
		}
		papers = append(papers, &paper)
	}
	return papers, nil
}

func isNotFound(err error) bool {
	var apiErr *meilisearch.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
