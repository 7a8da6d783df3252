// Package providers defines the SearchProvider contract and the shared
// plumbing for querying paper-metadata sources. Each external source
// (Semantic Scholar, CrossRef, CORE, arXiv, a hosted Meilisearch index, the
// bundled offline dataset) implements SearchProvider, and the Registry fans a
// query out to all enabled providers concurrently.
package providers

import (
	"context"
	"time"

	"github.com/researchx/discovery-service/internal/domain"
)

// SearchParams defines the parameters for one provider search.
type SearchParams struct {
	// Query is the (already synonym-expanded) search query string.
	Query string

	// YearFrom keeps papers published in or after this year. Zero applies no
	// lower bound.
	YearFrom int

	// YearTo keeps papers published in or before this year. Zero applies no
	// upper bound.
	YearTo int

	// MaxResults limits the number of papers returned in a single request.
	// Zero uses the provider's default limit.
	MaxResults int

	// Offset is the starting position for paginated results.
	Offset int

	// MinCitations drops papers below the threshold, for providers that can
	// filter server-side. Zero applies no filter.
	MinCitations int
}

// SearchResult contains the results from one provider search.
type SearchResult struct {
	// Papers holds the normalized records. May be empty.
	Papers []*domain.Paper

	// TotalResults is the provider's estimate of the total matching papers,
	// regardless of pagination.
	TotalResults int

	// HasMore indicates additional results exist beyond this page.
	HasMore bool

	// NextOffset is the offset for the next page when HasMore is true.
	NextOffset int

	// Source identifies the provider that produced these results.
	Source domain.SourceType

	// SearchDuration is the wall-clock time of the search, including network
	// latency and parsing.
	SearchDuration time.Duration
}

// SearchProvider is the capability every paper source implements. A provider
// returns an error for transport or parse failures; the aggregation layer
// contains those errors so a downed source contributes an empty result
// instead of failing the search.
type SearchProvider interface {
	// Search queries the source for papers matching params. Implementations
	// must respect context cancellation, apply their own rate limiting, and
	// normalize responses to domain.Paper with sane defaults for missing
	// fields (missing year: current year; missing citations: 0).
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)

	// GetByID retrieves one paper by its source-specific identifier.
	// Returns an error satisfying errors.Is(err, domain.ErrNotFound) when the
	// paper does not exist.
	GetByID(ctx context.Context, id string) (*domain.Paper, error)

	// SourceType returns the type identifier for this provider.
	SourceType() domain.SourceType

	// Name returns the human-readable source name stamped on records.
	Name() string

	// IsEnabled reports whether this provider participates in searches. A
	// provider may be disabled by configuration or a missing API key.
	IsEnabled() bool
}
