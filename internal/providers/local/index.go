// Package local provides an in-memory SearchProvider over the bundled
// paper catalog, using fuzzy matching so the service can answer queries
// even when every external provider is unreachable.
package local

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/providers"
)

const (
	// DefaultMaxResults is the default maximum results per search.
	DefaultMaxResults = 10

	// maxSuggestions caps typeahead results.
	maxSuggestions = 5

	// minSuggestLength is the minimum partial length that yields
	// suggestions.
	minSuggestLength = 2

	// sourceName is the human-readable name stamped on records.
	sourceName = "Local Index"
)

// Field weights for fuzzy matching. Title matches count the most.
const (
	titleWeight    = 3
	abstractWeight = 2
	authorWeight   = 1
)

// Config holds configuration for the local index.
type Config struct {
	// MaxResults is the maximum results per search request.
	MaxResults int

	// Enabled indicates whether this provider participates in searches.
	Enabled bool
}

// Index is an in-memory fuzzy index over a fixed set of papers.
type Index struct {
	config    Config
	papers    []*domain.Paper
	titles    []string
	abstracts []string
	authors   []string
}

var _ providers.SearchProvider = (*Index)(nil)

// New builds an index over the given papers.
func New(cfg Config, papers []*domain.Paper) *Index {
	if cfg.MaxResults == 0 {
		cfg.MaxResults = DefaultMaxResults
	}

	idx := &Index{
		config:    cfg,
		papers:    papers,
		titles:    make([]string, len(papers)),
		abstracts: make([]string, len(papers)),
		authors:   make([]string, len(papers)),
	}
	for i, p := range papers {
		idx.titles[i] = p.Title
		idx.abstracts[i] = p.Abstract
		idx.authors[i] = strings.Join(p.Authors, " ")
	}
	return idx
}

// Search fuzzy-matches the query against titles, abstracts and author
// names, combining the per-field scores with fixed weights.
func (idx *Index) Search(ctx context.Context, params providers.SearchParams) (*providers.SearchResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := make(map[int]int)
	accumulate(scores, fuzzy.Find(params.Query, idx.titles), titleWeight)
	accumulate(scores, fuzzy.Find(params.Query, idx.abstracts), abstractWeight)
	accumulate(scores, fuzzy.Find(params.Query, idx.authors), authorWeight)

	ranked := make([]int, 0, len(scores))
	for i := range scores {
		ranked = append(ranked, i)
	}
	sort.Slice(ranked, func(a, b int) bool {
		if scores[ranked[a]] != scores[ranked[b]] {
			return scores[ranked[a]] > scores[ranked[b]]
		}
		return ranked[a] < ranked[b]
	})

	maxResults := params.MaxResults
	if maxResults == 0 {
		maxResults = idx.config.MaxResults
	}

	papers := make([]*domain.Paper, 0, maxResults)
	for _, i := range ranked {
		p := idx.papers[i]
		if !matchesParams(p, params) {
			continue
		}
		// Catalog records keep their original source attribution so the
		// source allow-list still applies to them.
		clone := *p
		papers = append(papers, &clone)
		if len(papers) == maxResults {
			break
		}
	}

	return &providers.SearchResult{
		Papers:         papers,
		TotalResults:   len(scores),
		HasMore:        false,
		Source:         domain.SourceTypeLocal,
		SearchDuration: time.Since(start),
	}, nil
}

// GetByID retrieves one indexed paper by ID.
func (idx *Index) GetByID(ctx context.Context, id string) (*domain.Paper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range idx.papers {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.NewNotFoundError("paper", id)
}

// Suggest returns up to five paper titles fuzzy-matching the partial
// input. Partials shorter than two characters yield nothing.
func (idx *Index) Suggest(partial string) []string {
	if len(strings.TrimSpace(partial)) < minSuggestLength {
		return nil
	}

	matches := fuzzy.Find(partial, idx.titles)
	n := len(matches)
	if n > maxSuggestions {
		n = maxSuggestions
	}

	suggestions := make([]string, 0, n)
	for _, m := range matches[:n] {
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}

// minSimilarWordLength filters out stopword-sized title words when
// looking for related papers.
const minSimilarWordLength = 4

// Similar returns up to n catalog papers related to the given paper,
// ranked by fuzzy matches of the paper's title words against catalog
// titles. Records sharing the paper's dedup key are excluded so a paper
// is never similar to itself.
func (idx *Index) Similar(paper *domain.Paper, n int) []*domain.Paper {
	if paper == nil || n <= 0 {
		return nil
	}

	scores := make(map[int]int)
	for _, word := range strings.Fields(paper.Title) {
		if len(word) < minSimilarWordLength {
			continue
		}
		accumulate(scores, fuzzy.Find(word, idx.titles), titleWeight)
	}

	ranked := make([]int, 0, len(scores))
	for i := range scores {
		ranked = append(ranked, i)
	}
	sort.Slice(ranked, func(a, b int) bool {
		if scores[ranked[a]] != scores[ranked[b]] {
			return scores[ranked[a]] > scores[ranked[b]]
		}
		return ranked[a] < ranked[b]
	})

	key := paper.DedupKey()
	similar := make([]*domain.Paper, 0, n)
	for _, i := range ranked {
		p := idx.papers[i]
		if p.DedupKey() == key {
			continue
		}
		clone := *p
		similar = append(similar, &clone)
		if len(similar) == n {
			break
		}
	}
	return similar
}

// SourceType returns the source type identifier.
func (idx *Index) SourceType() domain.SourceType {
	return domain.SourceTypeLocal
}

// Name returns the human-readable name for this provider.
func (idx *Index) Name() string {
	return sourceName
}

// IsEnabled returns whether this provider is enabled.
func (idx *Index) IsEnabled() bool {
	return idx.config.Enabled
}

func accumulate(scores map[int]int, matches fuzzy.Matches, weight int) {
	for _, m := range matches {
		scores[m.Index] += m.Score * weight
	}
}

func matchesParams(p *domain.Paper, params providers.SearchParams) bool {
	if params.YearFrom > 0 && p.Year < params.YearFrom {
		return false
	}
	if params.YearTo > 0 && p.Year > params.YearTo {
		return false
	}
	if params.MinCitations > 0 && p.Citations < params.MinCitations {
		return false
	}
	return true
}
