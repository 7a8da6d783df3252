// Package domain defines the canonical paper record and the shared types
// that flow through the discovery pipeline. A Paper is constructed by a
// provider adapter from a raw API response, lives for the duration of one
// search request, and is discarded after the ranked result set is returned.
package domain

import (
	"strings"
)

// SourceType identifies the provider a paper was discovered through.
type SourceType string

// Known source types.
const (
	SourceTypeSemanticScholar SourceType = "semantic_scholar"
	SourceTypeCrossRef        SourceType = "crossref"
	SourceTypeCORE            SourceType = "core"
	SourceTypeArXiv           SourceType = "arxiv"
	SourceTypeMeilisearch     SourceType = "meilisearch"
	SourceTypeLocal           SourceType = "local"
)

// Paper is the canonical normalized representation of one discovered
// publication. Title and Source are always present; a record missing either
// is a fetch or parse error at the adapter, not a valid Paper.
type Paper struct {
	// ID is the source-specific identifier. It is unique within one source
	// but not globally; cross-source identity uses DedupKey.
	ID string `json:"id"`

	// Title is the paper title (required).
	Title string `json:"title"`

	// Authors holds author display names in publication order.
	Authors []string `json:"authors"`

	// Year is the publication year. Adapters default it to the current year
	// when the source omits it.
	Year int `json:"year"`

	// Citations is the citation count, 0 when unknown.
	Citations int `json:"citations"`

	// URL links to the source record or PDF.
	URL string `json:"url"`

	// Source is the human-readable name of the origin provider (required).
	Source string `json:"source"`

	// Abstract is the abstract text, empty when the source provides none.
	Abstract string `json:"abstract,omitempty"`

	// DOI is the Digital Object Identifier, empty when unknown.
	DOI string `json:"doi,omitempty"`

	// RelevanceScore is populated by the scorer and is nil until scoring
	// runs. Once set it is the relevance sort key. The scale is additive and
	// unbounded above; it is not normalized.
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

// DedupKey returns the cross-source deduplication key: the lowercased DOI
// when present, otherwise the lowercased title. Two records sharing this key
// are the same paper and only the first-seen one is retained.
func (p *Paper) DedupKey() string {
	if doi := strings.TrimSpace(p.DOI); doi != "" {
		return "doi:" + strings.ToLower(doi)
	}
	return "title:" + strings.ToLower(strings.TrimSpace(p.Title))
}

// Valid reports whether the record satisfies the model invariants.
func (p *Paper) Valid() bool {
	return strings.TrimSpace(p.Title) != "" && strings.TrimSpace(p.Source) != ""
}

// SetScore sets the relevance score on the record.
func (p *Paper) SetScore(score float64) {
	p.RelevanceScore = &score
}

// Score returns the relevance score, or 0 if the record has not been scored.
func (p *Paper) Score() float64 {
	if p.RelevanceScore == nil {
		return 0
	}
	return *p.RelevanceScore
}
