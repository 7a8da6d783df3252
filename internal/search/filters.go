package search

import "github.com/researchx/discovery-service/internal/domain"

// Dedupe collapses papers sharing a deduplication key (doi, else
// lower-cased title), keeping the first-seen record. Returns the surviving
// papers in input order and the number of duplicates removed.
func Dedupe(papers []*domain.Paper) ([]*domain.Paper, int) {
	seen := make(map[string]struct{}, len(papers))
	unique := make([]*domain.Paper, 0, len(papers))
	duplicates := 0

	for _, p := range papers {
		key := p.DedupKey()
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
	}
	return unique, duplicates
}

// Filter applies the year-range, source allow-list, and minimum-citations
// constraints, preserving input order.
func Filter(papers []*domain.Paper, opts *domain.SearchOptions) []*domain.Paper {
	kept := make([]*domain.Paper, 0, len(papers))
	for _, p := range papers {
		if opts.YearRange != nil && !opts.YearRange.Contains(p.Year) {
			continue
		}
		if !opts.AllowsSource(p.Source) {
			continue
		}
		if opts.MinCitations > 0 && p.Citations < opts.MinCitations {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
