package search

import (
	"sort"

	"github.com/researchx/discovery-service/internal/domain"
)

// Rank sorts papers descending by the chosen key and truncates to limit.
// The sort is stable, so ties keep their merge order, which the registry
// fixes by sorting provider results before handing them over.
func Rank(papers []*domain.Paper, sortBy string, limit int) []*domain.Paper {
	switch sortBy {
	case domain.SortByCitations:
		sort.SliceStable(papers, func(i, j int) bool {
			return papers[i].Citations > papers[j].Citations
		})
	case domain.SortByYear:
		sort.SliceStable(papers, func(i, j int) bool {
			return papers[i].Year > papers[j].Year
		})
	default:
		sort.SliceStable(papers, func(i, j int) bool {
			return papers[i].Score() > papers[j].Score()
		})
	}

	if limit > 0 && len(papers) > limit {
		papers = papers[:limit]
	}
	return papers
}
