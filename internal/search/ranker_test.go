package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchx/discovery-service/internal/domain"
)

func scored(id string, score float64) *domain.Paper {
	p := &domain.Paper{ID: id, Title: id, Source: "s"}
	p.SetScore(score)
	return p
}

func TestRankByRelevanceDescending(t *testing.T) {
	papers := []*domain.Paper{
		scored("low", 10),
		scored("high", 90),
		scored("mid", 50),
	}

	ranked := Rank(papers, domain.SortByRelevance, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].ID)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, "low", ranked[2].ID)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score(), ranked[i].Score())
	}
}

func TestRankStableOnTies(t *testing.T) {
	papers := []*domain.Paper{
		scored("first", 50),
		scored("second", 50),
		scored("third", 50),
	}

	ranked := Rank(papers, domain.SortByRelevance, 0)
	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
	assert.Equal(t, "third", ranked[2].ID)
}

func TestRankByCitations(t *testing.T) {
	papers := []*domain.Paper{
		{ID: "a", Title: "t", Source: "s", Citations: 10},
		{ID: "b", Title: "t", Source: "s", Citations: 500},
		{ID: "c", Title: "t", Source: "s", Citations: 100},
	}

	ranked := Rank(papers, domain.SortByCitations, 0)
	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, "c", ranked[1].ID)
	assert.Equal(t, "a", ranked[2].ID)
}

func TestRankByYear(t *testing.T) {
	papers := []*domain.Paper{
		{ID: "a", Title: "t", Source: "s", Year: 2018},
		{ID: "b", Title: "t", Source: "s", Year: 2024},
		{ID: "c", Title: "t", Source: "s", Year: 2021},
	}

	ranked := Rank(papers, domain.SortByYear, 0)
	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, "c", ranked[1].ID)
	assert.Equal(t, "a", ranked[2].ID)
}

func TestRankTruncatesToLimit(t *testing.T) {
	papers := make([]*domain.Paper, 0, 10)
	for i := 0; i < 10; i++ {
		papers = append(papers, scored(string(rune('a'+i)), float64(i)))
	}

	ranked := Rank(papers, domain.SortByRelevance, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "j", ranked[0].ID)
}

func TestRankZeroLimitKeepsAll(t *testing.T) {
	papers := []*domain.Paper{scored("a", 1), scored("b", 2)}
	assert.Len(t, Rank(papers, domain.SortByRelevance, 0), 2)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, domain.SortByRelevance, 5))
}
