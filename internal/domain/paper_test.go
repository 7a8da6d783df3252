package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaper_DedupKey(t *testing.T) {
	t.Run("uses DOI when present", func(t *testing.T) {
		p := &Paper{Title: "Some Title", DOI: "10.1234/ABC.2023.001"}
		assert.Equal(t, "doi:10.1234/abc.2023.001", p.DedupKey())
	})

	t.Run("falls back to lowercased title", func(t *testing.T) {
		p := &Paper{Title: "Deep Learning Advances in NLP"}
		assert.Equal(t, "title:deep learning advances in nlp", p.DedupKey())
	})

	t.Run("same DOI matches regardless of title", func(t *testing.T) {
		a := &Paper{Title: "Title A", DOI: "10.1/x"}
		b := &Paper{Title: "Title B", DOI: "10.1/X"}
		assert.Equal(t, a.DedupKey(), b.DedupKey())
	})

	t.Run("blank DOI is ignored", func(t *testing.T) {
		p := &Paper{Title: "T", DOI: "   "}
		assert.Equal(t, "title:t", p.DedupKey())
	})
}

func TestPaper_Valid(t *testing.T) {
	assert.True(t, (&Paper{Title: "T", Source: "arXiv"}).Valid())
	assert.False(t, (&Paper{Source: "arXiv"}).Valid())
	assert.False(t, (&Paper{Title: "T"}).Valid())
	assert.False(t, (&Paper{Title: "  ", Source: "arXiv"}).Valid())
}

func TestPaper_Score(t *testing.T) {
	p := &Paper{Title: "T", Source: "s"}
	assert.Nil(t, p.RelevanceScore)
	assert.Zero(t, p.Score())

	p.SetScore(92.5)
	require.NotNil(t, p.RelevanceScore)
	assert.Equal(t, 92.5, p.Score())
}

func TestYearRange(t *testing.T) {
	r := YearRange{Start: 2022, End: 2023}
	assert.True(t, r.Valid())
	assert.True(t, r.Contains(2022))
	assert.True(t, r.Contains(2023))
	assert.False(t, r.Contains(2021))
	assert.False(t, r.Contains(2024))

	assert.False(t, YearRange{Start: 2024, End: 2020}.Valid())
	assert.False(t, YearRange{}.Valid())
}

func TestSearchOptions_Normalize(t *testing.T) {
	t.Run("zero value gets defaults", func(t *testing.T) {
		opts := (&SearchOptions{}).Normalize()
		assert.Equal(t, SortByRelevance, opts.SortBy)
		assert.Equal(t, DefaultLimit, opts.Limit)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		opts := (&SearchOptions{Limit: 10000}).Normalize()
		assert.Equal(t, MaxLimit, opts.Limit)
	})

	t.Run("explicit values survive", func(t *testing.T) {
		opts := (&SearchOptions{SortBy: SortByYear, Limit: 5}).Normalize()
		assert.Equal(t, SortByYear, opts.SortBy)
		assert.Equal(t, 5, opts.Limit)
	})
}

func TestSearchOptions_AllowsSource(t *testing.T) {
	opts := &SearchOptions{}
	assert.True(t, opts.AllowsSource("arXiv"))

	opts.Sources = []string{"arXiv", "CrossRef"}
	assert.True(t, opts.AllowsSource("CrossRef"))
	assert.False(t, opts.AllowsSource("CORE"))
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent(EventTypeSearchCompleted, SearchCompletedPayload{
		Query:       "deep learning",
		ResultCount: 12,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, EventTypeSearchCompleted, evt.EventType)
	assert.JSONEq(t, `{"query":"deep learning","result_count":12,"sources_asked":0,"fallback_used":false,"duration_ns":0}`, string(evt.Payload))
	assert.False(t, evt.CreatedAt.IsZero())
}
