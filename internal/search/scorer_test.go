package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/researchx/discovery-service/internal/domain"
)

// fixedScorer pins the clock so recency contributions are deterministic.
func fixedScorer(year int) *WeightedScorer {
	s := NewWeightedScorer(DefaultWeights())
	s.now = func() time.Time {
		return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
	return s
}

func TestWeightedScorerTitleMatch(t *testing.T) {
	s := fixedScorer(2025)
	p := &domain.Paper{
		Title:  "Transformers for Vision",
		Source: "Semantic Scholar",
		Year:   2025,
	}

	// whole-word title hit: 40 + 20, plus full recency bonus 20
	got := s.Score(p, []string{"transformers"})
	assert.InDelta(t, 80.0, got, 0.001)
}

func TestWeightedScorerSubstringOnlyTitleMatch(t *testing.T) {
	s := fixedScorer(2025)
	p := &domain.Paper{
		Title:  "Pretraining at Scale",
		Source: "arXiv",
		Year:   2025,
	}

	// "train" occurs inside "pretraining" but not on word boundaries,
	// so only the substring bonus applies.
	got := s.Score(p, []string{"train"})
	assert.InDelta(t, 40.0+20.0, got, 0.001)
}

func TestWeightedScorerAbstractMatch(t *testing.T) {
	s := fixedScorer(2025)
	p := &domain.Paper{
		Title:    "An Unrelated Title",
		Abstract: "We study attention mechanisms in depth.",
		Source:   "CrossRef",
		Year:     2025,
	}

	got := s.Score(p, []string{"attention"})
	assert.InDelta(t, 20.0+10.0+20.0, got, 0.001)
}

func TestWeightedScorerCitationCap(t *testing.T) {
	s := fixedScorer(2025)

	modest := &domain.Paper{Title: "x", Source: "s", Year: 2025, Citations: 500}
	huge := &domain.Paper{Title: "x", Source: "s", Year: 2025, Citations: 500000}

	// 500/50 = 10; anything past 1500 citations pins at the 30 cap.
	assert.InDelta(t, 10.0+20.0, s.Score(modest, nil), 0.001)
	assert.InDelta(t, 30.0+20.0, s.Score(huge, nil), 0.001)
}

func TestWeightedScorerRecencyDecay(t *testing.T) {
	s := fixedScorer(2025)

	tests := []struct {
		year int
		want float64
	}{
		{2025, 20},
		{2024, 16},
		{2023, 12},
		{2020, 0},
		{2010, 0},
		{2026, 20}, // future year clamps to zero age
	}
	for _, tt := range tests {
		p := &domain.Paper{Title: "x", Source: "s", Year: tt.year}
		assert.InDelta(t, tt.want, s.Score(p, nil), 0.001, "year %d", tt.year)
	}
}

func TestWeightedScorerMultipleKeywordsAccumulate(t *testing.T) {
	s := fixedScorer(2025)
	p := &domain.Paper{
		Title:    "Graph Neural Networks",
		Abstract: "Graph neural networks learn over graph structure.",
		Source:   "arXiv",
		Year:     2025,
	}

	one := s.Score(p, []string{"graph"})
	two := s.Score(p, []string{"graph", "networks"})
	assert.Greater(t, two, one)
}

func TestWeightedScorerEmptyKeywords(t *testing.T) {
	s := fixedScorer(2025)
	p := &domain.Paper{Title: "Anything", Source: "s", Year: 2025, Citations: 100}

	// no keyword contribution, just citations (100/50 = 2) and recency
	assert.InDelta(t, 2.0+20.0, s.Score(p, nil), 0.001)
}

func TestWeightedScorerIsPure(t *testing.T) {
	s := fixedScorer(2025)
	p := &domain.Paper{
		Title:     "Stable Scoring",
		Abstract:  "Scoring twice changes nothing.",
		Source:    "s",
		Year:      2023,
		Citations: 42,
	}
	kw := []string{"scoring", "stable"}

	first := s.Score(p, kw)
	second := s.Score(p, kw)
	assert.Equal(t, first, second)
	assert.Nil(t, p.RelevanceScore, "scoring does not mutate the paper")
}

func TestWeightedScorerCaseInsensitive(t *testing.T) {
	s := fixedScorer(2025)
	p := &domain.Paper{Title: "REINFORCEMENT Learning", Source: "s", Year: 2025}

	assert.InDelta(t, 80.0, s.Score(p, []string{"reinforcement"}), 0.001)
}

func TestWholeWordMatch(t *testing.T) {
	tests := []struct {
		text string
		kw   string
		want bool
	}{
		{"deep learning models", "learning", true},
		{"pretraining at scale", "train", false},
		{"self-attention maps", "attention", true},
		{"end-to-end systems", "end", true},
		{"", "anything", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wholeWordMatch(tt.text, tt.kw), "%q in %q", tt.kw, tt.text)
	}
}
