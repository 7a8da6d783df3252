// Package search implements the aggregation pipeline: fan the expanded
// query out to every enabled provider, merge and deduplicate the results,
// filter, score, rank, and fall back to the bundled sample set when
// nothing survives.
package search

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/researchx/discovery-service/internal/domain"
)

// ScoringPolicy assigns a relevance score to a paper given the scoring
// keywords extracted from the expanded query. Implementations must be pure:
// the same (paper, keywords) pair always yields the same score.
type ScoringPolicy interface {
	Score(paper *domain.Paper, keywords []string) float64
}

// Weights parameterizes the heuristic scoring formula. All contributions
// are additive.
type Weights struct {
	// TitleSubstring is awarded per keyword found as a substring of the
	// lower-cased title.
	TitleSubstring float64

	// TitleWholeWord is awarded additionally when the title match falls on
	// word boundaries.
	TitleWholeWord float64

	// AbstractSubstring is awarded per keyword found as a substring of the
	// lower-cased abstract.
	AbstractSubstring float64

	// AbstractWholeWord is awarded additionally when the abstract match
	// falls on word boundaries.
	AbstractWholeWord float64

	// CitationDivisor scales the citation count before capping.
	CitationDivisor float64

	// CitationCap bounds the citation contribution.
	CitationCap float64

	// RecencyBase is the contribution of a paper published this year.
	RecencyBase float64

	// RecencyDecay is subtracted per year of age.
	RecencyDecay float64
}

// DefaultWeights returns the standard scoring coefficients: 40/20 title,
// 20/10 abstract, citations capped at 30 after dividing by 50, and a
// recency bonus of 20 decaying by 4 per year.
func DefaultWeights() Weights {
	return Weights{
		TitleSubstring:    40,
		TitleWholeWord:    20,
		AbstractSubstring: 20,
		AbstractWholeWord: 10,
		CitationDivisor:   50,
		CitationCap:       30,
		RecencyBase:       20,
		RecencyDecay:      4,
	}
}

// WeightedScorer is the default ScoringPolicy: keyword matching against
// title and abstract plus capped citation and linear recency bonuses.
type WeightedScorer struct {
	weights Weights
	now     func() time.Time
}

var _ ScoringPolicy = (*WeightedScorer)(nil)

// NewWeightedScorer creates a scorer with the given weights.
func NewWeightedScorer(weights Weights) *WeightedScorer {
	return &WeightedScorer{
		weights: weights,
		now:     time.Now,
	}
}

// Score computes the relevance score. A missing abstract contributes zero;
// keywords are expected lower-cased.
func (s *WeightedScorer) Score(paper *domain.Paper, keywords []string) float64 {
	title := strings.ToLower(paper.Title)
	abstract := strings.ToLower(paper.Abstract)

	var score float64
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			score += s.weights.TitleSubstring
			if wholeWordMatch(title, kw) {
				score += s.weights.TitleWholeWord
			}
		}
		if abstract != "" && strings.Contains(abstract, kw) {
			score += s.weights.AbstractSubstring
			if wholeWordMatch(abstract, kw) {
				score += s.weights.AbstractWholeWord
			}
		}
	}

	score += math.Min(float64(paper.Citations)/s.weights.CitationDivisor, s.weights.CitationCap)

	age := s.now().Year() - paper.Year
	if age < 0 {
		age = 0
	}
	score += math.Max(0, s.weights.RecencyBase-s.weights.RecencyDecay*float64(age))

	return score
}

// wholeWordMatch reports whether kw occurs in text on word boundaries.
func wholeWordMatch(text, kw string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
