package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/events"
	"github.com/researchx/discovery-service/internal/index"
	"github.com/researchx/discovery-service/internal/observability"
	"github.com/researchx/discovery-service/internal/providers"
	"github.com/researchx/discovery-service/internal/query"
	"github.com/researchx/discovery-service/internal/samples"
)

// Suggester provides typeahead title suggestions. The local fuzzy index
// implements it.
type Suggester interface {
	Suggest(partial string) []string
}

// Recommender surfaces catalog papers related to a given paper. The local
// fuzzy index implements it.
type Recommender interface {
	Similar(paper *domain.Paper, n int) []*domain.Paper
}

// maxSimilarPapers caps the related papers attached to paper details.
const maxSimilarPapers = 5

// Config holds the collaborators for a search Service. Indexer, Publisher,
// and Metrics may be nil; Policy defaults to the weighted scorer.
type Config struct {
	Registry    *providers.Registry
	Suggester   Suggester
	Recommender Recommender
	Policy      ScoringPolicy
	Indexer     *index.Indexer
	Publisher   *events.Publisher
	Logger      zerolog.Logger
	Metrics     *observability.Metrics
}

// Result is the outcome of one aggregated search.
type Result struct {
	// Papers is the ranked, truncated result set.
	Papers []*domain.Paper

	// Query is the synonym-expanded query that was fanned out.
	Query string

	// Topics are the research-area slugs the query touches.
	Topics []string

	// SourcesAsked is the number of providers queried.
	SourcesAsked int

	// FallbackUsed reports whether the static sample set was served.
	FallbackUsed bool

	// Duration is the end-to-end aggregation time.
	Duration time.Duration
}

// Service runs the aggregation pipeline. It retains no per-request state;
// one instance serves all requests concurrently.
type Service struct {
	registry    *providers.Registry
	suggester   Suggester
	recommender Recommender
	policy      ScoringPolicy
	indexer     *index.Indexer
	publisher   *events.Publisher
	logger      zerolog.Logger
	metrics     *observability.Metrics
	fallback    func() []*domain.Paper
}

// NewService creates a search service from its collaborators.
func NewService(cfg Config) *Service {
	policy := cfg.Policy
	if policy == nil {
		policy = NewWeightedScorer(DefaultWeights())
	}
	return &Service{
		registry:    cfg.Registry,
		suggester:   cfg.Suggester,
		recommender: cfg.Recommender,
		policy:      policy,
		indexer:     cfg.Indexer,
		publisher:   cfg.Publisher,
		logger:      cfg.Logger.With().Str("component", "search_service").Logger(),
		metrics:     cfg.Metrics,
		fallback:    samples.Fallback,
	}
}

// Search runs the full pipeline: expand the query, fan out to every
// enabled provider, merge, deduplicate, filter, score, rank, truncate.
// Provider failures contribute nothing; when the merged filtered set is
// empty the bundled sample set is served instead, so the only error a
// caller can see is context cancellation.
func (s *Service) Search(ctx context.Context, rawQuery string, opts *domain.SearchOptions) (*Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &domain.SearchOptions{}
	}
	opts.Normalize()

	if s.metrics != nil {
		s.metrics.RecordSearchStarted()
	}

	expanded := query.Expand(rawQuery)
	keywords := query.Keywords(expanded)
	topics := query.RelevantTopics(keywords)

	params := providers.SearchParams{
		Query:        expanded,
		MinCitations: opts.MinCitations,
	}
	if opts.YearRange != nil {
		params.YearFrom = opts.YearRange.Start
		params.YearTo = opts.YearRange.End
	}

	results := s.registry.SearchAll(ctx, params)

	merged := make([]*domain.Paper, 0, 64)
	for _, r := range results {
		if r.Error != nil {
			s.logger.Warn().Err(r.Error).
				Str("source", string(r.Source)).
				Str("query", expanded).
				Msg("provider search failed")
			if s.metrics != nil {
				s.metrics.RecordProviderFailure(string(r.Source))
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordProviderSearch(string(r.Source), len(r.Result.Papers), r.Result.SearchDuration.Seconds())
			s.metrics.RecordPapersDiscovered(string(r.Source), len(r.Result.Papers))
		}
		merged = append(merged, r.Result.Papers...)
	}

	unique, duplicates := Dedupe(merged)
	if s.metrics != nil && duplicates > 0 {
		s.metrics.RecordPaperDuplicates(duplicates)
	}

	s.submitForIndexing(unique)

	filtered := Filter(unique, opts)
	for _, p := range filtered {
		p.SetScore(s.policy.Score(p, keywords))
	}
	ranked := Rank(filtered, opts.SortBy, opts.Limit)

	fallbackUsed := false
	if len(ranked) == 0 {
		fallbackUsed = true
		fb := s.fallback()
		for _, p := range fb {
			p.SetScore(s.policy.Score(p, keywords))
		}
		ranked = Rank(fb, opts.SortBy, opts.Limit)
		if s.metrics != nil {
			s.metrics.RecordSearchFallback()
		}
		s.logger.Info().Str("query", rawQuery).Msg("serving fallback sample set")
	}

	duration := time.Since(start)
	s.publishEvents(rawQuery, unique, len(ranked), len(results), fallbackUsed, duration)

	if s.metrics != nil {
		s.metrics.RecordSearchCompleted(len(ranked), duration.Seconds())
	}
	s.logger.Info().
		Str("query", rawQuery).
		Str("expanded_query", expanded).
		Int("sources", len(results)).
		Int("candidates", len(merged)).
		Int("results", len(ranked)).
		Bool("fallback", fallbackUsed).
		Dur("duration", duration).
		Msg("search completed")

	return &Result{
		Papers:       ranked,
		Query:        expanded,
		Topics:       topics,
		SourcesAsked: len(results),
		FallbackUsed: fallbackUsed,
		Duration:     duration,
	}, nil
}

// Sources returns the names of the currently enabled providers, ordered by
// source type.
func (s *Service) Sources() []string {
	enabled := s.registry.EnabledProviders()
	names := make([]string, len(enabled))
	for i, p := range enabled {
		names[i] = p.Name()
	}
	return names
}

// Suggest returns typeahead title suggestions from the local index.
func (s *Service) Suggest(partial string) []string {
	if s.metrics != nil {
		s.metrics.RecordSuggestRequest()
	}
	if s.suggester == nil {
		return nil
	}
	return s.suggester.Suggest(partial)
}

// GetPaper retrieves a single paper from one provider.
func (s *Service) GetPaper(ctx context.Context, source domain.SourceType, id string) (*domain.Paper, error) {
	provider := s.registry.Get(source)
	if provider == nil {
		return nil, domain.NewNotFoundError("source", string(source))
	}
	return provider.GetByID(ctx, id)
}

// PaperDetails bundles one paper with related catalog papers.
type PaperDetails struct {
	Paper   *domain.Paper
	Similar []*domain.Paper
}

// GetPaperDetails retrieves a paper and attaches up to five related papers
// from the local catalog.
func (s *Service) GetPaperDetails(ctx context.Context, source domain.SourceType, id string) (*PaperDetails, error) {
	paper, err := s.GetPaper(ctx, source, id)
	if err != nil {
		return nil, err
	}

	details := &PaperDetails{Paper: paper}
	if s.recommender != nil {
		details.Similar = s.recommender.Similar(paper, maxSimilarPapers)
	}
	return details, nil
}

// submitForIndexing hands copies of the discovered papers to the
// write-back indexer. Copies keep the worker's serialization off the
// records the pipeline is still scoring.
func (s *Service) submitForIndexing(papers []*domain.Paper) {
	if s.indexer == nil || !s.indexer.Enabled() || len(papers) == 0 {
		return
	}
	batch := make([]*domain.Paper, len(papers))
	for i, p := range papers {
		clone := *p
		batch[i] = &clone
	}
	s.indexer.Submit(batch)
}

// publishEvents emits the fire-and-forget discovery events.
func (s *Service) publishEvents(rawQuery string, unique []*domain.Paper, resultCount, sourcesAsked int, fallbackUsed bool, duration time.Duration) {
	if s.publisher == nil || !s.publisher.Enabled() {
		return
	}

	if len(unique) > 0 {
		if ev, err := domain.NewEvent(domain.EventTypePapersDiscovered, domain.PapersDiscoveredPayload{
			Query:  rawQuery,
			Papers: domain.SummarizePapers(unique),
		}); err == nil {
			s.publisher.PublishAsync(ev)
		}
	}

	if ev, err := domain.NewEvent(domain.EventTypeSearchCompleted, domain.SearchCompletedPayload{
		Query:        rawQuery,
		ResultCount:  resultCount,
		SourcesAsked: sourcesAsked,
		FallbackUsed: fallbackUsed,
		Duration:     duration,
	}); err == nil {
		s.publisher.PublishAsync(ev)
	}
}
