package providers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/researchx/discovery-service/internal/domain"
)

// SourceResult holds the outcome of one provider's search.
type SourceResult struct {
	// Source identifies the provider.
	Source domain.SourceType

	// Result contains the search results when the search succeeded.
	Result *SearchResult

	// Error contains the failure when the search did not succeed. A result
	// carries either Result or Error, never both.
	Error error
}

// Registry manages providers and coordinates concurrent searches. It is the
// fan-out half of the aggregator: one goroutine per enabled provider, a
// wait-for-all join that tolerates individual failures, and a per-provider
// timeout so one hung source cannot stall the whole search.
type Registry struct {
	mu            sync.RWMutex
	providers     map[domain.SourceType]SearchProvider
	searchTimeout time.Duration
}

// NewRegistry creates an empty registry. searchTimeout bounds each
// provider's search; zero disables the per-provider bound and leaves only
// the transport timeout.
func NewRegistry(searchTimeout time.Duration) *Registry {
	return &Registry{
		providers:     make(map[domain.SourceType]SearchProvider),
		searchTimeout: searchTimeout,
	}
}

// Register adds a provider, replacing any existing provider of the same
// source type. Thread-safe.
func (r *Registry) Register(p SearchProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.SourceType()] = p
}

// Get returns the provider for a source type, or nil when not registered.
func (r *Registry) Get(sourceType domain.SourceType) SearchProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[sourceType]
}

// EnabledProviders returns a snapshot of the providers whose IsEnabled()
// reports true, ordered by source type so fan-out and merge order are
// deterministic across runs.
func (r *Registry) EnabledProviders() []SearchProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]SearchProvider, 0, len(r.providers))
	for _, p := range r.providers {
		if p.IsEnabled() {
			providers = append(providers, p)
		}
	}
	sortProviders(providers)
	return providers
}

// SearchAll searches every enabled provider concurrently and returns one
// SourceResult per provider, ordered by source type. Failures are returned
// alongside successes; the caller decides how to handle them. Total latency
// is bounded by the slowest provider (or the per-provider timeout), not the
// sum. Context cancellation interrupts all in-flight searches.
func (r *Registry) SearchAll(ctx context.Context, params SearchParams) []SourceResult {
	providers := r.EnabledProviders()
	if len(providers) == 0 {
		return nil
	}

	resultChan := make(chan SourceResult, len(providers))
	var wg sync.WaitGroup

	for _, p := range providers {
		wg.Add(1)
		go func(p SearchProvider) {
			defer wg.Done()

			searchCtx := ctx
			if r.searchTimeout > 0 {
				var cancel context.CancelFunc
				searchCtx, cancel = context.WithTimeout(ctx, r.searchTimeout)
				defer cancel()
			}

			result, err := p.Search(searchCtx, params)
			resultChan <- SourceResult{
				Source: p.SourceType(),
				Result: result,
				Error:  err,
			}
		}(p)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]SourceResult, 0, len(providers))
	for result := range resultChan {
		results = append(results, result)
	}

	// Channel delivery order depends on which provider finished first; fix
	// the order so downstream merging is reproducible.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Source < results[j].Source
	})
	return results
}

func sortProviders(providers []SearchProvider) {
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].SourceType() < providers[j].SourceType()
	})
}
