// Package index maintains the hosted Meilisearch index of discovered
// papers. Writes go through a bounded background queue so the search path
// never waits on, or fails because of, the index.
package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/observability"
)

const (
	// DefaultIndexUID is the default Meilisearch index holding papers.
	DefaultIndexUID = "papers"

	// DefaultQueueSize is the default capacity of the submission queue,
	// measured in batches.
	DefaultQueueSize = 256

	// writeTimeout bounds each index write batch.
	writeTimeout = 30 * time.Second

	// primaryKey is the document primary key attribute.
	primaryKey = "id"
)

// Config holds configuration for the indexer.
type Config struct {
	// Host is the Meilisearch server URL. Empty disables indexing.
	Host string

	// APIKey is the Meilisearch API key, if the server requires one.
	APIKey string

	// IndexUID is the index to write to.
	IndexUID string

	// QueueSize is the capacity of the submission queue in batches.
	QueueSize int
}

func (c *Config) applyDefaults() {
	if c.IndexUID == "" {
		c.IndexUID = DefaultIndexUID
	}
	if c.QueueSize == 0 {
		c.QueueSize = DefaultQueueSize
	}
}

// Indexer accepts paper batches and writes them to Meilisearch from a
// single background worker. An Indexer with no host configured accepts and
// discards all submissions.
type Indexer struct {
	config  Config
	client  meilisearch.ServiceManager
	index   meilisearch.IndexManager
	queue   chan []*domain.Paper
	done    chan struct{}
	drained chan struct{}
	closing sync.Once
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// New creates an indexer and starts its background worker. With no host
// configured the returned indexer is a no-op.
func New(cfg Config, logger zerolog.Logger, metrics *observability.Metrics) *Indexer {
	cfg.applyDefaults()
	logger = logger.With().Str("component", "indexer").Logger()

	if cfg.Host == "" {
		logger.Info().Msg("no meilisearch host configured, indexing disabled")
		return &Indexer{config: cfg, logger: logger, metrics: metrics}
	}

	var opts []meilisearch.Option
	if cfg.APIKey != "" {
		opts = append(opts, meilisearch.WithAPIKey(cfg.APIKey))
	}
	client := meilisearch.New(cfg.Host, opts...)

	return newWithClient(cfg, client, logger, metrics)
}

// NewWithClient creates an indexer over an existing Meilisearch client.
// This is useful for tests and for sharing a client with the search
// provider.
func NewWithClient(cfg Config, client meilisearch.ServiceManager, logger zerolog.Logger, metrics *observability.Metrics) *Indexer {
	cfg.applyDefaults()
	logger = logger.With().Str("component", "indexer").Logger()
	return newWithClient(cfg, client, logger, metrics)
}

func newWithClient(cfg Config, client meilisearch.ServiceManager, logger zerolog.Logger, metrics *observability.Metrics) *Indexer {
	idx := &Indexer{
		config:  cfg,
		client:  client,
		index:   client.Index(cfg.IndexUID),
		queue:   make(chan []*domain.Paper, cfg.QueueSize),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
		logger:  logger,
		metrics: metrics,
	}
	go idx.run()
	return idx
}

// Enabled reports whether submissions actually reach an index.
func (i *Indexer) Enabled() bool {
	return i.index != nil
}

// EnsureIndex creates the papers index if needed and applies its search
// settings: which attributes are searchable, filterable and sortable, and
// the typo tolerance thresholds.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	if i.index == nil {
		return nil
	}

	if _, err := i.client.GetIndexWithContext(ctx, i.config.IndexUID); err != nil {
		if _, err := i.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
			Uid:        i.config.IndexUID,
			PrimaryKey: primaryKey,
		}); err != nil {
			return fmt.Errorf("creating index %q: %w", i.config.IndexUID, err)
		}
	}

	distinct := primaryKey
	settings := &meilisearch.Settings{
		SearchableAttributes: []string{"title", "abstract", "authors"},
		FilterableAttributes: []string{"year", "source", "citations"},
		SortableAttributes:   []string{"year", "citations"},
		DistinctAttribute:    &distinct,
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  4,
				TwoTypos: 8,
			},
		},
	}
	if _, err := i.index.UpdateSettingsWithContext(ctx, settings); err != nil {
		return fmt.Errorf("updating settings for index %q: %w", i.config.IndexUID, err)
	}
	return nil
}

// Submit queues a batch of papers for indexing. Never blocks: when the
// queue is full or the indexer is closed the batch is dropped and counted.
func (i *Indexer) Submit(papers []*domain.Paper) {
	if i.index == nil || len(papers) == 0 {
		return
	}

	select {
	case <-i.done:
		i.drop(papers)
		return
	default:
	}

	select {
	case i.queue <- papers:
		if i.metrics != nil {
			i.metrics.RecordIndexSubmitted(len(papers))
		}
	default:
		i.drop(papers)
	}
}

func (i *Indexer) drop(papers []*domain.Paper) {
	i.logger.Warn().Int("count", len(papers)).Msg("index queue full, dropping batch")
	if i.metrics != nil {
		i.metrics.RecordIndexDropped(len(papers))
	}
}

// run drains the queue until Close, then flushes whatever was already
// queued before exiting.
func (i *Indexer) run() {
	if i.index == nil {
		return
	}
	for {
		select {
		case batch := <-i.queue:
			i.write(batch)
		case <-i.done:
			for {
				select {
				case batch := <-i.queue:
					i.write(batch)
				default:
					close(i.drained)
					return
				}
			}
		}
	}
}

func (i *Indexer) write(batch []*domain.Paper) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := i.index.AddDocumentsWithContext(ctx, batch, primaryKey); err != nil {
		i.logger.Error().Err(err).Int("count", len(batch)).Msg("failed to index batch")
		if i.metrics != nil {
			i.metrics.RecordIndexFailed()
		}
		return
	}

	i.logger.Debug().Int("count", len(batch)).Msg("batch indexed")
}

// Close stops accepting submissions and waits for the worker to flush
// what was already queued.
func (i *Indexer) Close() {
	if i.index == nil {
		return
	}
	i.closing.Do(func() {
		close(i.done)
	})
	<-i.drained
}
