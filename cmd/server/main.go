// Package main provides the entry point for the paper discovery service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/researchx/discovery-service/internal/config"
	"github.com/researchx/discovery-service/internal/events"
	"github.com/researchx/discovery-service/internal/index"
	"github.com/researchx/discovery-service/internal/observability"
	"github.com/researchx/discovery-service/internal/providers"
	"github.com/researchx/discovery-service/internal/providers/arxiv"
	"github.com/researchx/discovery-service/internal/providers/core"
	"github.com/researchx/discovery-service/internal/providers/crossref"
	"github.com/researchx/discovery-service/internal/providers/local"
	"github.com/researchx/discovery-service/internal/providers/meili"
	"github.com/researchx/discovery-service/internal/providers/semanticscholar"
	"github.com/researchx/discovery-service/internal/samples"
	"github.com/researchx/discovery-service/internal/search"
	httpserver "github.com/researchx/discovery-service/internal/server/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("discovery-service starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	// Register paper source providers.
	registry := providers.NewRegistry(cfg.Search.ProviderTimeout)

	registry.Register(semanticscholar.New(semanticscholar.Config{
		BaseURL:    cfg.Providers.SemanticScholar.BaseURL,
		APIKey:     cfg.Providers.SemanticScholar.APIKey,
		Timeout:    cfg.Providers.SemanticScholar.Timeout,
		RateLimit:  cfg.Providers.SemanticScholar.RateLimit,
		MaxResults: cfg.Providers.SemanticScholar.MaxResults,
		Enabled:    cfg.Providers.SemanticScholar.Enabled,
	}, nil))

	registry.Register(crossref.New(crossref.Config{
		BaseURL:    cfg.Providers.CrossRef.BaseURL,
		Mailto:     cfg.Providers.CrossRefMailto,
		Timeout:    cfg.Providers.CrossRef.Timeout,
		RateLimit:  cfg.Providers.CrossRef.RateLimit,
		MaxResults: cfg.Providers.CrossRef.MaxResults,
		Enabled:    cfg.Providers.CrossRef.Enabled,
	}, nil))

	registry.Register(core.New(core.Config{
		BaseURL:    cfg.Providers.CORE.BaseURL,
		APIKey:     cfg.Providers.CORE.APIKey,
		Timeout:    cfg.Providers.CORE.Timeout,
		RateLimit:  cfg.Providers.CORE.RateLimit,
		MaxResults: cfg.Providers.CORE.MaxResults,
		Enabled:    cfg.Providers.CORE.Enabled,
	}, nil))

	registry.Register(arxiv.New(arxiv.Config{
		BaseURL:    cfg.Providers.ArXiv.BaseURL,
		Timeout:    cfg.Providers.ArXiv.Timeout,
		RateLimit:  cfg.Providers.ArXiv.RateLimit,
		MaxResults: cfg.Providers.ArXiv.MaxResults,
		Enabled:    cfg.Providers.ArXiv.Enabled,
	}, nil))

	localIndex := local.New(local.Config{
		Enabled: cfg.Providers.Local.Enabled,
	}, samples.All())
	registry.Register(localIndex)

	if cfg.Meilisearch.Enabled {
		registry.Register(meili.New(meili.Config{
			Host:     cfg.Meilisearch.Host,
			APIKey:   cfg.Meilisearch.APIKey,
			IndexUID: cfg.Meilisearch.IndexUID,
			Enabled:  true,
		}))
	}

	logger.Info().
		Int("providers", len(registry.EnabledProviders())).
		Msg("provider registry assembled")

	// Set up the Meilisearch write-back indexer.
	indexerCfg := index.Config{
		IndexUID:  cfg.Meilisearch.IndexUID,
		QueueSize: cfg.Meilisearch.QueueSize,
	}
	if cfg.Meilisearch.Enabled {
		indexerCfg.Host = cfg.Meilisearch.Host
		indexerCfg.APIKey = cfg.Meilisearch.APIKey
	}
	indexer := index.New(indexerCfg, logger, metrics)
	if indexer.Enabled() {
		ensureCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := indexer.EnsureIndex(ensureCtx)
		cancel()
		if err != nil {
			// The indexer is a write-behind cache; keep serving without it.
			logger.Warn().Err(err).Msg("meilisearch index setup failed, continuing")
		}
	}
	defer indexer.Close()

	// Set up the Kafka event publisher.
	publisherCfg := events.Config{
		Topic:        cfg.Kafka.Topic,
		BatchTimeout: cfg.Kafka.BatchTimeout,
	}
	if cfg.Kafka.Enabled {
		publisherCfg.Brokers = cfg.Kafka.Brokers
	}
	publisher := events.NewPublisher(publisherCfg, logger, metrics)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Assemble the search service.
	searchService := search.NewService(search.Config{
		Registry:    registry,
		Suggester:   localIndex,
		Recommender: localIndex,
		Indexer:     indexer,
		Publisher:   publisher,
		Logger:      logger,
		Metrics:     metrics,
	})

	httpCfg := httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	httpSrv := httpserver.NewServer(httpCfg, searchService, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info().
		Str("http_address", httpCfg.Address).
		Bool("meilisearch", cfg.Meilisearch.Enabled).
		Bool("kafka", cfg.Kafka.Enabled).
		Msg("discovery-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down discovery-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("discovery-service shutdown complete")
	return nil
}
