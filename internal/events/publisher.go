// Package events publishes discovery events to Kafka. Publishing is
// fire-and-forget: failures are logged and counted, never surfaced to the
// search path.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/observability"
)

const (
	// DefaultTopic is the default Kafka topic for discovery events.
	DefaultTopic = "discovery.events"

	// publishTimeout bounds each async publish so a dead broker cannot
	// accumulate goroutines.
	publishTimeout = 10 * time.Second
)

// Config holds configuration for the event publisher.
type Config struct {
	// Brokers is the list of Kafka broker addresses. Empty disables
	// publishing entirely.
	Brokers []string

	// Topic is the Kafka topic for discovery events.
	Topic string

	// BatchTimeout is how long the writer may buffer messages before
	// flushing.
	BatchTimeout time.Duration
}

// Publisher writes discovery events to Kafka. A Publisher with no brokers
// configured is a no-op, so callers never need to branch on whether
// eventing is enabled.
type Publisher struct {
	writer  *kafka.Writer
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a new event publisher. With no brokers configured
// the returned publisher discards all events.
func NewPublisher(cfg Config, logger zerolog.Logger, metrics *observability.Metrics) *Publisher {
	logger = logger.With().Str("component", "event_publisher").Logger()

	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("no kafka brokers configured, event publishing disabled")
		return &Publisher{logger: logger, metrics: metrics}
	}

	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = time.Second
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		writer:  writer,
		logger:  logger,
		metrics: metrics,
	}
}

// Enabled reports whether events actually reach a broker.
func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// Publish writes one event, keyed by event type so consumers see per-type
// ordering.
func (p *Publisher) Publish(ctx context.Context, event *domain.Event) error {
	if p.writer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", event.EventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.EventType),
		Value: value,
		Time:  event.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing event %s: %w", event.EventType, err)
	}
	return nil
}

// PublishAsync publishes an event from a background goroutine. Failures
// are logged and counted; the caller is never blocked or failed.
func (p *Publisher) PublishAsync(event *domain.Event) {
	if p.writer == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.logger.Error().Err(err).
				Str("event_type", event.EventType).
				Str("event_id", event.EventID).
				Msg("failed to publish event")
			if p.metrics != nil {
				p.metrics.RecordEventFailed(event.EventType)
			}
			return
		}

		p.logger.Debug().
			Str("event_type", event.EventType).
			Str("event_id", event.EventID).
			Msg("event published")
		if p.metrics != nil {
			p.metrics.RecordEventPublished(event.EventType)
		}
	}()
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
