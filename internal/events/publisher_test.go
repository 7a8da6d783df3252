package events

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchx/discovery-service/internal/domain"
)

func TestPublisher_Disabled(t *testing.T) {
	p := NewPublisher(Config{}, zerolog.Nop(), nil)

	assert.False(t, p.Enabled())

	event, err := domain.NewEvent(domain.EventTypeSearchCompleted, domain.SearchCompletedPayload{Query: "q"})
	require.NoError(t, err)

	// All operations are no-ops without brokers.
	assert.NoError(t, p.Publish(context.Background(), event))
	p.PublishAsync(event)
	assert.NoError(t, p.Close())
}

func TestPublisher_Enabled(t *testing.T) {
	p := NewPublisher(Config{
		Brokers: []string{"localhost:9092"},
		Topic:   "test.events",
	}, zerolog.Nop(), nil)

	assert.True(t, p.Enabled())
	assert.NoError(t, p.Close())
}

func TestPublisher_DefaultTopic(t *testing.T) {
	p := NewPublisher(Config{Brokers: []string{"localhost:9092"}}, zerolog.Nop(), nil)
	t.Cleanup(func() { p.Close() })

	assert.Equal(t, DefaultTopic, p.writer.Topic)
}
