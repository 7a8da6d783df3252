package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event type constants for published discovery events.
const (
	EventTypePapersDiscovered = "discovery.papers_discovered"
	EventTypeSearchCompleted  = "discovery.search_completed"
)

// Event is the envelope published to the event stream. The payload is
// JSON-serialized at construction time so publishing never blocks on
// marshaling inside the hot path.
type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEvent creates a new event with the given type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SearchCompletedPayload describes one finished aggregation pass.
type SearchCompletedPayload struct {
	Query        string        `json:"query"`
	ResultCount  int           `json:"result_count"`
	SourcesAsked int           `json:"sources_asked"`
	FallbackUsed bool          `json:"fallback_used"`
	Duration     time.Duration `json:"duration_ns"`
}

// PapersDiscoveredPayload lists papers newly seen by one search, in the
// summary form consumers need for indexing and notification.
type PapersDiscoveredPayload struct {
	Query  string         `json:"query"`
	Papers []PaperSummary `json:"papers"`
}

// PaperSummary is the trimmed paper shape carried in events.
type PaperSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
	DOI    string `json:"doi,omitempty"`
	URL    string `json:"url,omitempty"`
}

// SummarizePapers converts full records to event summaries.
func SummarizePapers(papers []*Paper) []PaperSummary {
	summaries := make([]PaperSummary, 0, len(papers))
	for _, p := range papers {
		summaries = append(summaries, PaperSummary{
			ID:     p.ID,
			Title:  p.Title,
			Source: p.Source,
			DOI:    p.DOI,
			URL:    p.URL,
		})
	}
	return summaries
}
