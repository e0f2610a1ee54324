package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeInteractionConfirmed is emitted after a confirmed interaction
	// is stored and indexed.
	EventTypeInteractionConfirmed = "interaction.confirmed"
)

// InteractionConfirmedEvent is a transport-neutral event payload for a newly
// validated interaction. The embedding is not included.
type InteractionConfirmedEvent struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	Interaction   InteractionMeta `json:"interaction"`
	Index         IndexMeta       `json:"index"`
}

// InteractionMeta carries the stored interaction fields.
type InteractionMeta struct {
	ID           int64     `json:"id"`
	Question     string    `json:"question"`
	QueryText    string    `json:"query_text"`
	Explanation  string    `json:"explanation"`
	AnalysisCode *string   `json:"analysis_code,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// IndexMeta describes the vector index after the insert.
type IndexMeta struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
}

// NewInteractionConfirmedEvent stamps a new event with an id and emit time.
func NewInteractionConfirmedEvent(meta InteractionMeta, index IndexMeta) *InteractionConfirmedEvent {
	return &InteractionConfirmedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeInteractionConfirmed,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Interaction:   meta,
		Index:         index,
	}
}
