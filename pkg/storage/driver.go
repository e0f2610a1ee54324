// Package storage persists validated interactions: the question, the query
// that answered it, the explanation shown to the operator and the embedding
// the vector index was built from.
package storage

import (
	"context"
	"time"
)

// Interaction is a validated question/answer pair. It is immutable once
// written; ID is assigned by the store and never reused.
type Interaction struct {
	ID           int64     `json:"id"`
	Question     string    `json:"question"`
	QueryText    string    `json:"query_text"`
	QuerySteps   []string  `json:"query_steps,omitempty"`
	Explanation  string    `json:"explanation"`
	AnalysisCode *string   `json:"analysis_code,omitempty"`
	Embedding    []float32 `json:"embedding,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the fields every stored interaction must carry.
func (i *Interaction) Validate() error {
	switch {
	case i == nil:
		return ErrNilInteraction
	case i.Question == "":
		return InvalidInteractionError{Field: "question"}
	case i.QueryText == "":
		return InvalidInteractionError{Field: "query_text"}
	case len(i.Embedding) == 0:
		return InvalidInteractionError{Field: "embedding"}
	}
	return nil
}

// Queries returns the statements to replay in order: QuerySteps for a
// multi-step answer, otherwise QueryText alone.
func (i *Interaction) Queries() []string {
	if len(i.QuerySteps) > 0 {
		return i.QuerySteps
	}
	return []string{i.QueryText}
}

// Driver defines the interface for persisting and retrieving interactions.
type Driver interface {
	// Insert appends the interaction and returns its new ID. The caller's
	// struct is updated with the ID and, when unset, CreatedAt.
	Insert(ctx context.Context, interaction *Interaction) (int64, error)

	// GetByID returns the interaction, or nil and no error when the id is
	// unknown.
	GetByID(ctx context.Context, id int64) (*Interaction, error)

	// List returns every interaction in ascending ID order.
	List(ctx context.Context) ([]*Interaction, error)

	// Count returns the number of stored interactions.
	Count(ctx context.Context) (int, error)

	// Close closes the store and releases any resources.
	Close() error
}
