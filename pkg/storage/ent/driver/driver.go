// Package entdriver
package entdriver

import (
	"context"
	"fmt"
	"time"

	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/storage/ent"
	"github.com/papercomputeco/ragsql/pkg/storage/ent/hook"
	"github.com/papercomputeco/ragsql/pkg/storage/ent/interaction"
)

// EntDriver provides storage operations using an ent client.
// It is database-agnostic and can be embedded by specific drivers.
type EntDriver struct {
	Client *ent.Client
}

var _ storage.Driver = (*EntDriver)(nil)

// New wraps the client. Interactions are append-only, so update mutations
// are rejected at the client.
func New(client *ent.Client) *EntDriver {
	client.Interaction.Use(hook.Reject(ent.OpUpdate | ent.OpUpdateOne))
	return &EntDriver{Client: client}
}

// Insert appends the interaction and returns the database assigned ID.
func (ed *EntDriver) Insert(ctx context.Context, i *storage.Interaction) (int64, error) {
	if err := i.Validate(); err != nil {
		return 0, err
	}

	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}

	create := ed.Client.Interaction.Create().
		SetQuestion(i.Question).
		SetQueryText(i.QueryText).
		SetExplanation(i.Explanation).
		SetNillableAnalysisCode(i.AnalysisCode).
		SetEmbedding(i.Embedding).
		SetCreatedBy(i.CreatedBy).
		SetCreatedAt(i.CreatedAt)

	if len(i.QuerySteps) > 0 {
		create.SetQuerySteps(i.QuerySteps)
	}

	row, err := create.Save(ctx)
	if err != nil {
		return 0, fmt.Errorf("inserting interaction: %w", err)
	}

	i.ID = int64(row.ID)
	return i.ID, nil
}

// GetByID returns the interaction with the given id, or nil if none exists.
func (ed *EntDriver) GetByID(ctx context.Context, id int64) (*storage.Interaction, error) {
	row, err := ed.Client.Interaction.Get(ctx, int(id))
	if ent.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting interaction %d: %w", id, err)
	}

	return toStorage(row), nil
}

// List returns every interaction ordered by id.
func (ed *EntDriver) List(ctx context.Context) ([]*storage.Interaction, error) {
	rows, err := ed.Client.Interaction.Query().
		Order(ent.Asc(interaction.FieldID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}

	out := make([]*storage.Interaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, toStorage(row))
	}
	return out, nil
}

// Count returns the number of stored interactions.
func (ed *EntDriver) Count(ctx context.Context) (int, error) {
	n, err := ed.Client.Interaction.Query().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting interactions: %w", err)
	}
	return n, nil
}

// Close closes the ent client and its database.
func (ed *EntDriver) Close() error {
	return ed.Client.Close()
}

func toStorage(row *ent.Interaction) *storage.Interaction {
	return &storage.Interaction{
		ID:           int64(row.ID),
		Question:     row.Question,
		QueryText:    row.QueryText,
		QuerySteps:   row.QuerySteps,
		Explanation:  row.Explanation,
		AnalysisCode: row.AnalysisCode,
		Embedding:    row.Embedding,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
	}
}
