package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercomputeco/ragsql/pkg/eventstream"
	"github.com/papercomputeco/ragsql/pkg/llm"
	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/vector"
)

// Confirm stores the last successful planned answer as a validated
// interaction and indexes it. Confirmations are serialized.
//
// The interaction is written to the store before it is indexed. If indexing
// fails the stored row remains and the index can be rebuilt from the store.
func (o *Orchestrator) Confirm(ctx context.Context, createdBy string) (*storage.Interaction, error) {
	createdBy = strings.TrimSpace(createdBy)
	if createdBy == "" {
		return nil, ErrMissingCreatedBy
	}

	o.confirmMu.Lock()
	defer o.confirmMu.Unlock()

	last, gen, ok := o.lastWithGen()
	if !ok {
		return nil, ErrNothingToConfirm
	}

	explanation, err := o.complete(ctx, llm.RoleExplainer, ConfirmationPrompt(last.Question, last.QueryText))
	if err != nil {
		return nil, fmt.Errorf("explaining interaction: %w", err)
	}

	emb, err := o.embed(ctx, explanation)
	if err != nil {
		return nil, fmt.Errorf("embedding explanation: %w", err)
	}

	interaction := &storage.Interaction{
		Question:    last.Question,
		QueryText:   last.QueryText,
		QuerySteps:  last.QuerySteps,
		Explanation: explanation,
		Embedding:   emb,
		CreatedBy:   createdBy,
	}
	if last.AnalysisCode != "" {
		code := last.AnalysisCode
		interaction.AnalysisCode = &code
	}

	id, err := o.store.Insert(ctx, interaction)
	if err != nil {
		return nil, fmt.Errorf("storing interaction: %w", err)
	}

	o.vectorsMu.RLock()
	vectors := o.vectors
	o.vectorsMu.RUnlock()

	if err := vectors.Add(ctx, id, emb); err != nil {
		return nil, fmt.Errorf("indexing interaction %d: %w", id, err)
	}
	if err := vectors.Save(); err != nil {
		return nil, fmt.Errorf("saving vector index: %w", err)
	}

	o.clearLast(gen)
	o.logger.Info("interaction confirmed", "id", id, "created_by", createdBy)

	o.publish(ctx, interaction, vectors)
	return interaction, nil
}

// clearLast forgets the answer of generation gen unless a newer answer
// replaced it meanwhile.
func (o *Orchestrator) clearLast(gen uint64) {
	o.lastMu.Lock()
	defer o.lastMu.Unlock()
	if o.lastGen == gen {
		o.last = nil
	}
}

func (o *Orchestrator) publish(ctx context.Context, i *storage.Interaction, vectors vector.Driver) {
	if o.publisher == nil {
		return
	}

	count, err := vectors.Count(ctx)
	if err != nil {
		o.logger.Warn("could not count vectors for event", ragsqllog.Err(err))
	}

	event := eventstream.NewInteractionConfirmedEvent(
		eventstream.InteractionMeta{
			ID:           i.ID,
			Question:     i.Question,
			QueryText:    i.QueryText,
			Explanation:  i.Explanation,
			AnalysisCode: i.AnalysisCode,
			CreatedBy:    i.CreatedBy,
			CreatedAt:    i.CreatedAt,
		},
		eventstream.IndexMeta{Provider: o.vectorProvider, Count: count},
	)
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn("could not publish confirmation event", "id", i.ID, ragsqllog.Err(err))
	}
}
