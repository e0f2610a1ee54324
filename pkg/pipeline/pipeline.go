// Package pipeline answers natural-language questions over the data store.
// A question is first matched against validated interactions in the vector
// index; on a miss the planner model writes a plan that is parsed and
// executed, with one correction attempt when execution fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/embeddings"
	"github.com/papercomputeco/ragsql/pkg/eventstream"
	"github.com/papercomputeco/ragsql/pkg/llm"
	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/plan"
	"github.com/papercomputeco/ragsql/pkg/sandbox"
	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/vector"
)

const (
	// DefaultThreshold is the similarity a retrieved interaction must exceed
	// to be reused.
	DefaultThreshold float32 = 0.70

	// DefaultTopK is the number of neighbors requested from the index.
	DefaultTopK = 3
)

// Config holds the orchestrator's collaborators and parameters.
type Config struct {
	Embedder  embeddings.Embedder
	Vectors   vector.Driver
	Store     storage.Driver
	Completer llm.Completer
	Executor  datastore.Executor

	// Sandbox runs analysis code. Without one, analysis blocks are reported
	// as unavailable.
	Sandbox sandbox.Runner

	// Publisher receives interaction.confirmed events. Optional.
	Publisher eventstream.Publisher

	// VectorProvider names the vector backend in published events.
	VectorProvider string

	Progress Progress
	Logger   *slog.Logger

	// Threshold is the similarity a retrieved interaction must exceed to be
	// reused. Zero is honored: any positive similarity is reused.
	Threshold float32
	TopK      int
	Schema    string

	// EmbeddingTimeout and CompletionTimeout bound each gateway call when
	// non-zero.
	EmbeddingTimeout  time.Duration
	CompletionTimeout time.Duration
}

// Orchestrator runs the question state machine and the confirmation path.
type Orchestrator struct {
	embedder  embeddings.Embedder
	store     storage.Driver
	completer llm.Completer
	executor  datastore.Executor
	sandbox   sandbox.Runner
	publisher eventstream.Publisher

	vectorProvider string
	progress       Progress
	logger         *slog.Logger

	threshold         float32
	topK              int
	schema            string
	embeddingTimeout  time.Duration
	completionTimeout time.Duration

	vectorsMu sync.RWMutex
	vectors   vector.Driver

	lastMu  sync.Mutex
	last    *LastInteraction
	lastGen uint64

	confirmMu sync.Mutex
}

// New validates cfg and builds an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	switch {
	case cfg.Embedder == nil:
		return nil, errors.New("embedder is required")
	case cfg.Vectors == nil:
		return nil, errors.New("vector driver is required")
	case cfg.Store == nil:
		return nil, errors.New("interaction store is required")
	case cfg.Completer == nil:
		return nil, errors.New("completer is required")
	case cfg.Executor == nil:
		return nil, errors.New("data store executor is required")
	}

	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Schema == "" {
		cfg.Schema = datastore.DefaultSchema
	}
	if cfg.Logger == nil {
		cfg.Logger = ragsqllog.Nop()
	}

	return &Orchestrator{
		embedder:          cfg.Embedder,
		vectors:           cfg.Vectors,
		store:             cfg.Store,
		completer:         cfg.Completer,
		executor:          cfg.Executor,
		sandbox:           cfg.Sandbox,
		publisher:         cfg.Publisher,
		vectorProvider:    cfg.VectorProvider,
		progress:          cfg.Progress,
		logger:            cfg.Logger,
		threshold:         cfg.Threshold,
		topK:              cfg.TopK,
		schema:            cfg.Schema,
		embeddingTimeout:  cfg.EmbeddingTimeout,
		completionTimeout: cfg.CompletionTimeout,
	}, nil
}

// Ask answers question. On failure the returned error is a *Error and no
// state is changed.
func (o *Orchestrator) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	o.emit(Event{State: StateStart})
	o.logger.Debug("answering question", "question", question)

	answer, err := o.ask(ctx, question)
	if err != nil {
		o.emit(Event{State: StateFailure})
		o.logger.Warn("question failed", "question", question, ragsqllog.Err(err))
		return nil, err
	}

	o.emit(Event{State: StateSuccess})
	return answer, nil
}

func (o *Orchestrator) ask(ctx context.Context, question string) (*Answer, error) {
	o.emit(Event{State: StateRagLookup})

	answer, err := o.lookup(ctx, question)
	if err != nil || answer != nil {
		return answer, err
	}

	o.emit(Event{State: StatePlanRequest})
	prompt := BuildPlanPrompt(o.schema, question)

	completion, err := o.complete(ctx, llm.RolePlanner, prompt)
	if err != nil {
		return nil, &Error{Stage: StatePlanRequest, Err: err}
	}

	o.emit(Event{State: StatePlanExecute})
	answer, p, err := o.execute(ctx, question, completion)
	if err == nil {
		o.remember(question, p)
		return answer, nil
	}

	var execErr *datastore.ExecutionError
	if !errors.As(err, &execErr) || ctx.Err() != nil {
		return nil, &Error{Stage: StatePlanExecute, Err: err}
	}

	o.emit(Event{State: StateCorrectionRetry})
	o.logger.Info("execution failed, requesting correction",
		"class", execErr.Class,
		ragsqllog.Err(execErr),
	)

	corrected, cerr := o.complete(ctx, llm.RoleCorrector,
		CorrectionMessage(question, prompt, completion, execErr.Message))
	if cerr != nil {
		return nil, &Error{Stage: StateCorrectionRetry, Retried: true, Err: cerr}
	}

	o.emit(Event{State: StatePlanExecute})
	answer, p, err = o.execute(ctx, question, corrected)
	if err != nil {
		return nil, &Error{Stage: StatePlanExecute, Retried: true, Err: err}
	}

	answer.Corrected = true
	o.remember(question, p)
	return answer, nil
}

// lookup returns a RAG answer, or nil when nothing similar enough is stored.
func (o *Orchestrator) lookup(ctx context.Context, question string) (*Answer, error) {
	emb, err := o.embed(ctx, question)
	if err != nil {
		return nil, &Error{Stage: StateRagLookup, Err: err}
	}

	o.vectorsMu.RLock()
	results, err := o.vectors.Search(ctx, emb, o.topK)
	o.vectorsMu.RUnlock()
	if err != nil {
		return nil, &Error{Stage: StateRagLookup, Err: fmt.Errorf("searching vector index: %w", err)}
	}
	if len(results) == 0 || results[0].Similarity <= o.threshold {
		if len(results) > 0 {
			o.logger.Debug("closest interaction below threshold",
				"id", results[0].ID,
				"similarity", results[0].Similarity,
				"threshold", o.threshold,
			)
		}
		return nil, nil
	}

	top := results[0]
	interaction, err := o.store.GetByID(ctx, top.ID)
	if err != nil {
		return nil, &Error{Stage: StateRagLookup, Err: fmt.Errorf("loading interaction %d: %w", top.ID, err)}
	}
	if interaction == nil {
		o.logger.Warn("indexed interaction missing from store", "id", top.ID)
		return nil, nil
	}

	o.emit(Event{State: StateRagHit})
	o.logger.Info("reusing validated interaction", "id", top.ID, "similarity", top.Similarity)

	queries := interaction.Queries()
	steps := make([]StepResult, 0, len(queries))
	for i, q := range queries {
		o.emit(Event{State: StateRagHit, Step: i + 1, Steps: len(queries)})
		table, err := o.executor.Execute(ctx, q)
		if err != nil {
			return nil, &Error{Stage: StateRagHit, Err: fmt.Errorf("replaying step %d of interaction %d: %w", i+1, interaction.ID, err)}
		}
		steps = append(steps, StepResult{Number: i + 1, Table: table})
	}

	answer := &Answer{
		Question:             question,
		Source:               SourceRAG,
		Steps:                steps,
		Explanation:          interaction.Explanation,
		MatchedInteractionID: interaction.ID,
		Similarity:           top.Similarity,
	}
	for _, step := range steps {
		answer.Messages = append(answer.Messages, stepMessages(step, len(steps) > 1)...)
	}
	if interaction.Explanation != "" {
		answer.Messages = append(answer.Messages, Message{Kind: KindText, Text: interaction.Explanation})
	}
	return answer, nil
}

// execute parses completion and runs the plan. Parse failures are returned
// as-is and are never retried.
func (o *Orchestrator) execute(ctx context.Context, question, completion string) (*Answer, *plan.Plan, error) {
	p, err := plan.Parse(completion)
	if err != nil {
		return nil, nil, err
	}

	var answer *Answer
	switch p.Shape {
	case plan.ShapeSingle:
		answer, err = o.executeSingle(ctx, question, p)
	default:
		answer, err = o.executeMulti(ctx, question, p)
	}
	if err != nil {
		return nil, nil, err
	}
	return answer, p, nil
}

func (o *Orchestrator) executeSingle(ctx context.Context, question string, p *plan.Plan) (*Answer, error) {
	step := p.Steps[0]
	o.emit(Event{State: StatePlanExecute, Step: 1, Steps: 1})

	result, err := o.runStep(ctx, step)
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Question: question,
		Source:   SourceSingle,
		Steps:    []StepResult{result},
		Messages: stepMessages(result, false),
	}

	if p.ExplainRequested {
		explanation, err := o.complete(ctx, llm.RoleExplainer,
			ExplanationPrompt(question, step.QueryText, result.Table))
		if err != nil {
			return nil, err
		}
		answer.Explanation = explanation
		answer.Messages = append(answer.Messages, Message{Kind: KindText, Text: explanation})
	}

	return answer, nil
}

func (o *Orchestrator) executeMulti(ctx context.Context, question string, p *plan.Plan) (*Answer, error) {
	total := len(p.Steps)
	results := make([]StepResult, 0, total)

	for i, step := range p.Steps {
		o.emit(Event{State: StatePlanExecute, Step: i + 1, Steps: total})

		result, err := o.runStep(ctx, step)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	o.emit(Event{State: StateSynthesis})
	synthesis, err := o.complete(ctx, llm.RoleAnalyst, SynthesisPrompt(question, results))
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Question:  question,
		Source:    SourceMulti,
		Steps:     results,
		Synthesis: synthesis,
	}
	for _, r := range results {
		answer.Messages = append(answer.Messages, stepMessages(r, true)...)
	}
	answer.Messages = append(answer.Messages, Message{Kind: KindText, Text: synthesis})
	return answer, nil
}

// runStep executes the step's query and, when present, its analysis code.
// Sandbox failures degrade the step instead of failing it.
func (o *Orchestrator) runStep(ctx context.Context, step plan.Step) (StepResult, error) {
	table, err := o.executor.Execute(ctx, step.QueryText)
	if err != nil {
		return StepResult{}, err
	}

	result := StepResult{Number: step.Number, Table: table}
	if !step.HasAnalysis() {
		return result, nil
	}

	if o.sandbox == nil {
		result.AnalysisError = "no python sandbox configured"
		return result, nil
	}

	o.emit(Event{State: StateExport, Step: step.Number, Rows: table.Len()})
	out, err := o.sandbox.Run(ctx, step.AnalysisCode, table)
	if err != nil {
		if ctx.Err() != nil {
			return StepResult{}, ctx.Err()
		}
		o.logger.Warn("analysis failed", "step", step.Number, ragsqllog.Err(err))
		result.AnalysisError = err.Error()
		return result, nil
	}

	result.Analysis = out
	return result, nil
}

func (o *Orchestrator) embed(ctx context.Context, text string) ([]float32, error) {
	if o.embeddingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.embeddingTimeout)
		defer cancel()
	}
	return o.embedder.Embed(ctx, text)
}

func (o *Orchestrator) complete(ctx context.Context, role llm.Role, prompt string) (string, error) {
	if o.completionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.completionTimeout)
		defer cancel()
	}
	return o.completer.Complete(ctx, role, prompt)
}

func (o *Orchestrator) emit(e Event) {
	if o.progress != nil {
		o.progress(e)
	}
}

func (o *Orchestrator) remember(question string, p *plan.Plan) {
	last := &LastInteraction{
		Question:     question,
		QueryText:    p.QueryText(),
		AnalysisCode: p.AnalysisCode(),
	}
	if p.Shape == plan.ShapeMulti {
		last.QuerySteps = p.Queries()
	}

	o.lastMu.Lock()
	defer o.lastMu.Unlock()
	o.last = last
	o.lastGen++
}

// LastInteraction returns the most recent successful planned answer.
func (o *Orchestrator) LastInteraction() (LastInteraction, bool) {
	last, _, ok := o.lastWithGen()
	return last, ok
}

// lastWithGen also returns the generation of the answer, so Confirm can tell
// whether a newer answer replaced it meanwhile.
func (o *Orchestrator) lastWithGen() (LastInteraction, uint64, bool) {
	o.lastMu.Lock()
	defer o.lastMu.Unlock()
	if o.last == nil {
		return LastInteraction{}, o.lastGen, false
	}
	return *o.last, o.lastGen, true
}

// Vectors returns the vector driver currently in use.
func (o *Orchestrator) Vectors() vector.Driver {
	o.vectorsMu.RLock()
	defer o.vectorsMu.RUnlock()
	return o.vectors
}
