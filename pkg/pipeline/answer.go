package pipeline

import (
	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/sandbox"
)

// Source is where an answer came from.
type Source string

const (
	SourceRAG    Source = "rag"
	SourceSingle Source = "single"
	SourceMulti  Source = "multi"
)

// MessageKind distinguishes the final messages shown to the operator.
type MessageKind string

const (
	KindTable    MessageKind = "table"
	KindText     MessageKind = "text"
	KindAnalysis MessageKind = "analysis"
)

// Message is one rendered output of an answer. Text is markdown.
type Message struct {
	Kind       MessageKind `json:"kind"`
	Text       string      `json:"text"`
	StepNumber int         `json:"step_number,omitempty"`
}

// StepResult is the outcome of one executed plan step.
type StepResult struct {
	Number        int                     `json:"number"`
	Table         *datastore.Table        `json:"table"`
	Analysis      *sandbox.AnalysisOutput `json:"analysis,omitempty"`
	AnalysisError string                  `json:"analysis_error,omitempty"`
}

// Answer is the output of Ask.
type Answer struct {
	Question string       `json:"question"`
	Source   Source       `json:"source"`
	Steps    []StepResult `json:"steps"`

	// Explanation is the stored explanation on a RAG hit, or the explainer's
	// text when a single-step plan asked for one.
	Explanation string `json:"explanation,omitempty"`

	// Synthesis is the analyst's narrative for a multi-step plan.
	Synthesis string `json:"synthesis,omitempty"`

	MatchedInteractionID int64   `json:"matched_interaction_id,omitempty"`
	Similarity           float32 `json:"similarity,omitempty"`

	// Corrected is set when the answer came from the corrector's completion.
	Corrected bool `json:"corrected"`

	Messages []Message `json:"messages"`
}

// LastInteraction is the most recent successful planned answer, the
// candidate for confirmation.
type LastInteraction struct {
	Question  string `json:"question"`
	QueryText string `json:"query_text"`

	// QuerySteps holds each step's query of a multi-step answer.
	QuerySteps   []string `json:"query_steps,omitempty"`
	AnalysisCode string   `json:"analysis_code,omitempty"`
}
