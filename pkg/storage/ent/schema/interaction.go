package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Interaction holds the schema definition for the Interaction entity.
// Each row is a question confirmed by an operator together with the query
// that answered it. Rows are written once and never updated.
type Interaction struct {
	ent.Schema
}

// Fields of the Interaction.
func (Interaction) Fields() []ent.Field {
	return []ent.Field{
		field.Text("question").
			NotEmpty().
			Immutable(),

		// query_text is the answer as one readable script
		field.Text("query_text").
			NotEmpty().
			Immutable(),

		// query_steps holds each step's query of a multi-step answer in
		// execution order; null for single-step answers
		field.JSON("query_steps", []string{}).
			Optional().
			Immutable(),

		field.Text("explanation").
			Default("").
			Immutable(),

		field.Text("analysis_code").
			Optional().
			Nillable().
			Immutable(),

		// embedding is the explanation's vector the index was built from
		field.JSON("embedding", []float32{}).
			Immutable(),

		field.String("created_by").
			Default("").
			Immutable(),

		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Interaction.
func (Interaction) Edges() []ent.Edge {
	return nil
}

// Indexes of the Interaction.
func (Interaction) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_by"),
	}
}
