// Package llm defines the completion gateway used by the pipeline: a single
// Complete call parameterized by the role the model plays.
package llm

import (
	"context"
	"fmt"
)

// Role selects the system framing of a completion.
type Role string

const (
	// RolePlanner turns a question into a query plan.
	RolePlanner Role = "planner"

	// RoleCorrector repairs a plan whose execution failed.
	RoleCorrector Role = "corrector"

	// RoleAnalyst synthesizes the results of a multi-step plan.
	RoleAnalyst Role = "analyst"

	// RoleExplainer writes short explanations of queries and results.
	RoleExplainer Role = "explainer"
)

var systemPrompts = map[Role]string{
	RolePlanner: "You are an assistant for analysing company data in the road transport sector. " +
		"Follow the response rules given in the user message exactly and write nothing outside the requested blocks.",
	RoleCorrector: "You repair answers whose query failed to execute. " +
		"You receive the question, the original prompt, the previous answer and the error. " +
		"Reply with a corrected answer in exactly the same block format, with no other text.",
	RoleAnalyst: "You are a data analyst. You receive the results of several query steps. " +
		"Write a short synthesis that answers the operator's question.",
	RoleExplainer: "You explain database queries and their results to non-technical operators. " +
		"Be brief and concrete.",
}

// Roles returns every known role.
func Roles() []Role {
	return []Role{RolePlanner, RoleCorrector, RoleAnalyst, RoleExplainer}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := systemPrompts[r]
	return ok
}

// System returns the system framing for the role.
func (r Role) System() string {
	return systemPrompts[r]
}

// Completer is a language model completion gateway.
type Completer interface {
	// Complete sends prompt under the given role and returns the model's text.
	Complete(ctx context.Context, role Role, prompt string) (string, error)
}

// CheckRole returns ErrUnknownRole wrapped with the role name when r is not
// a known role.
func CheckRole(r Role) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, r)
	}
	return nil
}
