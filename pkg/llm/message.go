package llm

// Message is a single chat message sent to a completion provider.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Messages builds the two-message conversation used for every completion:
// the role's system framing followed by the prompt.
func Messages(role Role, prompt string) []Message {
	return []Message{
		{Role: "system", Content: role.System()},
		{Role: "user", Content: prompt},
	}
}
