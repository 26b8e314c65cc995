package model

// PromptInput is the transient record collected for a single enhancement.
// It lives only for the duration of one user action and is never persisted.
type PromptInput struct {
	Credential Secret
	Role       string
	Context    string
	Task       string
}

// Field names reported by Missing.
const (
	FieldCredential = "api_key"
	FieldRole       = "role"
	FieldContext    = "context"
	FieldTask       = "task"
)

// Missing returns the names of empty fields in form order. Whitespace counts
// as content; only the empty string is missing.
func (in PromptInput) Missing() []string {
	var missing []string
	if in.Credential == "" {
		missing = append(missing, FieldCredential)
	}
	if in.Role == "" {
		missing = append(missing, FieldRole)
	}
	if in.Context == "" {
		missing = append(missing, FieldContext)
	}
	if in.Task == "" {
		missing = append(missing, FieldTask)
	}
	return missing
}

// Complete reports whether all four fields are non-empty.
func (in PromptInput) Complete() bool {
	return len(in.Missing()) == 0
}
