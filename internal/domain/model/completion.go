package model

// CompletionRequest is the provider-neutral shape of one chat completion:
// a system message, a user message and a sampling temperature.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
	Temperature  float64
}

// CompletionError is returned by completion adapters. Error returns the
// provider's own message so callers can show it verbatim.
type CompletionError struct {
	Kind       ErrorKind
	StatusCode int // 0 when no HTTP response was received.
	Message    string
	Err        error
}

func (e *CompletionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Enhancement is the outcome displayed to the user. A failed remote call
// still produces an Enhancement whose Text is "Error: <message>".
type Enhancement struct {
	Text      string
	Failed    bool
	ErrorKind ErrorKind
	RunID     string
}
