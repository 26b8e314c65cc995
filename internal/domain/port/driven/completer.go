package driven

import (
	"context"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

// Completer defines the driven port for a remote text-completion service.
// The credential is supplied per call; implementations must not retain it
// or any other state between calls.
type Completer interface {
	// Complete issues exactly one completion request and returns the text of
	// the first returned choice. Failures should be reported as
	// *model.CompletionError so callers can classify them.
	Complete(ctx context.Context, credential string, req model.CompletionRequest) (string, error)

	// Provider identifies the remote service behind this Completer.
	Provider() model.Provider

	// DefaultModel is the model identifier used when the request leaves it empty.
	DefaultModel() string
}
