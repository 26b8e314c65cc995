package driven

import (
	"context"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

// RunStore defines the driven port for optional enhancement run history.
// Only metadata is stored; credentials and prompt text never reach it.
type RunStore interface {
	// Record appends a run.
	Record(ctx context.Context, run model.Run) error

	// ListRecent returns up to limit runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Run, error)
}
