package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
	"github.com/ericfisherdev/promptenhancer/internal/domain/port/driven"
)

// MissingFieldsMessage is shown when a request is blocked by empty fields.
const MissingFieldsMessage = "Please fill in all fields"

// ErrMissingFields is the sentinel wrapped by every ValidationError.
var ErrMissingFields = errors.New("missing required fields")

// ValidationError reports which fields were empty. No completion request is
// sent when Enhance returns it.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return MissingFieldsMessage
}

func (e *ValidationError) Unwrap() error {
	return ErrMissingFields
}

// EnhanceService runs one prompt enhancement per call: validate, synthesize
// the instruction, issue a single completion request. It keeps no state
// between calls apart from its injected dependencies.
type EnhanceService struct {
	completer driven.Completer
	runStore  driven.RunStore
	model     string
	logger    *slog.Logger
}

// NewEnhanceService creates an EnhanceService. runStore may be nil to disable
// run history. An empty modelID falls back to the completer's default.
func NewEnhanceService(completer driven.Completer, runStore driven.RunStore, modelID string, logger *slog.Logger) *EnhanceService {
	if modelID == "" {
		modelID = completer.DefaultModel()
	}
	return &EnhanceService{
		completer: completer,
		runStore:  runStore,
		model:     modelID,
		logger:    logger,
	}
}

// Model returns the model identifier sent with every request.
func (s *EnhanceService) Model() string {
	return s.model
}

// Provider returns the remote service behind this EnhanceService.
func (s *EnhanceService) Provider() model.Provider {
	return s.completer.Provider()
}

// Enhance validates in and, when all fields are present, asks the remote
// service for an enhanced prompt. Remote failures are not returned as errors:
// they yield an Enhancement with Failed set and Text "Error: <message>".
// The only error returned is *ValidationError.
func (s *EnhanceService) Enhance(ctx context.Context, in model.PromptInput) (model.Enhancement, error) {
	if missing := in.Missing(); len(missing) > 0 {
		s.logger.Debug("enhance blocked by missing fields", "missing", missing)
		return model.Enhancement{}, &ValidationError{Missing: missing}
	}

	req := model.CompletionRequest{
		Model:        s.model,
		SystemPrompt: SystemPrompt,
		Prompt:       BuildInstruction(in.Role, in.Context, in.Task),
		Temperature:  Temperature,
	}

	start := time.Now()
	text, err := s.completer.Complete(ctx, in.Credential.Reveal(), req)
	elapsed := time.Since(start)

	var result model.Enhancement
	if err != nil {
		kind := ClassifyError(err)
		result = model.Enhancement{
			Text:      ErrorPrefix + err.Error(),
			Failed:    true,
			ErrorKind: kind,
		}
		s.logger.Warn("completion failed",
			"provider", s.completer.Provider(),
			"model", s.model,
			"kind", kind,
			"duration", elapsed.Round(time.Millisecond),
			"error", scrubSecret(err.Error(), in.Credential.Reveal()),
		)
	} else {
		result = model.Enhancement{Text: text}
		s.logger.Info("completion succeeded",
			"provider", s.completer.Provider(),
			"model", s.model,
			"duration", elapsed.Round(time.Millisecond),
			"chars", len(text),
		)
	}

	result.RunID = s.record(ctx, in, result, elapsed)
	return result, nil
}

// ListRuns returns recent run history, or an empty slice when history is disabled.
func (s *EnhanceService) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if s.runStore == nil {
		return []model.Run{}, nil
	}
	return s.runStore.ListRecent(ctx, limit)
}

// record stores run metadata and returns its ID. Storage failures are logged
// and never affect the result shown to the user.
func (s *EnhanceService) record(ctx context.Context, in model.PromptInput, result model.Enhancement, elapsed time.Duration) string {
	if s.runStore == nil {
		return ""
	}

	run := model.Run{
		ID:           uuid.NewString(),
		Provider:     s.completer.Provider(),
		Model:        s.model,
		RoleChars:    len([]rune(in.Role)),
		ContextChars: len([]rune(in.Context)),
		TaskChars:    len([]rune(in.Task)),
		Failed:       result.Failed,
		ErrorKind:    result.ErrorKind,
		Duration:     elapsed,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.runStore.Record(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error("failed to record run", "run_id", run.ID, "error", err)
		return ""
	}
	return run.ID
}

// ClassifyError maps a completer error to an ErrorKind.
func ClassifyError(err error) model.ErrorKind {
	var ce *model.CompletionError
	switch {
	case err == nil:
		return model.ErrorKindNone
	case errors.As(err, &ce) && ce.Kind != model.ErrorKindNone:
		return ce.Kind
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return model.ErrorKindNetwork
	default:
		return model.ErrorKindUnknown
	}
}

// scrubSecret removes the credential from text destined for logs. Very short
// values are left alone to avoid mangling unrelated text.
func scrubSecret(text, secret string) string {
	if len(secret) < 4 {
		return text
	}
	return strings.ReplaceAll(text, secret, "[REDACTED]")
}
