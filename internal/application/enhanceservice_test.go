package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

// --- Mock implementations for EnhanceService tests ---

type completerCall struct {
	credential string
	req        model.CompletionRequest
}

type mockCompleter struct {
	mu    sync.Mutex
	text  string
	err   error
	reply func(req model.CompletionRequest) (string, error)
	calls []completerCall
}

func (m *mockCompleter) Complete(_ context.Context, credential string, req model.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, completerCall{credential: credential, req: req})
	if m.reply != nil {
		return m.reply(req)
	}
	return m.text, m.err
}

func (m *mockCompleter) Provider() model.Provider { return model.ProviderOpenAI }
func (m *mockCompleter) DefaultModel() string     { return "gpt-4" }

type mockRunStore struct {
	runs      []model.Run
	recordErr error
}

func (m *mockRunStore) Record(_ context.Context, run model.Run) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunStore) ListRecent(_ context.Context, limit int) ([]model.Run, error) {
	if limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validInput() model.PromptInput {
	return model.PromptInput{
		Credential: "sk-test-credential",
		Role:       "You are an experienced business consultant",
		Context:    "I'm preparing a business plan for a startup",
		Task:       "Review my business plan and provide feedback",
	}
}

// --- Tests ---

func TestEnhance_MissingFieldsBlockRemoteCall(t *testing.T) {
	// Every subset of empty fields, including all four, must block the call.
	for mask := 1; mask < 16; mask++ {
		in := validInput()
		if mask&1 != 0 {
			in.Credential = ""
		}
		if mask&2 != 0 {
			in.Role = ""
		}
		if mask&4 != 0 {
			in.Context = ""
		}
		if mask&8 != 0 {
			in.Task = ""
		}

		t.Run(fmt.Sprintf("mask_%04b", mask), func(t *testing.T) {
			completer := &mockCompleter{text: "ENHANCED"}
			svc := NewEnhanceService(completer, nil, "", discardLogger())

			result, err := svc.Enhance(context.Background(), in)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingFields)
			assert.Equal(t, "Please fill in all fields", err.Error())

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, in.Missing(), verr.Missing)

			assert.Empty(t, completer.calls)
			assert.Equal(t, model.Enhancement{}, result)
		})
	}
}

func TestEnhance_SuccessReturnsChoiceTextExactly(t *testing.T) {
	completer := &mockCompleter{text: "ENHANCED"}
	svc := NewEnhanceService(completer, nil, "", discardLogger())

	result, err := svc.Enhance(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "ENHANCED", result.Text)
	assert.False(t, result.Failed)
	assert.Equal(t, model.ErrorKindNone, result.ErrorKind)
}

func TestEnhance_FailureIsFailSoft(t *testing.T) {
	completer := &mockCompleter{err: errors.New("rate limited")}
	svc := NewEnhanceService(completer, nil, "", discardLogger())

	result, err := svc.Enhance(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "Error: rate limited", result.Text)
	assert.True(t, result.Failed)
	assert.Equal(t, model.ErrorKindUnknown, result.ErrorKind)
	assert.Len(t, completer.calls, 1, "no retries")
}

func TestEnhance_TypedFailureKeepsKind(t *testing.T) {
	completer := &mockCompleter{err: &model.CompletionError{
		Kind:       model.ErrorKindRateLimit,
		StatusCode: 429,
		Message:    "rate limited",
	}}
	svc := NewEnhanceService(completer, nil, "", discardLogger())

	result, err := svc.Enhance(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "Error: rate limited", result.Text)
	assert.Equal(t, model.ErrorKindRateLimit, result.ErrorKind)
}

func TestEnhance_SendsFixedRequestShape(t *testing.T) {
	completer := &mockCompleter{text: "ok"}
	svc := NewEnhanceService(completer, nil, "", discardLogger())
	in := validInput()

	_, err := svc.Enhance(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, completer.calls, 1)
	call := completer.calls[0]
	assert.Equal(t, "sk-test-credential", call.credential)
	assert.Equal(t, "gpt-4", call.req.Model)
	assert.Equal(t, "You are an expert prompt engineer.", call.req.SystemPrompt)
	assert.InDelta(t, 0.7, call.req.Temperature, 1e-9)
	assert.Equal(t, BuildInstruction(in.Role, in.Context, in.Task), call.req.Prompt)
}

func TestEnhance_ModelOverride(t *testing.T) {
	completer := &mockCompleter{text: "ok"}
	svc := NewEnhanceService(completer, nil, "gpt-4o", discardLogger())

	_, err := svc.Enhance(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", svc.Model())
	assert.Equal(t, "gpt-4o", completer.calls[0].req.Model)
}

func TestEnhance_RepeatedCallsAreIndependent(t *testing.T) {
	completer := &mockCompleter{reply: func(req model.CompletionRequest) (string, error) {
		return "echo:" + req.Prompt, nil
	}}
	svc := NewEnhanceService(completer, nil, "", discardLogger())

	first := validInput()
	second := model.PromptInput{Credential: "sk-other", Role: "poet", Context: "autumn", Task: "write a haiku"}

	r1, err := svc.Enhance(context.Background(), first)
	require.NoError(t, err)
	r2, err := svc.Enhance(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, "echo:"+BuildInstruction(first.Role, first.Context, first.Task), r1.Text)
	assert.Equal(t, "echo:"+BuildInstruction(second.Role, second.Context, second.Task), r2.Text)
	assert.NotContains(t, r2.Text, first.Role)

	require.Len(t, completer.calls, 2)
	assert.Equal(t, "sk-other", completer.calls[1].credential)
}

func TestEnhance_RepeatedIdenticalCallsAreNotCached(t *testing.T) {
	n := 0
	completer := &mockCompleter{reply: func(model.CompletionRequest) (string, error) {
		n++
		return fmt.Sprintf("answer %d", n), nil
	}}
	svc := NewEnhanceService(completer, nil, "", discardLogger())

	r1, err := svc.Enhance(context.Background(), validInput())
	require.NoError(t, err)
	r2, err := svc.Enhance(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "answer 1", r1.Text)
	assert.Equal(t, "answer 2", r2.Text)
}

func TestEnhance_RecordsRunMetadataOnly(t *testing.T) {
	completer := &mockCompleter{err: &model.CompletionError{Kind: model.ErrorKindAuth, Message: "bad key"}}
	store := &mockRunStore{}
	svc := NewEnhanceService(completer, store, "", discardLogger())
	in := validInput()

	result, err := svc.Enhance(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, result.RunID, run.ID)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.ProviderOpenAI, run.Provider)
	assert.Equal(t, "gpt-4", run.Model)
	assert.Equal(t, len(in.Role), run.RoleChars)
	assert.Equal(t, len(in.Context), run.ContextChars)
	assert.Equal(t, len(in.Task), run.TaskChars)
	assert.True(t, run.Failed)
	assert.Equal(t, model.ErrorKindAuth, run.ErrorKind)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestEnhance_RecordFailureDoesNotAffectResult(t *testing.T) {
	completer := &mockCompleter{text: "ENHANCED"}
	store := &mockRunStore{recordErr: errors.New("disk full")}
	svc := NewEnhanceService(completer, store, "", discardLogger())

	result, err := svc.Enhance(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "ENHANCED", result.Text)
	assert.Empty(t, result.RunID)
}

func TestEnhance_CredentialNeverLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	completer := &mockCompleter{err: errors.New("Incorrect API key provided: sk-test-credential")}
	svc := NewEnhanceService(completer, nil, "", logger)

	result, err := svc.Enhance(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "Error: Incorrect API key provided: sk-test-credential", result.Text)
	assert.NotContains(t, buf.String(), "sk-test-credential")
	assert.Contains(t, buf.String(), "[REDACTED]")
}

func TestListRuns_DisabledReturnsEmpty(t *testing.T) {
	svc := NewEnhanceService(&mockCompleter{}, nil, "", discardLogger())

	runs, err := svc.ListRuns(context.Background(), 10)

	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.ErrorKind
	}{
		{"nil", nil, model.ErrorKindNone},
		{"plain", errors.New("boom"), model.ErrorKindUnknown},
		{"typed", &model.CompletionError{Kind: model.ErrorKindMalformed}, model.ErrorKindMalformed},
		{"wrapped typed", fmt.Errorf("call: %w", &model.CompletionError{Kind: model.ErrorKindAuth}), model.ErrorKindAuth},
		{"canceled", context.Canceled, model.ErrorKindNetwork},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), model.ErrorKindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}
