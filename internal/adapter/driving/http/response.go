package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// validationResponse lists the empty fields that blocked an enhance request.
type validationResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

// EnhanceRequest is the JSON body for the enhance endpoint.
type EnhanceRequest struct {
	APIKey  string `json:"api_key"`
	Role    string `json:"role"`
	Context string `json:"context"`
	Task    string `json:"task"`
}

// EnhanceResponse is the JSON representation of an enhancement outcome.
type EnhanceResponse struct {
	Result    string `json:"result"`
	Failed    bool   `json:"failed"`
	ErrorKind string `json:"error_kind,omitempty"`
	RunID     string `json:"run_id,omitempty"`
}

// RunResponse is the JSON representation of one run history entry.
type RunResponse struct {
	ID           string `json:"id"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	RoleChars    int    `json:"role_chars"`
	ContextChars int    `json:"context_chars"`
	TaskChars    int    `json:"task_chars"`
	Failed       bool   `json:"failed"`
	ErrorKind    string `json:"error_kind,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
	CreatedAt    string `json:"created_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Time     string `json:"time"`
}

func toEnhanceResponse(e model.Enhancement) EnhanceResponse {
	return EnhanceResponse{
		Result:    e.Text,
		Failed:    e.Failed,
		ErrorKind: string(e.ErrorKind),
		RunID:     e.RunID,
	}
}

func toRunResponse(run model.Run) RunResponse {
	return RunResponse{
		ID:           run.ID,
		Provider:     string(run.Provider),
		Model:        run.Model,
		RoleChars:    run.RoleChars,
		ContextChars: run.ContextChars,
		TaskChars:    run.TaskChars,
		Failed:       run.Failed,
		ErrorKind:    string(run.ErrorKind),
		DurationMS:   run.Duration.Milliseconds(),
		CreatedAt:    run.CreatedAt.UTC().Format(time.RFC3339),
	}
}
