// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/promptenhancer/internal/application"
	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

const (
	// maxBodyBytes bounds the enhance request body.
	maxBodyBytes = 1 << 20

	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	enhanceSvc *application.EnhanceService
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(enhanceSvc *application.EnhanceService, logger *slog.Logger) *Handler {
	return &Handler{
		enhanceSvc: enhanceSvc,
		logger:     logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/v1/enhance", h.Enhance)
	mux.HandleFunc("GET /api/v1/runs", h.ListRuns)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// Enhance runs one prompt enhancement. Missing fields yield 400 with the list
// of empty fields. A failed remote call yields 502 with the same
// "Error: ..." text the GUI would show.
func (h *Handler) Enhance(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.enhanceSvc.Enhance(r.Context(), req.toInput())

	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Error:   verr.Error(),
			Missing: verr.Missing,
		})
	case err != nil:
		h.logger.Error("enhance failed unexpectedly", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	case result.Failed:
		writeJSON(w, http.StatusBadGateway, toEnhanceResponse(result))
	default:
		writeJSON(w, http.StatusOK, toEnhanceResponse(result))
	}
}

// ListRuns returns recent run metadata, newest first. The optional limit
// query parameter is clamped to [1, 200].
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit: expected a positive integer")
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.enhanceSvc.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Provider: string(h.enhanceSvc.Provider()),
		Model:    h.enhanceSvc.Model(),
		Time:     time.Now().UTC().Format(time.RFC3339),
	})
}

func (req EnhanceRequest) toInput() model.PromptInput {
	return model.PromptInput{
		Credential: model.Secret(req.APIKey),
		Role:       req.Role,
		Context:    req.Context,
		Task:       req.Task,
	}
}
