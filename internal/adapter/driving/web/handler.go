// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/promptenhancer/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/promptenhancer/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/promptenhancer/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/promptenhancer/internal/application"
	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

// maxFormBytes bounds the submitted form; prompts are plain text.
const maxFormBytes = 1 << 20

// Handler is the web GUI driving adapter that serves HTML via templ components.
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

// Index renders the empty input form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	page := toPageViewModel(h.enhanceSvc.Provider(), token, model.PromptInput{}, nil)
	h.render(w, r, http.StatusOK, page)
}

// Enhance handles the form submission. Missing fields re-render the form with
// an inline message and no remote call; otherwise the enhanced prompt (or the
// "Error: ..." text of a failed call) is shown under the form.
func (h *Handler) Enhance(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	if !validateCSRF(r) {
		http.Error(w, "invalid or missing CSRF token", http.StatusForbidden)
		return
	}

	in := model.PromptInput{
		Credential: model.Secret(r.PostFormValue(model.FieldCredential)),
		Role:       r.PostFormValue(model.FieldRole),
		Context:    r.PostFormValue(model.FieldContext),
		Task:       r.PostFormValue(model.FieldTask),
	}

	token := csrfToken(w, r)
	result, err := h.enhanceSvc.Enhance(r.Context(), in)

	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		page := toPageViewModel(h.enhanceSvc.Provider(), token, in, verr.Missing)
		page.Error = verr.Error()
		h.render(w, r, http.StatusUnprocessableEntity, page)
	case err != nil:
		h.logger.Error("enhance failed unexpectedly", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	default:
		page := toPageViewModel(h.enhanceSvc.Provider(), token, in, nil)
		page.Result = toResultViewModel(result)
		h.render(w, r, http.StatusOK, page)
	}
}

// render buffers the full page so a render failure can still produce a 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page vm.PageViewModel) {
	component := templates.Layout(page.Title, pages.Enhancer(page))

	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
