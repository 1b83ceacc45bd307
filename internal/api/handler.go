// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/glossa-trainer/backend/internal/domain/quiz"
	"github.com/glossa-trainer/backend/internal/mastery"
	"github.com/glossa-trainer/backend/internal/service"
	"github.com/glossa-trainer/backend/internal/store"
	"github.com/glossa-trainer/backend/internal/wordpool"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	driver *service.Driver
	ledger *mastery.Ledger
	pool   *wordpool.Pool
	logger *slog.Logger

	sourceLanguage string
	targetLanguage string
}

// NewHandler creates a Handler with the given dependencies. The language
// names become the prompt labels in responses.
func NewHandler(driver *service.Driver, ledger *mastery.Ledger, pool *wordpool.Pool, logger *slog.Logger, sourceLanguage, targetLanguage string) *Handler {
	return &Handler{
		driver:         driver,
		ledger:         ledger,
		pool:           pool,
		logger:         logger,
		sourceLanguage: sourceLanguage,
		targetLanguage: targetLanguage,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into v. On failure it writes a 400
// and returns false (caller should return).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// handleServiceError maps engine errors to HTTP responses. Returns true if
// an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidIndex),
		errors.Is(err, store.ErrIncomplete),
		errors.Is(err, service.ErrWrongPhase),
		errors.Is(err, service.ErrRetakeNotAllowed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, wordpool.ErrEmptySelection):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("internal error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
	return true
}

// promptLabel translates a prompt side into the configured language name.
func (h *Handler) promptLabel(side string) string {
	if side == quiz.SideTarget {
		return h.targetLanguage
	}
	return h.sourceLanguage
}
