package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/echomi/echomi-ai-platform/internal/lang"
	"github.com/echomi/echomi-ai-platform/internal/session"
	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

// Handler exposes the conversation service over HTTP.
type Handler struct {
	service Service
	logger  *logging.Logger
}

func NewHandler(service Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// HandleTurn processes one caller utterance. An empty text is allowed:
// silence is a turn the policy answers with a clarifying prompt.
func (h *Handler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if !lang.Supported(req.Language) {
		http.Error(w, "Unsupported language", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ProcessTurn(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to process turn", "session_id", req.SessionID, "error", err)
		http.Error(w, "Failed to process turn", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleSummary returns the call summary for a session.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	summary, err := h.service.Summary(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load summary", "session_id", sessionID, "error", err)
		http.Error(w, "Failed to load summary", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"summary":    summary,
	})
}

// HandleReset discards a session. Resetting an unknown session is not
// an error; the outcome is the same either way.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.service.Reset(r.Context(), sessionID); err != nil && !errors.Is(err, session.ErrNotFound) {
		h.logger.Error("Failed to reset session", "session_id", sessionID, "error", err)
		http.Error(w, "Failed to reset session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
