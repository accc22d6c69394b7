package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

// Handler exposes the wallet to the companion app's admin surface.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates an order wallet handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

type createOrderRequest struct {
	Company    string `json:"company"`
	OTP        string `json:"otp,omitempty"`
	TrackingID string `json:"tracking_id,omitempty"`
}

// Create registers a new expected delivery.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Company) == "" {
		http.Error(w, "company is required", http.StatusBadRequest)
		return
	}

	order := &Order{
		Company:    req.Company,
		OTP:        req.OTP,
		TrackingID: req.TrackingID,
	}
	if err := h.store.Create(r.Context(), order); err != nil {
		h.logger.Error("orders: create failed", "error", err)
		http.Error(w, "failed to create order", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

// List returns the whole wallet, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("orders: list failed", "error", err)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

type approvalRequest struct {
	Token  string `json:"token"`
	Action string `json:"action"`
}

// Approval records the owner's approve/deny decision for the order
// correlated by the notification token.
func (h *Handler) Approval(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var status Status
	switch strings.ToLower(req.Action) {
	case "approve":
		status = StatusApproved
	case "deny":
		status = StatusDenied
	default:
		http.Error(w, "action must be approve or deny", http.StatusBadRequest)
		return
	}

	order, err := h.store.FindByToken(r.Context(), req.Token)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "unknown approval token", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("orders: token lookup failed", "error", err)
		http.Error(w, "failed to resolve token", http.StatusInternalServerError)
		return
	}

	if err := h.store.SetStatus(r.Context(), order.ID, status); err != nil {
		h.logger.Error("orders: status update failed", "error", err, "order_id", order.ID)
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	h.logger.Info("orders: approval recorded", "order_id", order.ID, "status", status)
	h.writeJSON(w, http.StatusOK, map[string]any{"order_id": order.ID, "status": status})
}

// Clear empties the wallet.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		h.logger.Error("orders: clear failed", "error", err)
		http.Error(w, "failed to clear orders", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("orders: failed to encode response", "error", err)
	}
}
