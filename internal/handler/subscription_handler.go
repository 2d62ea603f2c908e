package handler

import (
	"encoding/json"
	"net/http"

	"memomate-server/internal/domain"
	"memomate-server/internal/middleware"
	"memomate-server/internal/service"

	"github.com/go-playground/validator/v10"
)

// SubscriptionHandler serves the push subscription endpoints. These keep the
// wire contract the service worker and client script already speak:
// {"ok":true} on success, {"error":"..."} on failure.
type SubscriptionHandler struct {
	service  *service.SubscriptionService
	validate *validator.Validate
}

func NewSubscriptionHandler(service *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRaw(w, http.StatusBadRequest, map[string]string{"error": "Invalid subscription"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeRaw(w, http.StatusBadRequest, map[string]string{"error": "Invalid subscription"})
		return
	}

	// The session, not the request body, decides who owns the endpoint.
	userID := middleware.GetUserID(r)
	if userID == "" {
		userID = req.UserID
	}
	if userID == "" {
		writeRaw(w, http.StatusBadRequest, map[string]string{"error": "Missing user"})
		return
	}

	if err := h.service.Register(r.Context(), userID, &req.Subscription); err != nil {
		writeRaw(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save subscription"})
		return
	}

	writeRaw(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRaw(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeRaw(w, http.StatusBadRequest, map[string]string{"error": "Missing endpoint"})
		return
	}

	if err := h.service.Unregister(r.Context(), req.Endpoint); err != nil {
		writeRaw(w, http.StatusInternalServerError, map[string]string{"error": "Failed to remove subscription"})
		return
	}

	writeRaw(w, http.StatusOK, map[string]any{"ok": true})
}

func writeRaw(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
