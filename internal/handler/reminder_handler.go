package handler

import (
	"log"
	"net/http"
	"time"

	"memomate-server/internal/service"
)

type ReminderHandler struct {
	service *service.ReminderService
}

func NewReminderHandler(service *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// SendDue runs one sweep of due reminders. Triggered by the external
// scheduler; takes no body.
func (h *ReminderHandler) SendDue(w http.ResponseWriter, r *http.Request) {
	sent, err := h.service.SendDue(r.Context(), time.Now())
	if err != nil {
		log.Printf("Reminder sweep failed: %v", err)
		writeRaw(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	writeRaw(w, http.StatusOK, map[string]any{"ok": true, "sentFor": sent})
}
