package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"memomate-server/internal/domain"
	"memomate-server/internal/service"

	"github.com/go-playground/validator/v10"
)

type AskHandler struct {
	service  *service.AskService
	validate *validator.Validate
}

func NewAskHandler(service *service.AskService) *AskHandler {
	return &AskHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req domain.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRaw(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeRaw(w, http.StatusBadRequest, map[string]string{"error": "Question is required"})
		return
	}

	answer, err := h.service.Answer(r.Context(), req.Question, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrAskNotConfigured) {
			writeRaw(w, http.StatusInternalServerError, map[string]string{"error": "Answer generation is not configured"})
			return
		}
		log.Printf("Answer generation failed: %v", err)
		writeRaw(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate answer"})
		return
	}

	writeRaw(w, http.StatusOK, domain.AskResponse{Answer: answer})
}
