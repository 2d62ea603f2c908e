package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"memomate-server/internal/domain"
	"memomate-server/internal/middleware"
	"memomate-server/internal/service"
	"memomate-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyContent) {
			response.BadRequest(w, "Note content cannot be empty")
			return
		}
		response.InternalError(w, "Could not save note")
		return
	}

	response.Created(w, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	notes, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to load notes")
		return
	}

	response.Success(w, notes)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Update(r.Context(), userID, noteID, &req)
	if err != nil {
		h.writeNoteError(w, err, "Could not update note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	if err := h.service.Delete(r.Context(), userID, noteID); err != nil {
		h.writeNoteError(w, err, "Could not delete note")
		return
	}

	response.Success(w, map[string]string{"message": "Note deleted successfully"})
}

func (h *NoteHandler) TogglePinned(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.TogglePinned)
}

func (h *NoteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.ToggleFavorite)
}

func (h *NoteHandler) MarkReminderDone(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.MarkReminderDone(r.Context(), userID, noteID)
	if err != nil {
		if errors.Is(err, service.ErrNoReminder) {
			response.BadRequest(w, "Note has no reminder")
			return
		}
		h.writeNoteError(w, err, "Could not update note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) toggle(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, userID, noteID string) (*domain.Note, error)) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	note, err := op(r.Context(), userID, noteID)
	if err != nil {
		h.writeNoteError(w, err, "Could not update note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) writeNoteError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEmptyContent):
		response.BadRequest(w, "Note content cannot be empty")
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(w, "Note not found")
	default:
		response.InternalError(w, fallback)
	}
}
