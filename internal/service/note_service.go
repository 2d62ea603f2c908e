package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"memomate-server/internal/domain"
	"memomate-server/internal/repository"

	"github.com/google/uuid"
)

type NoteService struct {
	repo repository.NoteRepository
}

func NewNoteService(repo repository.NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

func (s *NoteService) Create(ctx context.Context, userID string, req *domain.CreateNoteRequest) (*domain.Note, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	note := &domain.Note{
		ID:           uuid.New().String(),
		UserID:       userID,
		Content:      content,
		Tags:         cleanTags(req.Tags),
		Pinned:       false,
		Favorite:     false,
		ReminderAt:   req.ReminderAt,
		ReminderDone: false,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *NoteService) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update replaces content, tags and the reminder. Editing invalidates any
// prior "done" state: the reminder_done flag always resets to false.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	note, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Content = content
	note.Tags = cleanTags(req.Tags)
	note.ReminderAt = req.ReminderAt
	note.ReminderDone = false

	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.owned(ctx, userID, noteID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, noteID)
}

// TogglePinned flips the pinned flag and nothing else.
func (s *NoteService) TogglePinned(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	return s.toggle(ctx, userID, noteID, func(n *domain.Note) { n.Pinned = !n.Pinned })
}

// ToggleFavorite flips the favorite flag and nothing else.
func (s *NoteService) ToggleFavorite(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	return s.toggle(ctx, userID, noteID, func(n *domain.Note) { n.Favorite = !n.Favorite })
}

func (s *NoteService) MarkReminderDone(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if note.ReminderAt == nil {
		return nil, ErrNoReminder
	}

	note.ReminderDone = true
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *NoteService) toggle(ctx context.Context, userID, noteID string, flip func(*domain.Note)) (*domain.Note, error) {
	note, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	flip(note)
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *NoteService) owned(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.repo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, ErrNotOwner
	}
	return note, nil
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}
