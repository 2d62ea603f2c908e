// Package client implements the browser-side engine of Memomate: the note
// cache and its derived views, the ask flow, and the push subscription
// lifecycle. Everything remote sits behind narrow collaborator interfaces so
// the engine can run against the real server or against test doubles.
//
// The engine follows the single-threaded event-loop model of its UI host:
// methods are meant to be called from one goroutine. The only internal
// concurrency is the deliberately detached answer-generation call.
package client

import (
	"context"

	"memomate-server/internal/domain"
)

// NoteStore is the remote notes collection. Implementations enforce that
// every operation touches only the authenticated user's notes; the engine
// does not re-check ownership.
type NoteStore interface {
	List(ctx context.Context) ([]domain.Note, error)
	Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, error)
	Update(ctx context.Context, id string, req *domain.UpdateNoteRequest) (*domain.Note, error)
	Delete(ctx context.Context, id string) error
	TogglePinned(ctx context.Context, id string) (*domain.Note, error)
	ToggleFavorite(ctx context.Context, id string) (*domain.Note, error)
	MarkReminderDone(ctx context.Context, id string) (*domain.Note, error)
}

// AnswerClient generates a free-text answer from a question and note
// excerpts. Its availability never gates the keyword results.
type AnswerClient interface {
	Answer(ctx context.Context, question string, notes []domain.AskNote) (string, error)
}

// Session exposes the current signed-in user. An empty UserID means no
// session: no notes, no push state.
type Session interface {
	UserID() string
}

// Confirm asks the user a yes/no question before a destructive action.
type Confirm func(prompt string) bool
