package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"memomate-server/internal/domain"
)

var ErrNotFound = errors.New("not found")

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id string) error
	ListDueReminders(ctx context.Context, now time.Time) ([]*domain.Note, error)
	MarkRemindersDone(ctx context.Context, ids []string) error
}

type noteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Pinned entries first, newest first inside each group, store insertion
// order (id) breaking created_at ties.
const noteOrder = "ORDER BY pinned DESC, created_at DESC, id DESC"

const noteColumns = `id, user_id, content, COALESCE(tags, ''),
	COALESCE(pinned, FALSE), COALESCE(favorite, FALSE),
	reminder_at, COALESCE(reminder_done, FALSE), created_at`

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	query := `INSERT INTO notes (id, user_id, content, tags, pinned, favorite, reminder_at, reminder_done, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		note.ID, note.UserID, note.Content, domain.JoinTags(note.Tags),
		note.Pinned, note.Favorite, nullableTime(note.ReminderAt),
		note.ReminderDone, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *noteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return note, nil
}

func (r *noteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ` + noteOrder

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	return collectNotes(rows)
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	query := `UPDATE notes
		 SET content = $1, tags = $2, pinned = $3, favorite = $4,
		     reminder_at = $5, reminder_done = $6
		 WHERE id = $7`

	res, err := r.db.ExecContext(ctx, query,
		note.Content, domain.JoinTags(note.Tags), note.Pinned, note.Favorite,
		nullableTime(note.ReminderAt), note.ReminderDone, note.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *noteRepository) ListDueReminders(ctx context.Context, now time.Time) ([]*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
		 WHERE reminder_at IS NOT NULL AND reminder_at <= $1 AND reminder_done = FALSE`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	defer rows.Close()

	return collectNotes(rows)
}

func (r *noteRepository) MarkRemindersDone(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `UPDATE notes SET reminder_done = TRUE WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark reminders done: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var (
		note       domain.Note
		tags       string
		reminderAt sql.NullTime
	)

	err := row.Scan(&note.ID, &note.UserID, &note.Content, &tags,
		&note.Pinned, &note.Favorite, &reminderAt, &note.ReminderDone, &note.CreatedAt)
	if err != nil {
		return nil, err
	}

	note.Tags = domain.SplitTags(tags)
	if reminderAt.Valid {
		t := reminderAt.Time
		note.ReminderAt = &t
	}

	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]*domain.Note, error) {
	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	return notes, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
