package domain

import (
	"strings"
	"time"
)

// Note is a user's private diary entry.
type Note struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags"`
	Pinned       bool       `json:"pinned"`
	Favorite     bool       `json:"favorite"`
	ReminderAt   *time.Time `json:"reminder_at"`
	ReminderDone bool       `json:"reminder_done"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CreateNoteRequest struct {
	Content    string     `json:"content" validate:"required"`
	Tags       []string   `json:"tags"`
	ReminderAt *time.Time `json:"reminder_at"`
}

// UpdateNoteRequest replaces content, tags and the reminder timestamp.
// A nil ReminderAt clears any reminder. Editing always resets reminder_done.
type UpdateNoteRequest struct {
	Content    string     `json:"content" validate:"required"`
	Tags       []string   `json:"tags"`
	ReminderAt *time.Time `json:"reminder_at"`
}

// SplitTags turns the comma-separated tags edit field into a clean tag list.
// Blank and whitespace-only entries are dropped.
func SplitTags(field string) []string {
	parts := strings.Split(field, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags renders a tag list back into the comma-separated edit field.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
