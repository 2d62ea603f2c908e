package client

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"memomate-server/internal/domain"
	"memomate-server/internal/reminder"
	"memomate-server/internal/streak"
)

// PageSize is the diary view page length.
const PageSize = 5

// Controller owns the local note cache and every view derived from it.
// State only changes on confirmed remote success; a failed write leaves the
// cache exactly as it was.
type Controller struct {
	store   NoteStore
	answers AnswerClient
	confirm Confirm
	loc     *time.Location
	now     func() time.Time

	notes   []domain.Note
	loading bool
	errMsg  string
	search  string
	page    int

	// Guards against a slow List reply landing after a newer one.
	loadGen atomic.Uint64
}

func NewController(store NoteStore, answers AnswerClient, confirm Confirm, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		store:   store,
		answers: answers,
		confirm: confirm,
		loc:     loc,
		now:     time.Now,
		page:    1,
	}
}

// Load refreshes the cache from the store. On failure the previous cache
// survives and the error slot is set. A reply superseded by a newer Load is
// dropped instead of overwriting fresher state.
func (c *Controller) Load(ctx context.Context) error {
	gen := c.loadGen.Add(1)
	c.loading = true
	c.errMsg = ""

	notes, err := c.store.List(ctx)

	if c.loadGen.Load() != gen {
		return nil
	}
	c.loading = false

	if err != nil {
		log.Printf("Failed to load notes: %v", err)
		c.errMsg = "Failed to load notes."
		return err
	}

	c.notes = notes
	c.page = 1
	return nil
}

// Reset drops all local state, used when the session ends.
func (c *Controller) Reset() {
	c.loadGen.Add(1)
	c.notes = nil
	c.loading = false
	c.errMsg = ""
	c.search = ""
	c.page = 1
}

// Add validates and creates a note from the raw edit fields. The new note
// is the newest, so it goes to the front of the cache.
func (c *Controller) Add(ctx context.Context, content, tagsField, reminderField string) error {
	if strings.TrimSpace(content) == "" {
		c.errMsg = "Please type something to save."
		return errEmptyContent
	}
	c.errMsg = ""

	reminderAt, err := reminder.ParseEditField(reminderField, c.loc)
	if err != nil {
		c.errMsg = "Invalid reminder time."
		return err
	}

	note, err := c.store.Create(ctx, &domain.CreateNoteRequest{
		Content:    strings.TrimSpace(content),
		Tags:       domain.SplitTags(tagsField),
		ReminderAt: reminderAt,
	})
	if err != nil {
		log.Printf("Could not save note: %v", err)
		c.errMsg = "Could not save note."
		return err
	}

	c.notes = append([]domain.Note{*note}, c.notes...)
	c.sortNotes()
	return nil
}

// SaveEdit updates content, tags and reminder of an existing note. The
// store resets reminder_done on every edit; the cache entry is replaced
// with the confirmed result.
func (c *Controller) SaveEdit(ctx context.Context, id, content, tagsField, reminderField string) error {
	if strings.TrimSpace(content) == "" {
		c.errMsg = "Note cannot be empty."
		return errEmptyContent
	}
	c.errMsg = ""

	reminderAt, err := reminder.ParseEditField(reminderField, c.loc)
	if err != nil {
		c.errMsg = "Invalid reminder time."
		return err
	}

	note, err := c.store.Update(ctx, id, &domain.UpdateNoteRequest{
		Content:    strings.TrimSpace(content),
		Tags:       domain.SplitTags(tagsField),
		ReminderAt: reminderAt,
	})
	if err != nil {
		log.Printf("Could not update note: %v", err)
		c.errMsg = "Could not update note."
		return err
	}

	c.replace(*note)
	return nil
}

// Delete removes a note after explicit confirmation and confirmed remote
// success. A declined prompt is not an error.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if c.confirm != nil && !c.confirm("Delete this entry?") {
		return nil
	}
	c.errMsg = ""

	if err := c.store.Delete(ctx, id); err != nil {
		log.Printf("Could not delete note: %v", err)
		c.errMsg = "Could not delete note."
		return err
	}

	kept := c.notes[:0:0]
	for _, n := range c.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.notes = kept
	return nil
}

// TogglePinned flips the pin and re-sorts the cache so the change is
// immediately visible at the top or bottom of the list.
func (c *Controller) TogglePinned(ctx context.Context, id string) error {
	c.errMsg = ""
	note, err := c.store.TogglePinned(ctx, id)
	if err != nil {
		log.Printf("Could not update note: %v", err)
		c.errMsg = "Could not update note."
		return err
	}

	c.replace(*note)
	c.sortNotes()
	return nil
}

func (c *Controller) ToggleFavorite(ctx context.Context, id string) error {
	c.errMsg = ""
	note, err := c.store.ToggleFavorite(ctx, id)
	if err != nil {
		log.Printf("Could not update note: %v", err)
		c.errMsg = "Could not update note."
		return err
	}

	c.replace(*note)
	return nil
}

// MarkReminderDone is a no-op for notes without a reminder.
func (c *Controller) MarkReminderDone(ctx context.Context, id string) error {
	note, ok := c.find(id)
	if !ok || note.ReminderAt == nil {
		return nil
	}
	c.errMsg = ""

	updated, err := c.store.MarkReminderDone(ctx, id)
	if err != nil {
		log.Printf("Could not update note: %v", err)
		c.errMsg = "Could not update note."
		return err
	}

	c.replace(*updated)
	return nil
}

// Notes returns the full cache in list order.
func (c *Controller) Notes() []domain.Note {
	out := make([]domain.Note, len(c.notes))
	copy(out, c.notes)
	return out
}

func (c *Controller) Loading() bool { return c.loading }

// Err returns the current user-facing error message, empty when none. A
// single slot: each new failure replaces the previous message.
func (c *Controller) Err() string { return c.errMsg }

// SetSearch updates the filter term and snaps back to the first page.
func (c *Controller) SetSearch(term string) {
	c.search = term
	c.page = 1
}

// Visible applies the search filter and pagination to the cache.
func (c *Controller) Visible() []domain.Note {
	filtered := c.filtered()
	start := (c.CurrentPage() - 1) * PageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

func (c *Controller) TotalPages() int {
	pages := (len(c.filtered()) + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// CurrentPage clamps the requested page into range, so a shrinking result
// set never strands the view past the end.
func (c *Controller) CurrentPage() int {
	if total := c.TotalPages(); c.page > total {
		return total
	}
	return c.page
}

func (c *Controller) NextPage() {
	if c.CurrentPage() < c.TotalPages() {
		c.page = c.CurrentPage() + 1
	}
}

func (c *Controller) PrevPage() {
	if c.CurrentPage() > 1 {
		c.page = c.CurrentPage() - 1
	}
}

// Streaks recomputes the writing streaks from the cache.
func (c *Controller) Streaks() streak.Streaks {
	created := make([]time.Time, len(c.notes))
	for i, n := range c.notes {
		created[i] = n.CreatedAt
	}
	return streak.Calculate(created, c.now(), c.loc)
}

// ReminderStatus derives the reminder state of one note at this instant.
func (c *Controller) ReminderStatus(n *domain.Note) reminder.Status {
	return reminder.StatusOf(n.ReminderAt, n.ReminderDone, c.now())
}

func (c *Controller) filtered() []domain.Note {
	term := strings.ToLower(strings.TrimSpace(c.search))
	if term == "" {
		return c.notes
	}

	var out []domain.Note
	for _, n := range c.notes {
		if matchSearch(&n, term) {
			out = append(out, n)
		}
	}
	return out
}

func matchSearch(n *domain.Note, term string) bool {
	if strings.Contains(strings.ToLower(n.Content), term) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func (c *Controller) replace(note domain.Note) {
	for i := range c.notes {
		if c.notes[i].ID == note.ID {
			c.notes[i] = note
			return
		}
	}
}

func (c *Controller) find(id string) (*domain.Note, bool) {
	for i := range c.notes {
		if c.notes[i].ID == id {
			return &c.notes[i], true
		}
	}
	return nil, false
}

// sortNotes restores the list invariant: pinned first, then newest first.
// The sort is stable so store insertion order breaks remaining ties.
func (c *Controller) sortNotes() {
	sort.SliceStable(c.notes, func(i, j int) bool {
		if c.notes[i].Pinned != c.notes[j].Pinned {
			return c.notes[i].Pinned
		}
		return c.notes[i].CreatedAt.After(c.notes[j].CreatedAt)
	})
}
