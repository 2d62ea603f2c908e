// Package reminder derives reminder state from a note's timestamp and done
// flag, and converts between the timezone-naive edit-field representation
// and absolute timestamps.
package reminder

import "time"

type Status string

const (
	StatusNone     Status = "none"
	StatusUpcoming Status = "upcoming"
	StatusDue      Status = "due"
	StatusDone     Status = "done"
)

// EditLayout is the wall-clock shape of the reminder edit field:
// year-month-day-hour-minute, no seconds, no zone.
const EditLayout = "2006-01-02T15:04"

// StatusOf reports the reminder state at instant now. Done wins over due:
// a completed reminder stays done even while its timestamp is in the past.
func StatusOf(reminderAt *time.Time, done bool, now time.Time) Status {
	if reminderAt == nil || reminderAt.IsZero() {
		return StatusNone
	}
	if done {
		return StatusDone
	}
	if !reminderAt.After(now) {
		return StatusDue
	}
	return StatusUpcoming
}

// FormatEditField renders an absolute timestamp as the local wall-clock
// value shown in the edit field. Reminders are deliberately anchored to the
// editing device's zone; a later edit from another zone reads the same wall
// clock, not the same instant.
func FormatEditField(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(EditLayout)
}

// ParseEditField parses an edit-field value back into an absolute timestamp,
// interpreting it in the given location. An empty field means no reminder.
func ParseEditField(field string, loc *time.Location) (*time.Time, error) {
	if field == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(EditLayout, field, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDisplay renders a reminder for reading, in the viewer's zone.
func FormatDisplay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon, Jan 2 2006 15:04")
}
