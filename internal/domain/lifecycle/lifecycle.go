// Package lifecycle holds the pure due-state rules for reminders:
// construction, classification into boards, newly-due detection and the
// snooze/done/remove mutations. Nothing here performs I/O or reads the clock;
// callers pass "now" explicitly and persist the results themselves.
//
// All instants are UTC. Wall-clock inputs must already be interpreted as UTC
// by the caller.
package lifecycle

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"sportreminder/internal/domain/constant"
	"sportreminder/internal/domain/entity"
	appErrors "sportreminder/internal/pkg/errors"
)

const (
	// DefaultSnoozeMinutes is used when a caller snoozes without an amount.
	DefaultSnoozeMinutes = 5
	// MaxSnoozeMinutes caps a single snooze at one year.
	MaxSnoozeMinutes = 366 * 24 * 60
)

// LatestScheduledAt is the last instant that still has a four-digit year,
// the widest range RFC 3339 can round-trip.
var LatestScheduledAt = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// Boards is the three-way partition produced by Classify.
type Boards struct {
	Due      []*entity.Reminder
	Upcoming []*entity.Reminder
	Done     []*entity.Reminder
}

// NewReminder validates the input and builds a fresh reminder.
// Timestamps are normalised to UTC with second precision, the precision of
// the persisted format.
func NewReminder(id, category, note string, scheduledAt, now time.Time) (*entity.Reminder, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, appErrors.ErrEmptyNote
	}
	if !constant.IsCategory(category) {
		return nil, fmt.Errorf("%w: %q", appErrors.ErrUnknownCategory, category)
	}
	if scheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled time is required", appErrors.ErrValidation)
	}
	if !InRange(scheduledAt) {
		return nil, fmt.Errorf("%w: %s is outside years 0001-9999", appErrors.ErrInvalidDateTime, scheduledAt.UTC().Format(time.RFC3339))
	}
	return &entity.Reminder{
		ID:             id,
		Category:       category,
		Note:           note,
		ScheduledAt:    Normalize(scheduledAt),
		CreatedAt:      Normalize(now),
		Done:           false,
		Alerted:        false,
		SnoozedMinutes: 0,
	}, nil
}

// InRange reports whether t can be stored and read back: years 0001 to 9999.
func InRange(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 1 && y <= 9999
}

// Normalize converts t to UTC and drops sub-second precision.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Classify partitions reminders into due, upcoming and done. Each board is
// ordered by scheduled time, ties broken by category; the input slice is not
// reordered.
func Classify(reminders []*entity.Reminder, now time.Time) Boards {
	sorted := make([]*entity.Reminder, len(reminders))
	copy(sorted, reminders)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.ScheduledAt.Equal(b.ScheduledAt) {
			return a.ScheduledAt.Before(b.ScheduledAt)
		}
		return a.Category < b.Category
	})

	var boards Boards
	for _, r := range sorted {
		switch {
		case r.Done:
			boards.Done = append(boards.Done, r)
		case r.IsDue(now):
			boards.Due = append(boards.Due, r)
		default:
			boards.Upcoming = append(boards.Upcoming, r)
		}
	}
	return boards
}

// DetectNewlyDue returns the due reminders that have not been alerted yet.
// The caller must mark them alerted and persist that before signalling.
func DetectNewlyDue(due []*entity.Reminder) []*entity.Reminder {
	var newly []*entity.Reminder
	for _, r := range due {
		if !r.Done && !r.Alerted {
			newly = append(newly, r)
		}
	}
	return newly
}

// MarkAlerted flags each non-done reminder as alerted.
func MarkAlerted(reminders []*entity.Reminder) {
	for _, r := range reminders {
		if !r.Done {
			r.Alerted = true
		}
	}
}

// Snooze pushes the reminder with id forward by minutes, measured from its
// current scheduled time (not from now), and clears its alert flag.
// minutes <= 0 means DefaultSnoozeMinutes. Unknown ids and done reminders are
// left alone; the result reports whether anything changed. Amounts above
// MaxSnoozeMinutes, or that would move past LatestScheduledAt, fail with
// ErrInvalidSnooze and change nothing.
func Snooze(reminders []*entity.Reminder, id string, minutes int) (bool, error) {
	if minutes <= 0 {
		minutes = DefaultSnoozeMinutes
	}
	if minutes > MaxSnoozeMinutes {
		return false, fmt.Errorf("%w: %d exceeds the %d minute limit", appErrors.ErrInvalidSnooze, minutes, MaxSnoozeMinutes)
	}
	r := find(reminders, id)
	if r == nil || r.Done {
		return false, nil
	}
	next := r.ScheduledAt.Add(time.Duration(minutes) * time.Minute)
	if !next.After(r.ScheduledAt) || next.After(LatestScheduledAt) {
		return false, fmt.Errorf("%w: reminder %s cannot move past %s", appErrors.ErrInvalidSnooze, id, LatestScheduledAt.Format(time.RFC3339))
	}
	r.ScheduledAt = next
	r.Alerted = false
	r.SnoozedMinutes += minutes
	return true, nil
}

// MarkDone sets done on the first reminder matching id.
func MarkDone(reminders []*entity.Reminder, id string) bool {
	r := find(reminders, id)
	if r == nil || r.Done {
		return false
	}
	r.Done = true
	return true
}

// Remove returns reminders without the entries matching id.
func Remove(reminders []*entity.Reminder, id string) ([]*entity.Reminder, bool) {
	kept := make([]*entity.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return kept, len(kept) != len(reminders)
}

// StateOf maps a reminder onto the due-state machine at now.
func StateOf(r *entity.Reminder, now time.Time) constant.ReminderState {
	switch {
	case r.Done:
		return constant.StateDone
	case !r.IsDue(now):
		return constant.StateUpcoming
	case r.Alerted:
		return constant.StateDueAlerted
	default:
		return constant.StateDueUnalerted
	}
}

// DueLabel renders the status line shown next to a reminder:
// "Done", "Due", or "In N min" where N is the floor of the remaining minutes.
func DueLabel(r *entity.Reminder, now time.Time) string {
	if r.Done {
		return "Done"
	}
	if r.IsDue(now) {
		return "Due"
	}
	return fmt.Sprintf("In %d min", int(r.ScheduledAt.Sub(now)/time.Minute))
}

func find(reminders []*entity.Reminder, id string) *entity.Reminder {
	for _, r := range reminders {
		if r.ID == id {
			return r
		}
	}
	return nil
}
