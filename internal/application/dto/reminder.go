package dto

import (
	"fmt"
	"strings"
	"time"

	"sportreminder/internal/domain/entity"
	"sportreminder/internal/domain/lifecycle"
	appErrors "sportreminder/internal/pkg/errors"
)

// ReminderResponse is the DTO for sending reminder information to the UI.
type ReminderResponse struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	Note           string    `json:"note"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	CreatedAt      time.Time `json:"created_at"`
	Done           bool      `json:"done"`
	Alerted        bool      `json:"alerted"`
	SnoozedMinutes int       `json:"snoozed_minutes"`
	State          string    `json:"state"`
	Label          string    `json:"label"` // "Due", "In N min" or "Done"
}

// BoardsResponse is the DTO for the due/upcoming/done boards.
type BoardsResponse struct {
	Now      time.Time          `json:"now"`
	Due      []ReminderResponse `json:"due"`
	Upcoming []ReminderResponse `json:"upcoming"`
	Done     []ReminderResponse `json:"done"`
}

// AlertsResponse is the DTO for reminders that just became due.
type AlertsResponse struct {
	Alerts []ReminderResponse `json:"alerts"`
}

// ToReminderResponse converts an entity.Reminder to a ReminderResponse DTO as seen at now.
func ToReminderResponse(r *entity.Reminder, now time.Time) ReminderResponse {
	return ReminderResponse{
		ID:             r.ID,
		Category:       r.Category,
		Note:           r.Note,
		ScheduledAt:    r.ScheduledAt,
		CreatedAt:      r.CreatedAt,
		Done:           r.Done,
		Alerted:        r.Alerted,
		SnoozedMinutes: r.SnoozedMinutes,
		State:          lifecycle.StateOf(r, now).String(),
		Label:          lifecycle.DueLabel(r, now),
	}
}

// ToReminderResponseList converts a slice of entity.Reminder to a slice of ReminderResponse DTOs.
// The result is never nil so it encodes as [].
func ToReminderResponseList(reminders []*entity.Reminder, now time.Time) []ReminderResponse {
	list := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		list[i] = ToReminderResponse(r, now)
	}
	return list
}

// ToBoardsResponse converts classified boards to their DTO.
func ToBoardsResponse(b lifecycle.Boards, now time.Time) BoardsResponse {
	return BoardsResponse{
		Now:      now,
		Due:      ToReminderResponseList(b.Due, now),
		Upcoming: ToReminderResponseList(b.Upcoming, now),
		Done:     ToReminderResponseList(b.Done, now),
	}
}

// AddReminderRequest is the DTO for creating a new reminder.
// Either ScheduledAt (RFC 3339) or Date + Time (UTC wall clock) must be set.
type AddReminderRequest struct {
	Category    string `json:"category"`
	Note        string `json:"note"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	Date        string `json:"date,omitempty"` // 2006-01-02
	Time        string `json:"time,omitempty"` // 15:04 or 15:04:05
}

// ScheduledUTC resolves the requested instant. Date and time components are
// read as UTC wall-clock values, never converted from a local zone.
func (r AddReminderRequest) ScheduledUTC() (time.Time, error) {
	if s := strings.TrimSpace(r.ScheduledAt); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: scheduled_at %q: %v", appErrors.ErrInvalidDateTime, s, err)
		}
		return t.UTC(), nil
	}

	date, clock := strings.TrimSpace(r.Date), strings.TrimSpace(r.Time)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("%w: scheduled_at or date and time are required", appErrors.ErrInvalidDateTime)
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q time %q", appErrors.ErrInvalidDateTime, date, clock)
}

// SnoozeRequest is the DTO for snoozing a reminder. Zero minutes means the default.
type SnoozeRequest struct {
	Minutes int `json:"minutes"`
}
