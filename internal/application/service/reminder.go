package service

import (
	"context"
	"time"

	"sportreminder/internal/application/dto"
	"sportreminder/internal/domain/entity"
	"sportreminder/internal/domain/lifecycle"
)

// ReminderService defines the interface for reminder-related business logic.
type ReminderService interface {
	// ListCategories returns the fixed sport categories in display order.
	ListCategories() []string
	// AddReminder validates and stores a new reminder.
	AddReminder(ctx context.Context, req dto.AddReminderRequest) (*entity.Reminder, error)
	// GetBoards classifies the current reminders into due, upcoming and done at now.
	GetBoards(ctx context.Context, now time.Time) lifecycle.Boards
	// Snooze pushes a reminder forward. Zero minutes means the configured default.
	Snooze(ctx context.Context, id string, minutes int) error
	// MarkDone completes a reminder. Done is terminal.
	MarkDone(ctx context.Context, id string) error
	// Delete removes a reminder.
	Delete(ctx context.Context, id string) error
	// PollForAlerts returns the reminders that became due since the last pass
	// and persists their alerted flag before returning them.
	PollForAlerts(ctx context.Context, now time.Time) ([]*entity.Reminder, error)
	// ConfirmAlerts filters alerts raised earlier down to those still live:
	// present, not done, alerted and not rescheduled since.
	ConfirmAlerts(ctx context.Context, queued []*entity.Reminder) []*entity.Reminder
}
