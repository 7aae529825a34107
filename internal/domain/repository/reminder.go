package repository

import (
	"context"

	"sportreminder/internal/domain/entity"
)

// ReminderRepository persists the complete reminder set as one snapshot.
type ReminderRepository interface {
	// Load reads every stored reminder in stored order.
	// A missing or empty backing store yields an empty slice and no error.
	Load(ctx context.Context) ([]*entity.Reminder, error)
	// Save replaces the stored set with reminders. A concurrent reader
	// never observes a partially written set.
	Save(ctx context.Context, reminders []*entity.Reminder) error
	// Close releases the underlying resources.
	Close() error
}
