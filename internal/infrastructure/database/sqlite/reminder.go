package sqlite

import (
	"context"
	"fmt"

	"sportreminder/internal/domain/entity"
	"sportreminder/internal/domain/repository"
	"sportreminder/internal/pkg/logger"

	"gorm.io/gorm"
)

// reminderRow adds the snapshot position to the stored entity so Load
// returns reminders in the order they were saved.
type reminderRow struct {
	Position        int `gorm:"column:position;index"`
	entity.Reminder `gorm:"embedded"`
}

// TableName specifies the table name for stored reminders.
func (reminderRow) TableName() string {
	return "reminders"
}

type reminderRepository struct {
	db  *gorm.DB
	log logger.Logger
}

// NewReminderRepository creates a new GORM-backed ReminderRepository.
func NewReminderRepository(db *gorm.DB, log logger.Logger) repository.ReminderRepository {
	return &reminderRepository{db: db, log: log}
}

// Load retrieves all reminders in saved order.
func (r *reminderRepository) Load(ctx context.Context) ([]*entity.Reminder, error) {
	var rows []reminderRow
	if err := r.db.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to load reminders: %w", err)
	}
	reminders := make([]*entity.Reminder, len(rows))
	for i := range rows {
		rem := rows[i].Reminder
		rem.ScheduledAt = rem.ScheduledAt.UTC()
		rem.CreatedAt = rem.CreatedAt.UTC()
		reminders[i] = &rem
	}
	return reminders, nil
}

// Save replaces every stored reminder inside a single transaction.
func (r *reminderRepository) Save(ctx context.Context, reminders []*entity.Reminder) error {
	rows := make([]reminderRow, len(reminders))
	for i, rem := range reminders {
		rows[i] = reminderRow{Position: i, Reminder: *rem}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&reminderRow{}).Error; err != nil {
			return fmt.Errorf("clear reminders: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("insert reminders: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to save %d reminders: %w", len(reminders), err)
	}
	r.log.Debug(fmt.Sprintf("Saved %d reminders to sqlite", len(reminders)))
	return nil
}

// Close closes the database connection.
func (r *reminderRepository) Close() error {
	return CloseDB(r.db)
}
