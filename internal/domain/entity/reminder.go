package entity

import "time"

// Reminder is a timestamped note for one category, scheduled in UTC.
type Reminder struct {
	ID             string    `gorm:"column:id;primaryKey;type:char(36)" json:"id"`
	Category       string    `gorm:"column:category;index" json:"category"`
	Note           string    `gorm:"column:note;type:text" json:"note"`
	ScheduledAt    time.Time `gorm:"column:scheduled_at" json:"scheduled_at"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime:false" json:"created_at"`
	Done           bool      `gorm:"column:done" json:"done"`
	Alerted        bool      `gorm:"column:alerted" json:"alerted"`
	SnoozedMinutes int       `gorm:"column:snoozed_minutes" json:"snoozed_minutes"`
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminders"
}

// Clone returns an independent copy of the reminder.
func (r *Reminder) Clone() *Reminder {
	c := *r
	return &c
}

// IsDue reports whether a non-done reminder's scheduled time has been reached.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.Done && !r.ScheduledAt.After(now)
}
