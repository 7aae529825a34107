package service

import (
	"sync"

	"sportreminder/internal/domain/entity"
)

// AlertFeed buffers alerts raised while nobody was polling, e.g. by a
// scheduler tick, until the UI drains them.
type AlertFeed struct {
	mu     sync.Mutex
	queued []*entity.Reminder
}

// NewAlertFeed creates an empty feed.
func NewAlertFeed() *AlertFeed {
	return &AlertFeed{}
}

// Publish appends copies of reminders to the feed.
func (f *AlertFeed) Publish(reminders []*entity.Reminder) {
	if len(reminders) == 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range reminders {
		f.queued = append(f.queued, r.Clone())
	}
}

// Drain returns every queued alert in publish order and empties the feed.
func (f *AlertFeed) Drain() []*entity.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queued
	f.queued = nil
	return out
}

// Len reports how many alerts are waiting.
func (f *AlertFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queued)
}
