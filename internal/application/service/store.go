package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sportreminder/internal/domain/entity"
	"sportreminder/internal/domain/lifecycle"
	"sportreminder/internal/domain/repository"
	appErrors "sportreminder/internal/pkg/errors"
	"sportreminder/internal/pkg/logger"

	"github.com/google/uuid"
)

// TaskStore owns the in-memory reminder set for a session and writes the
// full set through the repository after every change. All reads and writes
// are serialized by one mutex.
type TaskStore struct {
	repo      repository.ReminderRepository
	log       logger.Logger
	newID     func() string
	mu        sync.Mutex
	reminders []*entity.Reminder
}

// NewTaskStore creates an empty store. Call Load before serving requests.
func NewTaskStore(repo repository.ReminderRepository, log logger.Logger) *TaskStore {
	return &TaskStore{
		repo:      repo,
		log:       log,
		newID:     uuid.NewString,
		reminders: []*entity.Reminder{},
	}
}

// Load replaces the in-memory set with the repository contents. Any load
// failure leaves the store empty and is only logged.
func (s *TaskStore) Load(ctx context.Context) []*entity.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn(fmt.Sprintf("Could not load reminders, starting with an empty set: %v", err))
		reminders = []*entity.Reminder{}
	}
	s.reminders = reminders
	s.log.Info(fmt.Sprintf("Loaded %d reminders.", len(reminders)))
	return cloneAll(reminders)
}

// Snapshot returns a deep copy of the current set in stored order.
func (s *TaskStore) Snapshot() []*entity.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.reminders)
}

// Save writes all to the repository and makes it the live set.
func (s *TaskStore) Save(ctx context.Context, all []*entity.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, cloneAll(all))
}

// Add validates the input, appends a new reminder created at now and
// persists the set. Validation errors wrap ErrValidation and leave the store
// untouched.
func (s *TaskStore) Add(ctx context.Context, category, note string, scheduledAt, now time.Time) (*entity.Reminder, error) {
	reminder, err := lifecycle.NewReminder(s.newID(), category, note, scheduledAt, now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reminders {
		if r.ID == reminder.ID {
			return nil, fmt.Errorf("%w: duplicate reminder id %s", appErrors.ErrInternalServer, reminder.ID)
		}
	}

	next := append(cloneAll(s.reminders), reminder)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return reminder.Clone(), nil
}

// Delete removes the reminder with id and persists. Unknown ids are a no-op.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.Update(ctx, func(reminders []*entity.Reminder) ([]*entity.Reminder, bool) {
		return lifecycle.Remove(reminders, id)
	})
}

// Update runs fn on a copy of the set. If fn reports a change, the copy is
// persisted and only then becomes the live set; on a failed save the live
// set is unchanged. fn may return a different slice (e.g. after removal).
func (s *TaskStore) Update(ctx context.Context, fn func(reminders []*entity.Reminder) ([]*entity.Reminder, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(cloneAll(s.reminders))
	if !changed {
		return nil
	}
	return s.commit(ctx, next)
}

// commit must be called with mu held.
func (s *TaskStore) commit(ctx context.Context, next []*entity.Reminder) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.log.Error("Failed to persist reminders; in-memory set left unchanged", err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.reminders = next
	return nil
}

func cloneAll(reminders []*entity.Reminder) []*entity.Reminder {
	out := make([]*entity.Reminder, len(reminders))
	for i, r := range reminders {
		out[i] = r.Clone()
	}
	return out
}
