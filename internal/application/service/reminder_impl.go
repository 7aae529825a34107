package service

import (
	"context"
	"fmt"
	"time"

	"sportreminder/internal/application/dto"
	"sportreminder/internal/domain/constant"
	"sportreminder/internal/domain/entity"
	"sportreminder/internal/domain/lifecycle"
	"sportreminder/internal/pkg/clock"
	appErrors "sportreminder/internal/pkg/errors"
	"sportreminder/internal/pkg/logger"
)

type reminderService struct {
	store         *TaskStore
	clock         clock.Clock
	log           logger.Logger
	snoozeMinutes int
}

// NewReminderService creates a new instance of ReminderService implementation.
// defaultSnoozeMinutes <= 0 falls back to lifecycle.DefaultSnoozeMinutes.
func NewReminderService(store *TaskStore, clk clock.Clock, log logger.Logger, defaultSnoozeMinutes int) ReminderService {
	if defaultSnoozeMinutes <= 0 {
		defaultSnoozeMinutes = lifecycle.DefaultSnoozeMinutes
	}
	return &reminderService{
		store:         store,
		clock:         clk,
		log:           log,
		snoozeMinutes: defaultSnoozeMinutes,
	}
}

// ListCategories returns the fixed sport categories in display order.
func (s *reminderService) ListCategories() []string {
	cats := constant.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

// AddReminder validates and stores a new reminder created at the current time.
func (s *reminderService) AddReminder(ctx context.Context, req dto.AddReminderRequest) (*entity.Reminder, error) {
	scheduledAt, err := req.ScheduledUTC()
	if err != nil {
		return nil, err
	}

	reminder, err := s.store.Add(ctx, req.Category, req.Note, scheduledAt, s.clock.Now())
	if err != nil {
		s.log.Warn(fmt.Sprintf("Rejected reminder for category %q: %v", req.Category, err))
		return nil, err
	}
	s.log.Info(fmt.Sprintf("Created reminder %s (%s) at %s", reminder.ID, reminder.Category, reminder.ScheduledAt.Format(time.RFC3339)))
	return reminder, nil
}

// GetBoards classifies a snapshot of the reminders at now.
func (s *reminderService) GetBoards(_ context.Context, now time.Time) lifecycle.Boards {
	return lifecycle.Classify(s.store.Snapshot(), now.UTC())
}

// Snooze pushes the reminder with id forward and makes it eligible to alert again.
func (s *reminderService) Snooze(ctx context.Context, id string, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("%w: got %d", appErrors.ErrInvalidSnooze, minutes)
	}
	if minutes == 0 {
		minutes = s.snoozeMinutes
	}

	changed := false
	var snoozeErr error
	err := s.store.Update(ctx, func(reminders []*entity.Reminder) ([]*entity.Reminder, bool) {
		changed, snoozeErr = lifecycle.Snooze(reminders, id, minutes)
		return reminders, changed
	})
	if snoozeErr != nil {
		s.log.Warn(fmt.Sprintf("Rejected snooze of reminder %s: %v", id, snoozeErr))
		return snoozeErr
	}
	if err != nil {
		return err
	}
	if changed {
		s.log.Info(fmt.Sprintf("Snoozed reminder %s by %d min", id, minutes))
	} else {
		s.log.Debug(fmt.Sprintf("Snooze ignored for unknown or done reminder %s", id))
	}
	return nil
}

// MarkDone completes the reminder with id.
func (s *reminderService) MarkDone(ctx context.Context, id string) error {
	changed := false
	err := s.store.Update(ctx, func(reminders []*entity.Reminder) ([]*entity.Reminder, bool) {
		changed = lifecycle.MarkDone(reminders, id)
		return reminders, changed
	})
	if err != nil {
		return err
	}
	if changed {
		s.log.Info(fmt.Sprintf("Marked reminder %s done", id))
	}
	return nil
}

// Delete removes the reminder with id.
func (s *reminderService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug(fmt.Sprintf("Delete processed for reminder %s", id))
	return nil
}

// PollForAlerts classifies at now, flags every newly due reminder as alerted
// and persists that in the same pass. The returned copies are only handed
// out once the save succeeded, so each reminder is surfaced at most once per
// due period.
func (s *reminderService) PollForAlerts(ctx context.Context, now time.Time) ([]*entity.Reminder, error) {
	now = now.UTC()
	var alerts []*entity.Reminder
	err := s.store.Update(ctx, func(reminders []*entity.Reminder) ([]*entity.Reminder, bool) {
		newly := lifecycle.DetectNewlyDue(lifecycle.Classify(reminders, now).Due)
		if len(newly) == 0 {
			return reminders, false
		}
		lifecycle.MarkAlerted(newly)
		alerts = make([]*entity.Reminder, len(newly))
		for i, r := range newly {
			alerts[i] = r.Clone()
		}
		return reminders, true
	})
	if err != nil {
		s.log.Error("Failed to persist alerted flags; alerts withheld until the next pass", err)
		return nil, err
	}
	for _, r := range alerts {
		s.log.Info(fmt.Sprintf("Reminder due: %s - %s (%s)", r.Category, r.Note, r.ID))
	}
	return alerts, nil
}

// ConfirmAlerts returns the current state of each queued alert that is still
// pending. Reminders deleted, done or snoozed since they were queued are dropped.
func (s *reminderService) ConfirmAlerts(_ context.Context, queued []*entity.Reminder) []*entity.Reminder {
	if len(queued) == 0 {
		return nil
	}
	live := make(map[string]*entity.Reminder)
	for _, r := range s.store.Snapshot() {
		live[r.ID] = r
	}

	var confirmed []*entity.Reminder
	for _, q := range queued {
		r, ok := live[q.ID]
		if !ok || r.Done || !r.Alerted || !r.ScheduledAt.Equal(q.ScheduledAt) {
			s.log.Debug(fmt.Sprintf("Dropping stale queued alert for reminder %s", q.ID))
			continue
		}
		confirmed = append(confirmed, r)
		delete(live, q.ID)
	}
	return confirmed
}
