package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sportreminder/internal/infrastructure/scheduler"
	"sportreminder/internal/pkg/clock"
	appErrors "sportreminder/internal/pkg/errors"
	"sportreminder/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

type schedulerService struct {
	cronScheduler *scheduler.Scheduler
	reminders     ReminderService
	feed          *AlertFeed
	clock         clock.Clock
	interval      time.Duration
	log           logger.Logger

	mu      sync.Mutex // Protects entryID and ctx
	entryID cron.EntryID
	ctx     context.Context
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
func NewSchedulerService(
	cronScheduler *scheduler.Scheduler,
	reminders ReminderService,
	feed *AlertFeed,
	clk clock.Clock,
	interval time.Duration,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		cronScheduler: cronScheduler,
		reminders:     reminders,
		feed:          feed,
		clock:         clk,
		interval:      interval,
		log:           log,
	}
}

// formatCronSpec generates the cron spec for a fixed interval.
func formatCronSpec(interval time.Duration) string {
	return fmt.Sprintf("@every %s", interval)
}

// Start runs one poll immediately, then schedules Tick every interval.
// ctx is handed to every tick; once it is cancelled ticks are skipped.
func (s *schedulerService) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", appErrors.ErrScheduling, s.interval)
	}

	s.mu.Lock()
	if s.entryID != 0 {
		s.mu.Unlock()
		s.log.Warn("Scheduler already started; ignoring Start")
		return nil
	}
	s.ctx = ctx
	s.mu.Unlock()

	s.Tick(ctx)

	entryID, err := s.cronScheduler.AddJob(formatCronSpec(s.interval), func() {
		s.mu.Lock()
		jobCtx := s.ctx
		s.mu.Unlock()
		s.Tick(jobCtx)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.mu.Lock()
	s.entryID = entryID
	s.mu.Unlock()

	s.cronScheduler.Start()
	s.log.Info(fmt.Sprintf("Alert re-check scheduled every %s (Job ID: %d)", s.interval, entryID))
	return nil
}

// Tick polls once at the current time. Errors are logged; alerts are
// published to the feed for the next UI drain.
func (s *schedulerService) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		s.log.Debug("Skipping alert re-check; context done")
		return
	}
	alerts, err := s.reminders.PollForAlerts(ctx, s.clock.Now())
	if err != nil {
		s.log.Error("Scheduled alert re-check failed", err)
		return
	}
	if len(alerts) == 0 {
		s.log.Debug("Scheduled alert re-check: nothing newly due")
		return
	}
	s.feed.Publish(alerts)
	s.log.Info(fmt.Sprintf("Scheduled alert re-check queued %d alert(s)", len(alerts)))
}

// Stop removes the periodic job and stops the underlying scheduler,
// waiting for a running tick to finish.
func (s *schedulerService) Stop() {
	s.mu.Lock()
	entryID := s.entryID
	s.entryID = 0
	s.mu.Unlock()

	if entryID != 0 {
		s.cronScheduler.RemoveJob(entryID)
	}
	s.cronScheduler.Stop()
}
