package service

import (
	"context"
)

// SchedulerService defines the interface for the periodic alert re-check.
type SchedulerService interface {
	// Start runs one poll immediately and then registers the periodic job.
	Start(ctx context.Context) error
	// Tick runs a single poll and publishes any alerts to the feed.
	Tick(ctx context.Context)
	// Stop removes the periodic job and stops the underlying scheduler.
	Stop()
}
