package jobs

import (
	"fmt"
	"log/slog"

	"orders/internal/core/application/ordercache"
	"orders/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	invalidationRetryJob *CacheInvalidationRetryJob
	sweepJob             *DeliveredOrdersSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	invalidator *ordercache.Invalidator,
	purgeHandler commands.PurgeDeliveredOrdersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		invalidationRetryJob: NewCacheInvalidationRetryJob(invalidator, logger),
		sweepJob:             NewDeliveredOrdersSweepJob(purgeHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.invalidationRetryJob.Start(); err != nil {
		return fmt.Errorf("failed to start cache invalidation retry job: %w", err)
	}

	if err := jm.sweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.invalidationRetryJob.Stop()
		return fmt.Errorf("failed to start delivered orders sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.sweepJob.Stop()
	jm.invalidationRetryJob.Stop()
}
