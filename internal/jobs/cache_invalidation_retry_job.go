package jobs

import (
	"context"
	"log/slog"

	"orders/internal/core/application/ordercache"

	"github.com/robfig/cron/v3"
)

// CacheInvalidationRetryJob retries cache deletions that failed after a commit.
// Runs every 5 seconds; until it succeeds the TTL bounds how stale a key can get.
type CacheInvalidationRetryJob struct {
	invalidator *ordercache.Invalidator
	cron        *cron.Cron
	logger      *slog.Logger
}

func NewCacheInvalidationRetryJob(invalidator *ordercache.Invalidator, logger *slog.Logger) *CacheInvalidationRetryJob {
	return &CacheInvalidationRetryJob{
		invalidator: invalidator,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "cache_invalidation_retry_job"),
	}
}

// Start schedules the retry every 5 seconds.
func (j *CacheInvalidationRetryJob) Start() error {
	if _, err := j.cron.AddFunc("*/5 * * * * *", func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cache invalidation retry job started (running every 5 seconds)")
	return nil
}

// Stop stops the job and waits for a running retry to finish.
func (j *CacheInvalidationRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Cache invalidation retry job stopped")
}

func (j *CacheInvalidationRetryJob) run(ctx context.Context) {
	if _, err := j.invalidator.RetryPending(ctx); err != nil {
		j.logger.WarnContext(ctx, "Cache invalidation retry failed", "pending", j.invalidator.Pending(), "error", err)
	}
}
