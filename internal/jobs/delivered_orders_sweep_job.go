package jobs

import (
	"context"
	"log/slog"

	"orders/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DeliveredOrdersSweepJob removes delivered orders that are still persisted.
// Runs at the start of every minute.
type DeliveredOrdersSweepJob struct {
	handler commands.PurgeDeliveredOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDeliveredOrdersSweepJob creates a new job for purging delivered orders.
func NewDeliveredOrdersSweepJob(handler commands.PurgeDeliveredOrdersCommandHandler, logger *slog.Logger) *DeliveredOrdersSweepJob {
	return &DeliveredOrdersSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "delivered_orders_sweep_job"),
	}
}

// Start begins the sweep to run every minute.
func (j *DeliveredOrdersSweepJob) Start() error {
	if _, err := j.cron.AddFunc("0 * * * * *", func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivered orders sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *DeliveredOrdersSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Delivered orders sweep job stopped")
}

func (j *DeliveredOrdersSweepJob) run(ctx context.Context) {
	purged, err := j.handler.Handle(ctx, commands.NewPurgeDeliveredOrdersCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivered orders sweep failed", "error", err)
		return
	}
	if purged > 0 {
		j.logger.WarnContext(ctx, "Purged delivered orders left in the store", "count", purged)
	}
}
