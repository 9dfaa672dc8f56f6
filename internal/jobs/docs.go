// Package jobs provides scheduled background tasks for the orders service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Both jobs repair state that the request path could not settle on its own.
//
// # Available Jobs
//
// 1. CacheInvalidationRetryJob - Runs every 5 seconds and deletes cache keys whose
// invalidation failed after a committed write
// 2. DeliveredOrdersSweepJob - Runs every minute and deletes delivered orders,
// with their items, that are still persisted
//
// # Usage
//
//	jobManager := jobs.NewJobManager(invalidator, purgeHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failures are logged and retried on the next tick. A failed start stops the
// jobs that were already running.
package jobs
