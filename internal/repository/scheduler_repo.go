package repository

import (
	"context"
	"time"

	"github.com/user/feed-ingest/internal/entity"
)

// EnqueueOptions control a one-off job submission.
type EnqueueOptions struct {
	// Delay postpones execution by the given duration.
	Delay time.Duration
	// DedupID suppresses the submission when a job with the same ID was
	// enqueued recently.
	DedupID string
}

// SchedulerQueue defines the contract this service consumes from the durable
// queue. Implementations MUST make UpsertRecurring atomic: concurrent upserts
// of the same key must leave exactly one active schedule. The scheduler
// component performs no locking of its own and relies entirely on this
// guarantee.
type SchedulerQueue interface {
	// UpsertRecurring creates the recurring schedule for key, or replaces its
	// interval and payload if one already exists. Re-issuing an equivalent
	// upsert is a no-op and never produces a second schedule.
	UpsertRecurring(ctx context.Context, key string, every time.Duration, payload entity.ScrapeJobData) error
	// GetScheduled returns the active schedule for key, or nil when absent.
	GetScheduled(ctx context.Context, key string) (*entity.RecurringJobSpec, error)
	// RemoveScheduled deletes the recurring schedule for key. Removing an
	// absent key is not an error.
	RemoveScheduled(ctx context.Context, key string) error
	// Enqueue submits a one-off job.
	Enqueue(ctx context.Context, payload entity.ScrapeJobData, opts EnqueueOptions) error
}
