// Package scheduler maintains the per-subscriber recurring scrape schedules.
// The component itself is stateless: the registry of schedules lives in the
// durable queue, and "at most one active schedule per key" is an
// idempotent-upsert invariant delegated to the queue's atomic upsert. No
// application-level locking happens here.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/internal/repository"
)

// Retry policy applied by the queue to each firing of a scrape job. After the
// attempts are exhausted the firing is dead-lettered; the recurring schedule
// itself is untouched and fires again at its next interval.
const (
	MaxAttempts  = 3
	InitialDelay = 5 * time.Minute
)

// ScheduleKey derives the stable recurring-job key for a subscriber.
func ScheduleKey(subscriberID uuid.UUID) string {
	return fmt.Sprintf("scrapper-%s", subscriberID)
}

// Scheduler ensures recurring scrape jobs exist for opted-in subscribers.
type Scheduler struct {
	queue repository.SchedulerQueue
}

// New creates a Scheduler on top of the queue collaborator.
func New(queue repository.SchedulerQueue) *Scheduler {
	return &Scheduler{queue: queue}
}

// EnsureSchedule makes sure a recurring schedule exists for key. Calling it
// again for an existing key is a no-op; concurrent callers still end up with
// exactly one active schedule because the queue's upsert is atomic.
func (s *Scheduler) EnsureSchedule(ctx context.Context, key string, every time.Duration, payload entity.ScrapeJobData) error {
	if every <= 0 {
		return fmt.Errorf("invalid schedule interval %s for key %s", every, key)
	}

	if err := s.queue.UpsertRecurring(ctx, key, every, payload); err != nil {
		return fmt.Errorf("failed to upsert recurring job %s: %w", key, err)
	}

	slog.Debug("Recurring schedule ensured", "key", key, "every", every)
	return nil
}

// HasSchedule reports whether an active schedule exists for key. User-facing
// triggers check this first so they can tell the subscriber whether the
// collection just started or was already running.
func (s *Scheduler) HasSchedule(ctx context.Context, key string) (bool, error) {
	spec, err := s.queue.GetScheduled(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to look up schedule %s: %w", key, err)
	}
	return spec != nil, nil
}

// RemoveSchedule drops the recurring schedule for key on subscriber opt-out.
func (s *Scheduler) RemoveSchedule(ctx context.Context, key string) error {
	if err := s.queue.RemoveScheduled(ctx, key); err != nil {
		return fmt.Errorf("failed to remove schedule %s: %w", key, err)
	}
	return nil
}
