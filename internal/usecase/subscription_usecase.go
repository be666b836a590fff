package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/internal/repository"
	"github.com/user/feed-ingest/internal/scheduler"
)

// SubscriptionUsecase handles subscriber opt-in and opt-out.
type SubscriptionUsecase struct {
	subscriberRepo repository.SubscriberRepository
	sched          *scheduler.Scheduler
	interval       time.Duration
	limit          int
}

// NewSubscriptionUsecase creates a new SubscriptionUsecase.
func NewSubscriptionUsecase(subscriberRepo repository.SubscriberRepository, sched *scheduler.Scheduler, interval time.Duration, limit int) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subscriberRepo: subscriberRepo,
		sched:          sched,
		interval:       interval,
		limit:          limit,
	}
}

// Subscribe opts a subscriber in and ensures their recurring scrape schedule
// exists. It reports whether a new schedule was created, so the caller can
// tell the subscriber "started" apart from "already running". An existing
// schedule is an idempotent no-op, not an error.
func (uc *SubscriptionUsecase) Subscribe(ctx context.Context, id uuid.UUID, feedURL string) (bool, error) {
	key := scheduler.ScheduleKey(id)

	exists, err := uc.sched.HasSchedule(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	sub := &entity.Subscriber{ID: id, FeedURL: feedURL, CreatedAt: time.Now()}
	if err := uc.subscriberRepo.Save(ctx, sub); err != nil {
		return false, fmt.Errorf("failed to save subscriber %s: %w", id, err)
	}

	payload := entity.ScrapeJobData{SubscriberID: id, Limit: uc.limit}
	if err := uc.sched.EnsureSchedule(ctx, key, uc.interval, payload); err != nil {
		return false, err
	}
	return true, nil
}

// Unsubscribe removes the subscriber's recurring schedule. Already-ingested
// posts are kept.
func (uc *SubscriptionUsecase) Unsubscribe(ctx context.Context, id uuid.UUID) error {
	return uc.sched.RemoveSchedule(ctx, scheduler.ScheduleKey(id))
}
