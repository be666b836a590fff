package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/internal/repository"
	"github.com/user/feed-ingest/pkg/metrics"
)

// MarkdownExtractor is the extraction pipeline as the scrape job sees it:
// markdown or nothing.
type MarkdownExtractor interface {
	ExtractMarkdown(ctx context.Context, url string) (string, bool)
}

// ScrapeUsecase executes one firing of a subscriber's scrape job: fetch a
// feed page, extract every discovered post, persist the results, and chase
// the next page until the per-run limit or the end of the feed.
type ScrapeUsecase struct {
	subscriberRepo repository.SubscriberRepository
	feedRepo       repository.FeedRepository
	postRepo       repository.PostRepository
	queue          repository.SchedulerQueue
	pipeline       MarkdownExtractor
	pageDelay      time.Duration
}

// NewScrapeUsecase creates a new ScrapeUsecase.
func NewScrapeUsecase(
	subscriberRepo repository.SubscriberRepository,
	feedRepo repository.FeedRepository,
	postRepo repository.PostRepository,
	queue repository.SchedulerQueue,
	pipeline MarkdownExtractor,
	pageDelay time.Duration,
) *ScrapeUsecase {
	return &ScrapeUsecase{
		subscriberRepo: subscriberRepo,
		feedRepo:       feedRepo,
		postRepo:       postRepo,
		queue:          queue,
		pipeline:       pipeline,
		pageDelay:      pageDelay,
	}
}

// HandleScrapeJob processes one page of the subscriber's feed. Errors
// returned here feed the queue's retry policy; per-post extraction failures
// are absorbed so one dead link never fails the whole page.
func (uc *ScrapeUsecase) HandleScrapeJob(ctx context.Context, data entity.ScrapeJobData) error {
	slog.Info("Scraping feed page", "subscriber_id", data.SubscriberID, "cursor", data.Cursor, "count", data.Count)

	sub, err := uc.subscriberRepo.FindByID(ctx, data.SubscriberID)
	if err != nil {
		return fmt.Errorf("failed to load subscriber %s: %w", data.SubscriberID, err)
	}

	page, err := uc.feedRepo.FetchPage(ctx, sub.FeedURL, data.Cursor)
	if err != nil {
		return fmt.Errorf("failed to fetch feed page for %s: %w", data.SubscriberID, err)
	}

	saved := 0
	for _, item := range page.Items {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		content, ok := uc.pipeline.ExtractMarkdown(ctx, item.URL)
		if !ok {
			slog.Debug("No content extracted for feed item", "tweet_id", item.TweetID, "url", item.URL)
			continue
		}

		createdAt := item.PostedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		post := &entity.Post{
			SubscriberID: data.SubscriberID,
			TweetID:      item.TweetID,
			SourceURL:    item.URL,
			Content:      content,
			CreatedAt:    createdAt,
			IngestedAt:   time.Now(),
		}
		if err := uc.postRepo.Save(ctx, post); err != nil {
			slog.Error("Failed to save post", "tweet_id", item.TweetID, "error", err)
			continue
		}
		metrics.PostsIngestedTotal.Inc()
		saved++
	}

	data.Count += len(page.Items)
	slog.Info("Scraped feed page", "subscriber_id", data.SubscriberID, "items", len(page.Items), "saved", saved, "count", data.Count)

	if data.Count >= data.Limit || page.Next == "" {
		slog.Info("Stopping scrape run", "subscriber_id", data.SubscriberID, "count", data.Count, "limit", data.Limit)
		return nil
	}

	next := entity.ScrapeJobData{
		SubscriberID: data.SubscriberID,
		Count:        data.Count,
		Limit:        data.Limit,
		Cursor:       page.Next,
	}
	err = uc.queue.Enqueue(ctx, next, repository.EnqueueOptions{
		Delay:   uc.pageDelay,
		DedupID: fmt.Sprintf("scrapper-%s-%s", data.SubscriberID, page.Next),
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue next feed page: %w", err)
	}
	return nil
}
