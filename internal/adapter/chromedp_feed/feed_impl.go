// Package chromedp_feed fetches subscriber feed pages with a headless
// browser. Feed pages are script-rendered and sit behind bot detection, so a
// plain GET is not enough to discover posts on them.
package chromedp_feed

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/internal/repository"
)

const collectEntriesJS = `
Array.from(document.querySelectorAll('article')).map((node) => {
	const link = node.querySelector('a[href*="/status/"]');
	const time = node.querySelector('time');
	const match = link ? link.href.match(/status\/(\d+)/) : null;
	return {
		tweetId: match ? match[1] : '',
		url: link ? link.href : '',
		postedAt: time ? (time.getAttribute('datetime') || '') : '',
	};
}).filter((e) => e.tweetId !== '')
`

const nextTokenJS = `
(() => {
	const next = document.querySelector('a[rel="next"]');
	if (!next) return '';
	const href = new URL(next.href);
	return href.searchParams.get('cursor') || '';
})()
`

type feedEntry struct {
	TweetID  string `json:"tweetId"`
	URL      string `json:"url"`
	PostedAt string `json:"postedAt"`
}

// FeedFetcher implements repository.FeedRepository using chromedp.
type FeedFetcher struct {
	allocatorPool *sync.Pool
	timeout       time.Duration
}

// NewFeedFetcher creates a new browser-backed feed fetcher.
func NewFeedFetcher(maxConcurrency int, pageLoadTimeout time.Duration) *FeedFetcher {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(`Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36`),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	// Pre-warm the pool.
	for i := 0; i < maxConcurrency; i++ {
		allocCtx := pool.Get().(context.Context)
		pool.Put(allocCtx)
	}

	return &FeedFetcher{allocatorPool: pool, timeout: pageLoadTimeout}
}

var _ repository.FeedRepository = (*FeedFetcher)(nil)

// FetchPage renders one page of the feed and collects the posts on it.
func (f *FeedFetcher) FetchPage(ctx context.Context, feedURL, pageToken string) (*entity.FeedPage, error) {
	target, err := pageURL(feedURL, pageToken)
	if err != nil {
		return nil, err
	}

	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, f.timeout)
	defer cancelTimeout()

	// Caller cancellation must stop the browser task too.
	go func() {
		select {
		case <-ctx.Done():
			cancelTimeout()
		case <-taskCtx.Done():
		}
	}()

	var entries []feedEntry
	var next string
	err = chromedp.Run(taskCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(collectEntriesJS, &entries),
		chromedp.Evaluate(nextTokenJS, &next),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render feed page %s: %w", target, err)
	}

	page := &entity.FeedPage{Next: next}
	for _, e := range entries {
		item := entity.FeedItem{TweetID: e.TweetID, URL: e.URL}
		if t, parseErr := time.Parse(time.RFC3339, e.PostedAt); parseErr == nil {
			item.PostedAt = t
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

func pageURL(feedURL, pageToken string) (string, error) {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return "", fmt.Errorf("invalid feed URL %q: %w", feedURL, err)
	}
	if pageToken != "" {
		q := parsed.Query()
		q.Set("cursor", pageToken)
		parsed.RawQuery = q.Encode()
	}
	return parsed.String(), nil
}
