package repository

import (
	"context"

	"github.com/user/feed-ingest/internal/entity"
)

// FeedRepository defines the contract for fetching one page of a subscriber's
// feed and discovering the posts on it.
type FeedRepository interface {
	// FetchPage loads the feed at feedURL. pageToken is the continuation
	// token from a previous page; empty means the first page.
	FetchPage(ctx context.Context, feedURL, pageToken string) (*entity.FeedPage, error)
}
