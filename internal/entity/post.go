package entity

import (
	"time"

	"github.com/google/uuid"
)

// Post mirrors the `posts` PostgreSQL table schema: one ingested feed item,
// normalized to markdown. TweetID is the raw numeric source identifier kept
// as a digit string since it can exceed what an int64 holds.
type Post struct {
	ID           int64
	SubscriberID uuid.UUID
	TweetID      string
	SourceURL    string
	Content      string
	CreatedAt    time.Time
	IngestedAt   time.Time
}

// Subscriber is an opted-in user whose feed is scraped on a recurring
// schedule.
type Subscriber struct {
	ID        uuid.UUID
	FeedURL   string
	CreatedAt time.Time
}
