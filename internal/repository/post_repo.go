package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/pkg/cursor"
)

// PostRepository defines the interface for storing and listing ingested posts.
type PostRepository interface {
	// Save stores a post. Re-ingesting the same (subscriber, tweet) pair
	// updates the existing row instead of creating a duplicate.
	Save(ctx context.Context, post *entity.Post) error
	// List returns one page of a subscriber's posts, newest first, starting
	// after the given cursor position. A nil cursor starts from the top. The
	// second return value reports whether more posts remain.
	List(ctx context.Context, subscriberID uuid.UUID, after *cursor.Payload, limit int) ([]entity.Post, bool, error)
}
