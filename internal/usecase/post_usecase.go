package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/feed-ingest/internal/repository"
	"github.com/user/feed-ingest/pkg/cursor"
	"github.com/user/feed-ingest/pkg/externalid"
)

// PostView is a post as the API exposes it: the internal numeric keys are
// replaced by the opaque external ID.
type PostView struct {
	ExternalID string
	SourceURL  string
	Content    string
	CreatedAt  time.Time
}

// PostPage is one page of posts plus the cursor for the next page; NextCursor
// is empty on the last page.
type PostPage struct {
	Items      []PostView
	NextCursor string
}

// PostUsecase serves cursor-paginated post listings.
type PostUsecase struct {
	postRepo repository.PostRepository
	ids      *externalid.Codec
}

// NewPostUsecase creates a new PostUsecase.
func NewPostUsecase(postRepo repository.PostRepository, ids *externalid.Codec) *PostUsecase {
	return &PostUsecase{postRepo: postRepo, ids: ids}
}

// ListPosts returns one page of a subscriber's posts. A malformed cursor
// token decodes to nil and silently restarts from the beginning; cursors are
// convenience tokens, not a security boundary.
func (uc *PostUsecase) ListPosts(ctx context.Context, subscriberID uuid.UUID, cursorToken string, limit int) (*PostPage, error) {
	var after *cursor.Payload
	if cursorToken != "" {
		after = cursor.Decode(cursorToken)
	}

	posts, hasMore, err := uc.postRepo.List(ctx, subscriberID, after, limit)
	if err != nil {
		return nil, err
	}

	page := &PostPage{}
	for _, p := range posts {
		extID, err := uc.ids.Encode(p.TweetID, p.SubscriberID)
		if err != nil {
			// A stored tweet ID that fails to encode is corrupt data, not an
			// environmental condition.
			return nil, fmt.Errorf("failed to encode external id for post %d: %w", p.ID, err)
		}
		page.Items = append(page.Items, PostView{
			ExternalID: extID,
			SourceURL:  p.SourceURL,
			Content:    p.Content,
			CreatedAt:  p.CreatedAt,
		})
	}

	if hasMore && len(posts) > 0 {
		last := posts[len(posts)-1]
		page.NextCursor = cursor.Encode(cursor.Payload{
			LastTweetID: last.TweetID,
			CreatedAt:   last.CreatedAt,
		})
	}
	return page, nil
}
