package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/pkg/cursor"
)

// PostRepoImpl provides a concrete implementation for the PostRepository
// interface using PostgreSQL.
type PostRepoImpl struct {
	db *pgxpool.Pool
}

// NewPostRepo creates a new instance of PostRepoImpl.
func NewPostRepo(db *pgxpool.Pool) *PostRepoImpl {
	return &PostRepoImpl{db: db}
}

// Save stores or updates a post. Conflicts on (subscriber_id, tweet_id) are
// updates, so re-scraping a feed never duplicates posts.
func (r *PostRepoImpl) Save(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO posts (subscriber_id, tweet_id, source_url, content, created_at, ingested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subscriber_id, tweet_id) DO UPDATE SET
			source_url = EXCLUDED.source_url,
			content = EXCLUDED.content,
			ingested_at = EXCLUDED.ingested_at;
	`
	_, err := r.db.Exec(ctx, query,
		post.SubscriberID,
		post.TweetID,
		post.SourceURL,
		post.Content,
		post.CreatedAt,
		post.IngestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save post %s: %w", post.TweetID, err)
	}
	return nil
}

// List returns one page of posts newest-first using keyset pagination over
// (created_at, tweet_id). It fetches one extra row to detect whether more
// posts remain beyond this page.
func (r *PostRepoImpl) List(ctx context.Context, subscriberID uuid.UUID, after *cursor.Payload, limit int) ([]entity.Post, bool, error) {
	query := `
		SELECT id, subscriber_id, tweet_id, source_url, content, created_at, ingested_at
		FROM posts
		WHERE subscriber_id = $1
		ORDER BY created_at DESC, tweet_id DESC
		LIMIT $2;
	`
	args := []any{subscriberID, limit + 1}

	if after != nil {
		query = `
			SELECT id, subscriber_id, tweet_id, source_url, content, created_at, ingested_at
			FROM posts
			WHERE subscriber_id = $1
			  AND (created_at, tweet_id) < ($3, $4)
			ORDER BY created_at DESC, tweet_id DESC
			LIMIT $2;
		`
		args = append(args, after.CreatedAt, after.LastTweetID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []entity.Post
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(
			&p.ID,
			&p.SubscriberID,
			&p.TweetID,
			&p.SourceURL,
			&p.Content,
			&p.CreatedAt,
			&p.IngestedAt,
		); err != nil {
			return nil, false, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}
	return posts, hasMore, nil
}
