package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/internal/repository"
)

// SubscriberRepoImpl provides a concrete implementation for the
// SubscriberRepository interface using PostgreSQL.
type SubscriberRepoImpl struct {
	db *pgxpool.Pool
}

// NewSubscriberRepo creates a new instance of SubscriberRepoImpl.
func NewSubscriberRepo(db *pgxpool.Pool) *SubscriberRepoImpl {
	return &SubscriberRepoImpl{db: db}
}

// Save stores or updates a subscriber.
func (r *SubscriberRepoImpl) Save(ctx context.Context, sub *entity.Subscriber) error {
	query := `
		INSERT INTO subscribers (id, feed_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET feed_url = EXCLUDED.feed_url;
	`
	if _, err := r.db.Exec(ctx, query, sub.ID, sub.FeedURL, sub.CreatedAt); err != nil {
		return fmt.Errorf("failed to save subscriber %s: %w", sub.ID, err)
	}
	return nil
}

// FindByID retrieves a subscriber, or ErrSubscriberNotFound.
func (r *SubscriberRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscriber, error) {
	query := `SELECT id, feed_url, created_at FROM subscribers WHERE id = $1;`

	var sub entity.Subscriber
	err := r.db.QueryRow(ctx, query, id).Scan(&sub.ID, &sub.FeedURL, &sub.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrSubscriberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscriber %s: %w", id, err)
	}
	return &sub, nil
}
