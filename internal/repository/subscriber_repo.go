package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/user/feed-ingest/internal/entity"
)

var ErrSubscriberNotFound = errors.New("subscriber not found")

// SubscriberRepository defines the interface for opted-in subscribers.
type SubscriberRepository interface {
	// Save stores a subscriber. Saving an existing ID updates the feed URL.
	Save(ctx context.Context, sub *entity.Subscriber) error
	// FindByID returns ErrSubscriberNotFound when the ID is unknown.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscriber, error)
}
