package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScrapeJobData is the payload carried by both the recurring scrape schedule
// and the follow-up page jobs it spawns.
type ScrapeJobData struct {
	SubscriberID uuid.UUID `json:"subscriberId"`
	Count        int       `json:"count"`
	Limit        int       `json:"limit"`
	Cursor       string    `json:"cursor,omitempty"`
}

// RecurringJobSpec describes one recurring schedule in the queue: at most one
// active spec exists per key at any time.
type RecurringJobSpec struct {
	Key        string        `json:"key"`
	Every      time.Duration `json:"every"`
	Payload    ScrapeJobData `json:"payload"`
	NextFireAt time.Time     `json:"nextFireAt"`
}
