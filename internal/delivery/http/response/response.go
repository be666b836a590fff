package response

import "time"

// PostResponse is a post as served by the listing API. The ID is the opaque
// external identifier; internal numeric keys are never exposed.
type PostResponse struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"source_url"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostListResponse is one page of posts. NextCursor is omitted on the last
// page.
type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// SubscribeResponse reports whether the opt-in started a new collection or
// one was already running.
type SubscribeResponse struct {
	Status  string `json:"status"` // "scheduled" or "already_scheduled"
	Message string `json:"message"`
}
