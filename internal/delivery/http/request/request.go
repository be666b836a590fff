package request

// SubscribeRequest is the opt-in payload.
type SubscribeRequest struct {
	SubscriberID string `json:"subscriber_id"`
	FeedURL      string `json:"feed_url"`
}
