package entity

import "time"

// FeedItem is one post discovered on a subscriber's feed page.
type FeedItem struct {
	TweetID  string
	URL      string
	PostedAt time.Time
}

// FeedPage is one page of a subscriber's feed plus the token for the next
// page; Next is empty at the end of the feed.
type FeedPage struct {
	Items []FeedItem
	Next  string
}
