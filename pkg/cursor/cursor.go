// Package cursor implements the opaque pagination token used by the listing
// API: a base64url (no padding) encoding of a small JSON payload. Cursors are
// unauthenticated convenience tokens, not a security boundary; any token that
// does not decode cleanly is treated as no cursor at all.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Payload is what a cursor carries: where the previous page left off.
type Payload struct {
	LastTweetID string    `json:"lastTweetId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Encode serializes the payload into an opaque token.
func Encode(p Payload) string {
	raw, err := json.Marshal(p)
	if err != nil {
		// Payload is a fixed struct of marshalable fields; this cannot fail.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode reverses Encode. It returns nil for anything that is not a product
// of Encode: invalid base64url, invalid JSON, wrong field types, or a missing
// last-item ID. It never panics; callers treat nil as "start from the top".
func Decode(token string) *Payload {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	if p.LastTweetID == "" {
		return nil
	}
	return &p
}
