// Package extractor normalizes external sources into markdown by trying a
// fixed chain of capability-gated strategies. Strategies absorb their own
// failures and report "no result" so the chain can fall through uniformly;
// nothing in this package raises for transient network conditions.
package extractor

import (
	"context"

	"github.com/user/feed-ingest/internal/entity"
)

// Strategy is one way of turning a source into normalized content.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	// Enabled reports whether the strategy's configuration (credentials,
	// endpoints) is present. Disabled strategies are never invoked and do
	// not count as attempts.
	Enabled() bool
	// Extract performs the network call. It returns nil on any failure:
	// non-2xx response, empty or invalid payload, missing expected fields,
	// or a cancelled context. It never returns a result with empty content.
	Extract(ctx context.Context, req entity.ExtractionRequest) *entity.ExtractionResult
}
