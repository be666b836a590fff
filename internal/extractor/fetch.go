package extractor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/feed-ingest/internal/entity"
)

// FetchStrategy issues a direct GET against the source URL asking for a
// markdown representation. Sources that serve markdown natively are
// authoritative; anything else is captured as HTML for the next strategy.
type FetchStrategy struct {
	client *http.Client
}

// NewFetchStrategy creates the direct-fetch strategy.
func NewFetchStrategy(client *http.Client) *FetchStrategy {
	return &FetchStrategy{client: client}
}

func (s *FetchStrategy) Name() string { return "fetch" }

// Enabled is always true: a direct GET needs no credentials.
func (s *FetchStrategy) Enabled() bool { return true }

func (s *FetchStrategy) Extract(ctx context.Context, req entity.ExtractionRequest) *entity.ExtractionResult {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		slog.Debug("Invalid source URL", "url", req.URL, "error", err)
		return nil
	}
	httpReq.Header.Set("Accept", "text/markdown")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		slog.Debug("Direct fetch failed", "url", req.URL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("Direct fetch returned non-2xx", "url", req.URL, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("Failed to read direct fetch body", "url", req.URL, "error", err)
		return nil
	}
	if len(body) == 0 {
		return nil
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/markdown") {
		return &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: string(body)}
	}

	return &entity.ExtractionResult{Kind: entity.KindHTML, Content: string(body)}
}
