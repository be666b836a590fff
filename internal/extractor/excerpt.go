package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/feed-ingest/internal/entity"
)

// ExcerptStrategy asks the excerpt API for a handful of representative
// excerpts of the page. It is the most expensive fallback and is always
// called with the original source URL, never with captured HTML.
type ExcerptStrategy struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewExcerptStrategy creates the excerpt-extraction strategy.
func NewExcerptStrategy(client *http.Client, baseURL, apiKey string) *ExcerptStrategy {
	return &ExcerptStrategy{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (s *ExcerptStrategy) Name() string { return "excerpt" }

// Enabled requires the API key.
func (s *ExcerptStrategy) Enabled() bool { return s.apiKey != "" }

type excerptRequest struct {
	URLs        []string `json:"urls"`
	Objective   string   `json:"objective"`
	FullContent bool     `json:"full_content"`
	Excerpts    bool     `json:"excerpts"`
}

type excerptResponse struct {
	Results []struct {
		URL      string   `json:"url"`
		Excerpts []string `json:"excerpts"`
	} `json:"results"`
}

func (s *ExcerptStrategy) Extract(ctx context.Context, req entity.ExtractionRequest) *entity.ExtractionResult {
	payload := excerptRequest{
		URLs:        []string{req.URL},
		Objective:   "Extract the main topic, key points, and a brief summary of the page content",
		FullContent: false,
		Excerpts:    true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1beta/extract", bytes.NewReader(body))
	if err != nil {
		return nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		slog.Debug("Excerpt request failed", "url", req.URL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("Excerpt request returned non-2xx", "url", req.URL, "status", resp.StatusCode)
		return nil
	}

	var parsed excerptResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		slog.Debug("Failed to decode excerpt response", "url", req.URL, "error", err)
		return nil
	}

	if len(parsed.Results) == 0 || len(parsed.Results[0].Excerpts) == 0 {
		return nil
	}

	content := strings.Join(parsed.Results[0].Excerpts, "\n\n")
	if content == "" {
		return nil
	}

	return &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: content}
}
