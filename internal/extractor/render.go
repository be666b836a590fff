package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/user/feed-ingest/internal/entity"
)

// RenderStrategy converts captured HTML to markdown through the render API's
// to-markdown endpoint. It operates on file-shaped requests only.
type RenderStrategy struct {
	client    *http.Client
	baseURL   string
	accountID string
	token     string
}

// NewRenderStrategy creates the render-to-markdown strategy.
func NewRenderStrategy(client *http.Client, baseURL, accountID, token string) *RenderStrategy {
	return &RenderStrategy{client: client, baseURL: baseURL, accountID: accountID, token: token}
}

func (s *RenderStrategy) Name() string { return "render" }

// Enabled requires both the account ID and the API token.
func (s *RenderStrategy) Enabled() bool {
	return s.accountID != "" && s.token != ""
}

type renderResponse struct {
	Result []struct {
		Format string `json:"format"`
		Data   string `json:"data"`
		Error  string `json:"error"`
	} `json:"result"`
}

func (s *RenderStrategy) Extract(ctx context.Context, req entity.ExtractionRequest) *entity.ExtractionResult {
	if req.File == nil {
		return nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, req.File.Name))
	header.Set("Content-Type", req.File.Type)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil
	}
	if _, err := part.Write(req.File.Data); err != nil {
		return nil
	}
	if err := writer.Close(); err != nil {
		return nil
	}

	endpoint := fmt.Sprintf("%s/accounts/%s/ai/tomarkdown", s.baseURL, s.accountID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.token)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(httpReq)
	if err != nil {
		slog.Debug("Render request failed", "file", req.File.Name, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("Render request returned non-2xx", "status", resp.StatusCode)
		return nil
	}

	var parsed renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		slog.Debug("Failed to decode render response", "error", err)
		return nil
	}

	if len(parsed.Result) == 0 {
		return nil
	}
	first := parsed.Result[0]
	if first.Format != "markdown" || first.Data == "" {
		return nil
	}

	return &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: first.Data}
}
