package extractor

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/pkg/metrics"
)

// Pipeline runs the strategy chain in fixed priority order: direct fetch,
// then render-to-markdown on the captured HTML, then excerpt extraction on
// the original URL. Strategies run strictly sequentially and at most once per
// request; speculative or concurrent attempts would burn calls against paid,
// rate-limited backends. Retrying is the job layer's concern, not the
// pipeline's.
//
// The pipeline holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	fetch   Strategy
	render  Strategy
	excerpt Strategy
}

// NewPipeline wires the three strategies in their priority order.
func NewPipeline(fetch, render, excerpt Strategy) *Pipeline {
	return &Pipeline{fetch: fetch, render: render, excerpt: excerpt}
}

// ExtractMarkdown turns a source URL into markdown, or reports that no
// enabled strategy could produce content. Cancellation of ctx propagates into
// every network call and always yields "no result", never a partial one.
func (p *Pipeline) ExtractMarkdown(ctx context.Context, url string) (string, bool) {
	start := time.Now()
	content, ok := p.run(ctx, url)

	outcome := "none"
	if ok {
		outcome = "markdown"
	}
	metrics.ExtractionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return content, ok
}

func (p *Pipeline) run(ctx context.Context, url string) (string, bool) {
	var captured *entity.ExtractionResult

	if p.fetch.Enabled() {
		res := p.fetch.Extract(ctx, entity.ExtractionRequest{URL: url})
		p.observe(p.fetch, res)

		if res != nil && res.Kind == entity.KindMarkdown {
			// A dedicated markdown source is authoritative.
			return res.Content, true
		}
		captured = res
	}

	if ctx.Err() != nil {
		return "", false
	}

	if captured != nil && captured.Kind == entity.KindHTML && p.render.Enabled() {
		res := p.render.Extract(ctx, entity.ExtractionRequest{
			File: &entity.ExtractionFile{
				Name: "page.html",
				Data: []byte(captured.Content),
				Type: "text/html",
			},
		})
		p.observe(p.render, res)

		if res != nil {
			return res.Content, true
		}
	}

	if ctx.Err() != nil {
		return "", false
	}

	if p.excerpt.Enabled() {
		// The excerpt backend fetches the page itself, so it gets the
		// original URL rather than the HTML capture.
		res := p.excerpt.Extract(ctx, entity.ExtractionRequest{URL: url})
		p.observe(p.excerpt, res)

		if res != nil {
			return res.Content, true
		}
	}

	slog.Debug("No strategy produced content", "url", url)
	return "", false
}

func (p *Pipeline) observe(s Strategy, res *entity.ExtractionResult) {
	outcome := "none"
	if res != nil {
		outcome = string(res.Kind)
	}
	metrics.ExtractionsTotal.WithLabelValues(s.Name(), outcome).Inc()
}
