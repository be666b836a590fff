package extractor

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/feed-ingest/internal/entity"
	"github.com/user/feed-ingest/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

// fakeStrategy records the requests it receives and plays back canned results.
type fakeStrategy struct {
	name     string
	enabled  bool
	result   *entity.ExtractionResult
	requests []entity.ExtractionRequest
}

func (f *fakeStrategy) Name() string  { return f.name }
func (f *fakeStrategy) Enabled() bool { return f.enabled }

func (f *fakeStrategy) Extract(ctx context.Context, req entity.ExtractionRequest) *entity.ExtractionResult {
	f.requests = append(f.requests, req)
	return f.result
}

func TestPipelineMarkdownShortCircuits(t *testing.T) {
	fetch := &fakeStrategy{name: "fetch", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: "# Hi"}}
	render := &fakeStrategy{name: "render", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: "never"}}
	excerpt := &fakeStrategy{name: "excerpt", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: "never"}}

	p := NewPipeline(fetch, render, excerpt)
	content, ok := p.ExtractMarkdown(context.Background(), "https://example.com/post")

	assert.True(t, ok)
	assert.Equal(t, "# Hi", content)
	assert.Len(t, fetch.requests, 1)
	assert.Empty(t, render.requests)
	assert.Empty(t, excerpt.requests)
}

func TestPipelineHTMLFallsThroughToRender(t *testing.T) {
	fetch := &fakeStrategy{name: "fetch", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindHTML, Content: "<p>Hi</p>"}}
	render := &fakeStrategy{name: "render", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: "Hi"}}
	excerpt := &fakeStrategy{name: "excerpt", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: "never"}}

	p := NewPipeline(fetch, render, excerpt)
	content, ok := p.ExtractMarkdown(context.Background(), "https://example.com/post")

	assert.True(t, ok)
	assert.Equal(t, "Hi", content)

	// The render strategy gets the HTML capture as a file-shaped request.
	assert.Len(t, render.requests, 1)
	if assert.NotNil(t, render.requests[0].File) {
		assert.Equal(t, "page.html", render.requests[0].File.Name)
		assert.Equal(t, "text/html", render.requests[0].File.Type)
		assert.Equal(t, []byte("<p>Hi</p>"), render.requests[0].File.Data)
	}
	assert.Empty(t, excerpt.requests)
}

func TestPipelineDisabledRenderSkipsToExcerpt(t *testing.T) {
	fetch := &fakeStrategy{name: "fetch", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindHTML, Content: "<p>Hi</p>"}}
	render := &fakeStrategy{name: "render", enabled: false}
	excerpt := &fakeStrategy{name: "excerpt", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: "a\n\nb"}}

	p := NewPipeline(fetch, render, excerpt)
	content, ok := p.ExtractMarkdown(context.Background(), "https://example.com/post")

	assert.True(t, ok)
	assert.Equal(t, "a\n\nb", content)

	// Disabled strategies are never invoked, and the excerpt strategy gets
	// the original URL rather than the HTML capture.
	assert.Empty(t, render.requests)
	assert.Len(t, excerpt.requests, 1)
	assert.Equal(t, "https://example.com/post", excerpt.requests[0].URL)
	assert.Nil(t, excerpt.requests[0].File)
}

func TestPipelineExhaustionReturnsNothing(t *testing.T) {
	fetch := &fakeStrategy{name: "fetch", enabled: true, result: nil}
	render := &fakeStrategy{name: "render", enabled: false}
	excerpt := &fakeStrategy{name: "excerpt", enabled: true, result: nil}

	p := NewPipeline(fetch, render, excerpt)
	content, ok := p.ExtractMarkdown(context.Background(), "https://example.com/post")

	assert.False(t, ok)
	assert.Empty(t, content)
	assert.Len(t, excerpt.requests, 1)
}

func TestPipelineAllDisabled(t *testing.T) {
	fetch := &fakeStrategy{name: "fetch", enabled: false}
	render := &fakeStrategy{name: "render", enabled: false}
	excerpt := &fakeStrategy{name: "excerpt", enabled: false}

	p := NewPipeline(fetch, render, excerpt)
	content, ok := p.ExtractMarkdown(context.Background(), "https://example.com/post")

	assert.False(t, ok)
	assert.Empty(t, content)
	assert.Empty(t, fetch.requests)
}

func TestPipelineCancellationYieldsNoResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetch := &fakeStrategy{name: "fetch", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindHTML, Content: "<p>Hi</p>"}}
	render := &fakeStrategy{name: "render", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: "late"}}
	excerpt := &fakeStrategy{name: "excerpt", enabled: true, result: &entity.ExtractionResult{Kind: entity.KindMarkdown, Content: "late"}}

	p := NewPipeline(fetch, render, excerpt)
	content, ok := p.ExtractMarkdown(ctx, "https://example.com/post")

	assert.False(t, ok)
	assert.Empty(t, content)
	// The chain stops at the first suspension point after cancellation.
	assert.Empty(t, render.requests)
	assert.Empty(t, excerpt.requests)
}
