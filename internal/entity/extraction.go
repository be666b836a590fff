package entity

// ExtractionKind discriminates what a strategy produced.
type ExtractionKind string

const (
	KindMarkdown ExtractionKind = "markdown"
	KindHTML     ExtractionKind = "html"
)

// ExtractionRequest locates the content to extract: either a URL or an
// in-memory file, with an optional declared content type. Immutable, built
// once per extraction attempt.
type ExtractionRequest struct {
	URL         string
	File        *ExtractionFile
	ContentType string
}

// ExtractionFile is a file-shaped source, used when one strategy's HTML
// capture is carried into the next strategy.
type ExtractionFile struct {
	Name string
	Data []byte
	Type string
}

// ExtractionResult is what a strategy yields. Content is always non-empty;
// "no result" is a nil *ExtractionResult, never an empty-content value.
type ExtractionResult struct {
	Kind    ExtractionKind
	Content string
}
