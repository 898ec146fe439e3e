// Package core defines the pipeline interfaces for docpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"time"
)

// DocumentMetadata holds caller-supplied metadata attached to an output
// document. Every field is optional.
type DocumentMetadata struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Generator   string    `json:"generator"`
}

// Format identifies an output pipeline.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDocx     Format = "docx"
	FormatXlsx     Format = "xlsx"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatDocx:
		return ".docx"
	case FormatXlsx:
		return ".xlsx"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	case FormatJSON:
		return ".json"
	}
	return ""
}

// Renderer converts Markdown (and metadata) into a final output format.
// Implementations are pure in-memory transformations: they never touch the
// file system and hold no state shared across Render calls, so distinct
// documents may be rendered concurrently on separate Renderer values.
type Renderer interface {
	Render(markdown string, meta DocumentMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// ImportResult is what an Importer produces: canonical Markdown plus
// whatever styling survived extraction, ready to be fed back into a
// Renderer for a round trip.
type ImportResult struct {
	Markdown string
	// Formatting is a JSON-serializable formatting record; typed as any to
	// keep this package free of a dependency on core/meta.
	Formatting any
	// Title discovered in the source document, if any.
	Title string
}

// Importer converts a foreign document (DOCX bytes, HTML, ...) into Markdown
// plus extracted formatting metadata. Extraction is best-effort: an input
// with no discoverable styling is not an error.
type Importer interface {
	Import(ctx context.Context, data []byte) (*ImportResult, error)
}

// ImageLoader resolves an image reference (path or URL as written in the
// source markdown) to raw encoded bytes. Renderers call it for every image
// they embed; a nil loader or a loader error degrades that one image to a
// textual placeholder without failing the render.
type ImageLoader func(src string) ([]byte, error)

// Fetcher retrieves a raw document body from a URL (used by the import
// pipeline for remote sources).
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// FetchResult holds the raw body and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       string
}
