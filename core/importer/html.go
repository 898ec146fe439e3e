// HTML → Markdown importer.
// Isolates the main content from a full HTML page, then converts the
// cleaned fragment into Markdown, the canonical pipeline format.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/meta"
)

// noiseSelectors are HTML elements removed before extraction. These
// contribute no meaningful content to the page text.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// HTMLImporter strips noise from HTML and converts the main content
// fragment to Markdown.
type HTMLImporter struct{}

// NewHTMLImporter creates an HTMLImporter.
func NewHTMLImporter() *HTMLImporter {
	return &HTMLImporter{}
}

// Import extracts the main content and converts it. Images survive the
// conversion; whether they render later depends on the output format.
func (i *HTMLImporter) Import(ctx context.Context, data []byte) (*core.ImportResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", core.ErrInvalidInput, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	// Best content container in priority order: <main> is the most
	// semantically precise, then <article>, then <body>.
	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return nil, fmt.Errorf("%w: no content container found", core.ErrInvalidInput)
	}

	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("serializing content: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}

	f := &meta.Formatting{
		SourceFormat:  "html",
		HasTables:     doc.Find("table").Length() > 0,
		HasImages:     doc.Find("img").Length() > 0,
		HasCodeBlocks: doc.Find("pre").Length() > 0,
	}

	return &core.ImportResult{
		Markdown:   strings.TrimSpace(markdown) + "\n",
		Formatting: f,
		Title:      title,
	}, nil
}
