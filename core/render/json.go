// Package render — JSON renderer.
// Builds the structured JSON output from the parsed block tree: plain text,
// the original Markdown, per-heading sections, and structural counts.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/meta"
)

// DocumentJSON is the full structured output.
type DocumentJSON struct {
	Metadata  core.DocumentMetadata `json:"metadata"`
	Content   DocumentContent       `json:"content"`
	Structure mdast.Structure       `json:"structure"`
}

// DocumentContent holds the content in several granularities.
type DocumentContent struct {
	Text     string    `json:"text"`
	Markdown string    `json:"markdown"`
	Sections []Section `json:"sections"`
}

// Section is the text between one heading and the next.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// JSONRenderer produces structured JSON output from Markdown.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts Markdown and metadata into the JSON structure.
func (r *JSONRenderer) Render(markdown string, docMeta core.DocumentMetadata) ([]byte, error) {
	doc, err := mdast.Parse(markdown, meta.DefaultFor(core.FormatJSON).ParamsFor(core.FormatJSON).Styles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRenderingFailed, err)
	}

	out := DocumentJSON{
		Metadata: docMeta,
		Content: DocumentContent{
			Text:     plainText(doc.Blocks),
			Markdown: markdown,
			Sections: buildSections(doc.Blocks),
		},
		Structure: doc.Structure,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// buildSections groups block text under the heading that precedes it.
// Content before the first heading belongs to no section.
func buildSections(blocks []mdast.Block) []Section {
	var sections []Section
	var cur *Section
	var lines []string

	flush := func() {
		if cur != nil {
			cur.Text = strings.TrimSpace(strings.Join(lines, "\n"))
			sections = append(sections, *cur)
		}
		lines = nil
	}
	for _, blk := range blocks {
		if h, ok := blk.(*mdast.Heading); ok {
			flush()
			cur = &Section{Heading: mdast.PlainText(h.Runs), Level: h.Level}
			continue
		}
		if cur != nil {
			if text := blockText(blk); text != "" {
				lines = append(lines, text)
			}
		}
	}
	flush()
	return sections
}

func plainText(blocks []mdast.Block) string {
	var parts []string
	for _, blk := range blocks {
		if h, ok := blk.(*mdast.Heading); ok {
			parts = append(parts, mdast.PlainText(h.Runs))
			continue
		}
		if text := blockText(blk); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func blockText(blk mdast.Block) string {
	switch blk := blk.(type) {
	case *mdast.Paragraph:
		return mdast.PlainText(blk.Runs)
	case *mdast.CodeBlock:
		return strings.TrimRight(blk.Text, "\n")
	case *mdast.List:
		var sb []string
		for _, item := range listTexts(blk) {
			sb = append(sb, item)
		}
		return strings.Join(sb, "\n")
	case *mdast.Table:
		var rows []string
		rows = append(rows, cellLine(blk.Header))
		for _, row := range blk.Rows {
			rows = append(rows, cellLine(row))
		}
		return strings.Join(rows, "\n")
	case *mdast.BlockQuote:
		var parts []string
		for _, child := range blk.Children {
			if text := blockText(child); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	case *mdast.Image:
		return mdast.ImagePlaceholder(blk.Alt, blk.Source)
	}
	return ""
}

func listTexts(l *mdast.List) []string {
	var out []string
	for _, item := range l.Items {
		out = append(out, mdast.PlainText(item.Runs))
		if item.Sub != nil {
			out = append(out, listTexts(item.Sub)...)
		}
	}
	return out
}

func cellLine(cells []mdast.Cell) string {
	texts := make([]string, len(cells))
	for i, c := range cells {
		texts[i] = c.Plain
	}
	return strings.Join(texts, " | ")
}
