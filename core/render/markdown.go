// Package render — Markdown renderer.
// Markdown is already the canonical pipeline format, so rendering is a
// passthrough: metadata becomes a YAML front matter block and the body is
// emitted byte for byte.
package render

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/docpipe/core"
)

// MarkdownRenderer writes Markdown with a YAML front matter header.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

type frontMatter struct {
	Title       string `yaml:"title,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Date        string `yaml:"date,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Render returns the Markdown body unchanged, prefixed with front matter
// when any metadata field is set.
func (r *MarkdownRenderer) Render(markdown string, docMeta core.DocumentMetadata) ([]byte, error) {
	fm := frontMatter{
		Title:       docMeta.Title,
		Author:      docMeta.Author,
		Description: docMeta.Description,
	}
	if !docMeta.CreatedAt.IsZero() {
		fm.Date = docMeta.CreatedAt.Format(time.RFC3339)
	}
	if fm == (frontMatter{}) {
		return []byte(markdown), nil
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(markdown)
	return buf.Bytes(), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
