// Package render — plain text renderer.
// Strips all styling and lays the block tree out as wrapped-free text:
// headings get setext-style underlines, lists keep their markers, tables
// keep their box-drawing grid.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/layout"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/meta"
	"github.com/gaurav-prasanna/docpipe/core/style"
)

// TextRenderer renders Markdown as plain text.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render converts Markdown into plain text bytes.
func (r *TextRenderer) Render(markdown string, docMeta core.DocumentMetadata) ([]byte, error) {
	doc, err := mdast.Parse(markdown, meta.DefaultFor(core.FormatText).ParamsFor(core.FormatText).Styles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRenderingFailed, err)
	}

	var sb strings.Builder
	if docMeta.Title != "" {
		writeUnderlined(&sb, docMeta.Title, '=')
	}
	writeBlocks(&sb, doc.Blocks, "")
	return []byte(strings.TrimRight(sb.String(), "\n") + "\n"), nil
}

// Extension returns the file extension for plain text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}

func writeBlocks(sb *strings.Builder, blocks []mdast.Block, prefix string) {
	for _, blk := range blocks {
		switch blk := blk.(type) {
		case *mdast.Paragraph:
			writePrefixed(sb, mdast.PlainText(blk.Runs), prefix)
			sb.WriteString("\n")
		case *mdast.Heading:
			text := mdast.PlainText(blk.Runs)
			if prefix == "" && blk.Level <= 2 {
				mark := byte('=')
				if blk.Level == 2 {
					mark = '-'
				}
				writeUnderlined(sb, text, rune(mark))
			} else {
				writePrefixed(sb, text, prefix)
				sb.WriteString("\n")
			}
		case *mdast.CodeBlock:
			for _, line := range codeLines(blk.Text) {
				sb.WriteString(prefix + "    " + line + "\n")
			}
			sb.WriteString("\n")
		case *mdast.List:
			for _, line := range layout.LayoutList(blk, 0) {
				pad := strings.Repeat("  ", line.Indent)
				sb.WriteString(prefix + pad + line.Marker + " " + mdast.PlainText(line.Runs) + "\n")
			}
			sb.WriteString("\n")
		case *mdast.Table:
			for _, line := range layout.LayoutTable(blk, style.Style{}).Lines {
				sb.WriteString(prefix + line.Plain() + "\n")
			}
			sb.WriteString("\n")
		case *mdast.BlockQuote:
			writeBlocks(sb, blk.Children, prefix+"> ")
		case *mdast.ThematicBreak:
			sb.WriteString(prefix + strings.Repeat("-", 40) + "\n\n")
		case *mdast.Image:
			writePrefixed(sb, mdast.ImagePlaceholder(blk.Alt, blk.Source), prefix)
			sb.WriteString("\n")
		}
	}
}

func writePrefixed(sb *strings.Builder, text, prefix string) {
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString(prefix + line + "\n")
	}
}

func writeUnderlined(sb *strings.Builder, text string, mark rune) {
	sb.WriteString(text + "\n")
	sb.WriteString(strings.Repeat(string(mark), utf8.RuneCountInString(text)) + "\n\n")
}
