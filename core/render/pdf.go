// Package render provides the output renderers for the docpipe pipeline.
// This file implements the PDF renderer: Markdown is parsed into a styled
// block tree, flowed onto fixed-size pages, and drawn through the gofpdf
// canvas.
package render

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/canvas"
	"github.com/gaurav-prasanna/docpipe/core/flow"
	"github.com/gaurav-prasanna/docpipe/core/layout"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/meta"
	"github.com/gaurav-prasanna/docpipe/core/style"
)

// PDFRenderer renders Markdown as a paginated PDF document.
type PDFRenderer struct {
	params meta.Params
	loader core.ImageLoader
}

// NewPDFRenderer creates a PDF renderer with the given encoding parameters.
// loader may be nil; every image then renders as a placeholder.
func NewPDFRenderer(params meta.Params, loader core.ImageLoader) *PDFRenderer {
	return &PDFRenderer{params: params, loader: loader}
}

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, docMeta core.DocumentMetadata) ([]byte, error) {
	doc, err := mdast.Parse(markdown, r.params.Styles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRenderingFailed, err)
	}

	c := canvas.New(r.params.Geometry, r.params.LineSpacing, r.params.Background)
	c.SetMetadata(docMeta.Title, docMeta.Author, docMeta.Subject, docMeta.CreatedAt)

	blocks := append(r.metaBlocks(docMeta), r.drawables(doc.Blocks, 0)...)

	if _, err := flow.Flow(c, blocks, r.params.Geometry); err != nil {
		return nil, err
	}
	return c.Finish()
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// metaBlocks renders the document header: the title as a level-1 heading
// and a muted byline with author, subject, and generator. Both are ordinary
// blocks, so they paginate like everything else.
func (r *PDFRenderer) metaBlocks(docMeta core.DocumentMetadata) []flow.Drawable {
	var blocks []flow.Drawable
	if docMeta.Title != "" {
		st := r.params.Styles.Heading(1)
		blocks = append(blocks, &canvas.Text{
			Runs:       []mdast.Run{{Text: docMeta.Title, Style: st}},
			SpaceAfter: st.SizePt * 0.4,
		})
	}

	var parts []string
	if docMeta.Author != "" {
		parts = append(parts, docMeta.Author)
	}
	if docMeta.Subject != "" {
		parts = append(parts, docMeta.Subject)
	}
	if !docMeta.CreatedAt.IsZero() {
		parts = append(parts, docMeta.CreatedAt.Format("2006-01-02"))
	}
	if docMeta.Generator != "" {
		parts = append(parts, docMeta.Generator)
	}
	if len(parts) > 0 {
		byline := r.params.Styles.Body.WithItalic().WithSize(9)
		byline.TextColor = style.Color{R: 0.4, G: 0.4, B: 0.4, A: 1}
		blocks = append(blocks, &canvas.Text{
			Runs:       []mdast.Run{{Text: strings.Join(parts, " · "), Style: byline}},
			SpaceAfter: 12,
		})
	}
	return blocks
}

// drawables converts the block tree into canvas drawables. quoteDepth
// indents and bars text that sits inside block quotes.
func (r *PDFRenderer) drawables(blocks []mdast.Block, quoteDepth int) []flow.Drawable {
	body := r.params.Styles.Body
	indent := float64(quoteDepth) * 14
	bar := quoteDepth > 0

	var out []flow.Drawable
	for _, blk := range blocks {
		switch blk := blk.(type) {
		case *mdast.Paragraph:
			out = append(out, &canvas.Text{
				Runs: blk.Runs, Indent: indent, QuoteBar: bar,
				SpaceAfter: body.SizePt * 0.5,
			})
		case *mdast.Heading:
			st := r.params.Styles.Heading(blk.Level)
			out = append(out, &canvas.Text{
				Runs: blk.Runs, Indent: indent, QuoteBar: bar,
				SpaceBefore: st.SizePt * 0.4,
				SpaceAfter:  st.SizePt * 0.2,
			})
		case *mdast.CodeBlock:
			out = append(out, &canvas.Code{
				Lines: codeLines(blk.Text),
				Style: body.WithMonospace(r.params.Styles.MonoFamily),
			})
		case *mdast.List:
			lines := layout.LayoutList(blk, 0)
			for i, line := range lines {
				d := &canvas.Text{
					Marker: &mdast.Run{Text: line.Marker + " ", Style: body},
					Runs:   line.Runs,
					Indent: indent + float64(line.Indent+1)*16,
				}
				if i == len(lines)-1 {
					d.SpaceAfter = body.SizePt * 0.5
				}
				out = append(out, d)
			}
		case *mdast.Table:
			grid := layout.LayoutTable(blk, body)
			out = append(out, &canvas.Table{
				Grid:  grid,
				Style: body.WithMonospace(r.params.Styles.MonoFamily),
			})
		case *mdast.BlockQuote:
			out = append(out, r.drawables(blk.Children, quoteDepth+1)...)
		case *mdast.ThematicBreak:
			out = append(out, &canvas.Rule{})
		case *mdast.Image:
			out = append(out, r.imageDrawable(blk, indent, bar))
		}
	}
	return out
}

// imageDrawable loads and decodes the image; any failure degrades to the
// textual placeholder so the rest of the document still renders.
func (r *PDFRenderer) imageDrawable(img *mdast.Image, indent float64, bar bool) flow.Drawable {
	placeholder := &canvas.Text{
		Runs: []mdast.Run{{
			Text:  mdast.ImagePlaceholder(img.Alt, img.Source),
			Style: r.params.Styles.Body.WithItalic(),
		}},
		Indent: indent, QuoteBar: bar,
		SpaceAfter: r.params.Styles.Body.SizePt * 0.5,
	}
	if r.loader == nil {
		return placeholder
	}
	data, err := r.loader(img.Source)
	if err != nil {
		return placeholder
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return placeholder
	}
	return &canvas.Image{
		Name:   img.Source,
		Data:   data,
		Format: format,
		PxW:    cfg.Width,
		PxH:    cfg.Height,
	}
}

func codeLines(text string) []string {
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
