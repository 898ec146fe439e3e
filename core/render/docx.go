// Package render — DOCX renderer.
// Parses Markdown into the block tree, assembles the WordprocessingML
// package, and zips it. The archive is only written once every part built
// cleanly, so a failed render never produces a truncated file.
package render

import (
	"fmt"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/meta"
	"github.com/gaurav-prasanna/docpipe/core/ooxml"
)

// DocxRenderer renders Markdown as a Word document.
type DocxRenderer struct {
	params  meta.Params
	loader  core.ImageLoader
	archive ooxml.ArchiveWriter
}

// NewDocxRenderer creates a DOCX renderer with the given encoding
// parameters. loader may be nil; images then render as placeholders.
func NewDocxRenderer(params meta.Params, loader core.ImageLoader) *DocxRenderer {
	return &DocxRenderer{params: params, loader: loader, archive: &ooxml.ZipWriter{}}
}

// Render converts Markdown into DOCX bytes.
func (r *DocxRenderer) Render(markdown string, docMeta core.DocumentMetadata) ([]byte, error) {
	doc, err := mdast.Parse(markdown, r.params.Styles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRenderingFailed, err)
	}
	pkg, err := ooxml.NewDocxBuilder(r.params, r.loader).Build(doc, docMeta)
	if err != nil {
		return nil, err
	}
	return r.archive.CreateArchive(pkg)
}

// Extension returns the file extension for DOCX output.
func (r *DocxRenderer) Extension() string {
	return ".docx"
}
