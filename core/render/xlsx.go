// Package render — XLSX renderer.
// Tables in the document become worksheet rows; table-free documents fall
// back to one plain-text line per row.
package render

import (
	"fmt"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/meta"
	"github.com/gaurav-prasanna/docpipe/core/ooxml"
)

// XlsxRenderer renders Markdown as a spreadsheet.
type XlsxRenderer struct {
	params  meta.Params
	archive ooxml.ArchiveWriter
}

// NewXlsxRenderer creates an XLSX renderer.
func NewXlsxRenderer(params meta.Params) *XlsxRenderer {
	return &XlsxRenderer{params: params, archive: &ooxml.ZipWriter{}}
}

// Render converts Markdown into XLSX bytes.
func (r *XlsxRenderer) Render(markdown string, docMeta core.DocumentMetadata) ([]byte, error) {
	doc, err := mdast.Parse(markdown, r.params.Styles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRenderingFailed, err)
	}
	pkg, err := ooxml.NewXlsxBuilder().Build(doc, docMeta)
	if err != nil {
		return nil, err
	}
	return r.archive.CreateArchive(pkg)
}

// Extension returns the file extension for XLSX output.
func (r *XlsxRenderer) Extension() string {
	return ".xlsx"
}
