package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/meta"
	"github.com/gaurav-prasanna/docpipe/core/render"
)

func renderDocx(t *testing.T, markdown string, docMeta core.DocumentMetadata) []byte {
	t.Helper()
	r := render.NewDocxRenderer(meta.Formatting{}.ParamsFor(core.FormatDocx), nil)
	data, err := r.Render(markdown, docMeta)
	require.NoError(t, err)
	return data
}

func TestDocxRoundTrip(t *testing.T) {
	src := "# Report\n\nHello **world** and *friends*.\n\n- one\n- two\n\n```\nx := 1\n```\n"
	data := renderDocx(t, src, core.DocumentMetadata{})

	res, err := NewDocxImporter().Import(context.Background(), data)
	require.NoError(t, err)

	md := res.Markdown
	assert.Contains(t, md, "# Report")
	assert.Contains(t, md, "**world**")
	assert.Contains(t, md, "*friends*")
	assert.Contains(t, md, "- one")
	assert.Contains(t, md, "- two")
	assert.Contains(t, md, "```\nx := 1\n```")
	assert.Equal(t, "Report", res.Title)
}

func TestDocxImportExtractsFormatting(t *testing.T) {
	data := renderDocx(t, "# H\n\nbody\n", core.DocumentMetadata{})
	res, err := NewDocxImporter().Import(context.Background(), data)
	require.NoError(t, err)

	f, ok := res.Formatting.(*meta.Formatting)
	require.True(t, ok)
	assert.Equal(t, "docx", f.SourceFormat)
	assert.InDelta(t, 612.0, f.PageWidthPt, 0.5)
	assert.InDelta(t, 792.0, f.PageHeightPt, 0.5)
	assert.InDelta(t, 54.0, f.MarginPt, 0.5)
	assert.Equal(t, "Calibri", f.FontFamily)
	assert.InDelta(t, 12.0, f.SizePt, 0.001)

	h1, ok := f.Headings[1]
	require.True(t, ok)
	assert.InDelta(t, 24.0, h1.SizePt, 0.001)
	require.NotNil(t, h1.Bold)
	assert.True(t, *h1.Bold)
}

func TestDocxImportListMarkers(t *testing.T) {
	src := "5. five\n6. six\n\n- [x] done\n- [ ] open\n"
	data := renderDocx(t, src, core.DocumentMetadata{})
	res, err := NewDocxImporter().Import(context.Background(), data)
	require.NoError(t, err)

	assert.Contains(t, res.Markdown, "5. five")
	assert.Contains(t, res.Markdown, "6. six")
	assert.Contains(t, res.Markdown, "- [x] done")
	assert.Contains(t, res.Markdown, "- [ ] open")
}

func TestDocxImportForeignTable(t *testing.T) {
	// hand-built document.xml with a real w:tbl, as produced by other writers
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>name</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>qty</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>apples</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>3</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
</w:body></w:document>`

	p := newDocParser()
	require.NoError(t, p.parse(strings.NewReader(docXML)))
	md := p.markdown()
	assert.Contains(t, md, "| name | qty |")
	assert.Contains(t, md, "| --- | --- |")
	assert.Contains(t, md, "| apples | 3 |")
	assert.True(t, p.sawTable)
}

func TestDocxImportRejectsGarbage(t *testing.T) {
	_, err := NewDocxImporter().Import(context.Background(), []byte("not a zip"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDocxImportMissingDocumentPart(t *testing.T) {
	// a valid zip without word/document.xml
	r := render.NewXlsxRenderer(meta.Formatting{}.ParamsFor(core.FormatXlsx))
	data, err := r.Render("plain\n", core.DocumentMetadata{})
	require.NoError(t, err)

	_, err = NewDocxImporter().Import(context.Background(), data)
	assert.ErrorIs(t, err, core.ErrMissingPart)
}
