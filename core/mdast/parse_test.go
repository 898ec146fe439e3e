package mdast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpipe/core/style"
)

func testStyles() StyleSet {
	body := style.Style{FontFamily: "Helvetica", SizePt: 12, TextColor: style.Color{A: 1}}
	var headings [6]style.Style
	sizes := []float64{24, 20, 16, 14, 13, 12}
	for i, sz := range sizes {
		headings[i] = body.WithSize(sz).WithBold()
	}
	return StyleSet{Body: body, Headings: headings, MonoFamily: "Courier"}
}

func TestParseHeadingParagraphList(t *testing.T) {
	doc, err := Parse("# Title\n\nHello **world**.\n\n- one\n- two\n", testStyles())
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 3)

	h, ok := doc.Blocks[0].(*Heading)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Title", PlainText(h.Runs))
	assert.Equal(t, 24.0, h.Runs[0].Style.SizePt)

	p, ok := doc.Blocks[1].(*Paragraph)
	require.True(t, ok)
	require.Len(t, p.Runs, 3)
	assert.Equal(t, "Hello ", p.Runs[0].Text)
	assert.False(t, p.Runs[0].Style.Bold)
	assert.Equal(t, "world", p.Runs[1].Text)
	assert.True(t, p.Runs[1].Style.Bold)
	assert.Equal(t, ".", p.Runs[2].Text)
	assert.False(t, p.Runs[2].Style.Bold)

	lst, ok := doc.Blocks[2].(*List)
	require.True(t, ok)
	assert.False(t, lst.Ordered)
	require.Len(t, lst.Items, 2)
	assert.Equal(t, "one", PlainText(lst.Items[0].Runs))
	assert.Equal(t, "two", PlainText(lst.Items[1].Runs))
	assert.Equal(t, 0, lst.Items[0].Indent)
}

func TestParseNestedEmphasisComposes(t *testing.T) {
	doc, err := Parse("**bold *italic* still-bold**", testStyles())
	require.NoError(t, err)
	p := doc.Blocks[0].(*Paragraph)
	require.Len(t, p.Runs, 3)

	assert.True(t, p.Runs[0].Style.Bold)
	assert.False(t, p.Runs[0].Style.Italic)

	assert.True(t, p.Runs[1].Style.Bold, "inner italic keeps outer bold")
	assert.True(t, p.Runs[1].Style.Italic)

	assert.Equal(t, p.Runs[0].Style, p.Runs[2].Style, "leaving the nested node restores the prior context")
}

func TestParseCodeBlockExtractedEagerly(t *testing.T) {
	doc, err := Parse("```go\nfmt.Println(\"**not bold**\")\n```\n", testStyles())
	require.NoError(t, err)
	cb, ok := doc.Blocks[0].(*CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "go", cb.Language)
	assert.Equal(t, "fmt.Println(\"**not bold**\")\n", cb.Text)
	assert.Equal(t, 1, doc.Structure.CodeBlocks)
}

func TestParseOrderedListStart(t *testing.T) {
	doc, err := Parse("5. five\n6. six\n7. seven\n", testStyles())
	require.NoError(t, err)
	lst := doc.Blocks[0].(*List)
	require.True(t, lst.Ordered)
	require.Len(t, lst.Items, 3)
	require.NotNil(t, lst.Items[0].Number)
	assert.Equal(t, 5, *lst.Items[0].Number)
	assert.Nil(t, lst.Items[1].Number)
}

func TestParseNestedList(t *testing.T) {
	doc, err := Parse("- outer\n  - inner one\n  - inner two\n", testStyles())
	require.NoError(t, err)
	lst := doc.Blocks[0].(*List)
	require.Len(t, lst.Items, 1)
	require.NotNil(t, lst.Items[0].Sub)
	sub := lst.Items[0].Sub
	require.Len(t, sub.Items, 2)
	assert.Equal(t, 1, sub.Items[0].Indent)
}

func TestParseTaskList(t *testing.T) {
	doc, err := Parse("- [x] done\n- [ ] todo\n", testStyles())
	require.NoError(t, err)
	lst := doc.Blocks[0].(*List)
	require.Len(t, lst.Items, 2)
	require.NotNil(t, lst.Items[0].TaskDone)
	assert.True(t, *lst.Items[0].TaskDone)
	require.NotNil(t, lst.Items[1].TaskDone)
	assert.False(t, *lst.Items[1].TaskDone)
}

func TestParseTable(t *testing.T) {
	src := "| Name | Qty |\n| --- | --- |\n| **apples** | 3 |\n| pears | 12 |\n"
	doc, err := Parse(src, testStyles())
	require.NoError(t, err)
	tbl, ok := doc.Blocks[0].(*Table)
	require.True(t, ok)
	require.Len(t, tbl.Header, 2)
	assert.Equal(t, "Name", tbl.Header[0].Plain)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "apples", tbl.Rows[0][0].Plain, "plain text ignores inline formatting")
	assert.True(t, tbl.Rows[0][0].Runs[0].Style.Bold)
	assert.Equal(t, 1, doc.Structure.Tables)
}

func TestParseBlockquoteAndRule(t *testing.T) {
	doc, err := Parse("> quoted text\n\n---\n", testStyles())
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	bq, ok := doc.Blocks[0].(*BlockQuote)
	require.True(t, ok)
	require.Len(t, bq.Children, 1)
	_, ok = doc.Blocks[1].(*ThematicBreak)
	assert.True(t, ok)
}

func TestParseImageParagraphBecomesBlock(t *testing.T) {
	doc, err := Parse("![diagram](assets/d.png)\n", testStyles())
	require.NoError(t, err)
	img, ok := doc.Blocks[0].(*Image)
	require.True(t, ok)
	assert.Equal(t, "diagram", img.Alt)
	assert.Equal(t, "assets/d.png", img.Source)
	assert.Equal(t, 1, doc.Structure.Images)
}

func TestParseInlineImagePlaceholder(t *testing.T) {
	doc, err := Parse("see ![icon](i.png) here\n", testStyles())
	require.NoError(t, err)
	p := doc.Blocks[0].(*Paragraph)
	assert.Contains(t, PlainText(p.Runs), "[Image: icon] (i.png)")
}

func TestParseCodeSpanMonospace(t *testing.T) {
	doc, err := Parse("call `fmt.Println` now\n", testStyles())
	require.NoError(t, err)
	p := doc.Blocks[0].(*Paragraph)
	require.Len(t, p.Runs, 3)
	assert.True(t, p.Runs[1].Style.Monospace)
	assert.Equal(t, "Courier", p.Runs[1].Style.FontFamily)
	assert.False(t, p.Runs[2].Style.Monospace)
}

func TestParseSoftAndHardBreaks(t *testing.T) {
	doc, err := Parse("line one\nline two\n", testStyles())
	require.NoError(t, err)
	p := doc.Blocks[0].(*Paragraph)
	assert.Equal(t, "line one line two", PlainText(p.Runs))

	doc, err = Parse("line one\\\nline two\n", testStyles())
	require.NoError(t, err)
	p = doc.Blocks[0].(*Paragraph)
	assert.Equal(t, "line one\nline two", PlainText(p.Runs))
}

func TestParseStructureCounts(t *testing.T) {
	src := "# H1\n\n[site](https://example.com)\n\n- a\n- b\n\n```\ncode\n```\n"
	doc, err := Parse(src, testStyles())
	require.NoError(t, err)
	s := doc.Structure
	assert.Len(t, s.Headings, 1)
	require.Len(t, s.Links, 1)
	assert.Equal(t, "https://example.com", s.Links[0].Href)
	assert.Equal(t, 1, s.Lists)
	assert.Equal(t, 1, s.CodeBlocks)
}
