package ooxml

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/layout"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
)

// SharedStrings deduplicates cell text into the workbook's shared-string
// table. Indexing is first-seen-wins: the first occurrence of a string fixes
// its index for the whole workbook.
type SharedStrings struct {
	index map[string]int
	list  []string
	total int
}

// NewSharedStrings creates an empty table.
func NewSharedStrings() *SharedStrings {
	return &SharedStrings{index: make(map[string]int)}
}

// Index returns the shared index for v, registering it on first sight.
func (s *SharedStrings) Index(v string) int {
	s.total++
	if i, ok := s.index[v]; ok {
		return i
	}
	i := len(s.list)
	s.index[v] = i
	s.list = append(s.list, v)
	return i
}

// Len reports the number of distinct strings.
func (s *SharedStrings) Len() int { return len(s.list) }

// XML renders xl/sharedStrings.xml.
func (s *SharedStrings) XML() string {
	var sb strings.Builder
	sb.WriteString(xmlProlog)
	fmt.Fprintf(&sb, `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="%d" uniqueCount="%d">`+"\n",
		s.total, len(s.list))
	for _, v := range s.list {
		fmt.Fprintf(&sb, `  <si><t xml:space="preserve">%s</t></si>`+"\n", Escape(v))
	}
	sb.WriteString("</sst>")
	return sb.String()
}

// XlsxBuilder assembles the spreadsheet package. Tables in the document
// become sheet rows; documents without tables fall back to one plain-text
// line per row.
type XlsxBuilder struct{}

// NewXlsxBuilder creates a builder.
func NewXlsxBuilder() *XlsxBuilder {
	return &XlsxBuilder{}
}

// Build produces the complete spreadsheet package tree. Cell values always
// go through the shared-string table and are referenced by index.
func (b *XlsxBuilder) Build(doc *mdast.Document, docMeta core.DocumentMetadata) (*Package, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", core.ErrInvalidInput)
	}
	rows := sheetRows(doc, docMeta)

	shared := NewSharedStrings()
	var sheet strings.Builder
	sheet.WriteString(xmlProlog)
	sheet.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` + "\n<sheetData>\n")
	for ri, row := range rows {
		fmt.Fprintf(&sheet, `<row r="%d">`, ri+1)
		for ci, val := range row {
			fmt.Fprintf(&sheet, `<c r="%s%d" t="s"><v>%d</v></c>`, columnName(ci), ri+1, shared.Index(val))
		}
		sheet.WriteString("</row>\n")
	}
	sheet.WriteString("</sheetData>\n</worksheet>")

	wbRels := NewRelationships()
	sheetRel := wbRels.Add(RelTypeWorksheet, "worksheets/sheet1.xml")
	wbRels.Add(RelTypeSharedStrings, "sharedStrings.xml")

	var workbook strings.Builder
	workbook.WriteString(xmlProlog)
	workbook.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` + "\n")
	fmt.Fprintf(&workbook, `<sheets><sheet name="Sheet1" sheetId="1" r:id="%s"/></sheets>`+"\n", sheetRel)
	workbook.WriteString("</workbook>")

	root := NewRelationships()
	root.Add(RelTypeOfficeDocument, "xl/workbook.xml")

	ct := NewContentTypes()
	ct.Default("rels", "application/vnd.openxmlformats-package.relationships+xml")
	ct.Default("xml", "application/xml")
	ct.Override("/xl/workbook.xml",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml")
	ct.Override("/xl/worksheets/sheet1.xml",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml")
	ct.Override("/xl/sharedStrings.xml",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml")

	pkg := NewPackage()
	pkg.AddString("[Content_Types].xml", ct.XML())
	pkg.AddString("_rels/.rels", root.XML())
	pkg.AddString("xl/workbook.xml", workbook.String())
	pkg.AddString("xl/_rels/workbook.xml.rels", wbRels.XML())
	pkg.AddString("xl/sharedStrings.xml", shared.XML())
	pkg.AddString("xl/worksheets/sheet1.xml", sheet.String())
	return pkg, nil
}

// sheetRows flattens the document into rows of plain-text cells. Every
// table contributes its header and body rows, separated from the next table
// by a blank row; a table-free document yields one single-cell row per
// content line.
func sheetRows(doc *mdast.Document, docMeta core.DocumentMetadata) [][]string {
	var rows [][]string
	addTable := func(t *mdast.Table) {
		if len(rows) > 0 {
			rows = append(rows, nil)
		}
		rows = append(rows, cellTexts(t.Header))
		for _, r := range t.Rows {
			rows = append(rows, cellTexts(r))
		}
	}

	var tables []*mdast.Table
	var collect func(blocks []mdast.Block)
	collect = func(blocks []mdast.Block) {
		for _, blk := range blocks {
			switch blk := blk.(type) {
			case *mdast.Table:
				tables = append(tables, blk)
			case *mdast.BlockQuote:
				collect(blk.Children)
			}
		}
	}
	collect(doc.Blocks)

	if len(tables) > 0 {
		for _, t := range tables {
			addTable(t)
		}
		return rows
	}

	// no tables: one row per content line
	if docMeta.Title != "" {
		rows = append(rows, []string{docMeta.Title})
	}
	for _, blk := range doc.Blocks {
		for _, line := range plainLines(blk) {
			rows = append(rows, []string{line})
		}
	}
	return rows
}

func cellTexts(cells []mdast.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c.Plain, "\n", " ")
	}
	return out
}

func plainLines(blk mdast.Block) []string {
	switch blk := blk.(type) {
	case *mdast.Heading:
		return []string{mdast.PlainText(blk.Runs)}
	case *mdast.Paragraph:
		return strings.Split(mdast.PlainText(blk.Runs), "\n")
	case *mdast.CodeBlock:
		return strings.Split(strings.TrimRight(blk.Text, "\n"), "\n")
	case *mdast.List:
		var out []string
		for _, line := range layout.LayoutList(blk, 0) {
			out = append(out, line.Marker+" "+mdast.PlainText(line.Runs))
		}
		return out
	case *mdast.BlockQuote:
		var out []string
		for _, child := range blk.Children {
			out = append(out, plainLines(child)...)
		}
		return out
	case *mdast.Image:
		return []string{mdast.ImagePlaceholder(blk.Alt, blk.Source)}
	}
	return nil
}

// columnName converts a zero-based column index to its A1-style letters.
func columnName(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}
