// Package importer converts foreign documents into canonical Markdown plus
// a best-effort formatting record, so a later render can reproduce the
// source's look.
//
// DOCX files are ZIP archives containing OOXML. The main document lives at
// word/document.xml; the style catalog at word/styles.xml. Both are
// stream-parsed so arbitrarily large documents never load a DOM.
package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/meta"
)

const twipsPerPoint = 20

// DocxImporter extracts Markdown and formatting from DOCX bytes.
type DocxImporter struct{}

// NewDocxImporter creates a DocxImporter.
func NewDocxImporter() *DocxImporter {
	return &DocxImporter{}
}

// Import parses the archive. A document with no styles part still imports;
// a missing word/document.xml is an error.
func (i *DocxImporter) Import(ctx context.Context, data []byte) (*core.ImportResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", core.ErrInvalidInput, err)
	}

	docXML, err := readPart(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}

	p := newDocParser()
	if err := p.parse(bytes.NewReader(docXML)); err != nil {
		return nil, fmt.Errorf("%w: document.xml: %v", core.ErrInvalidInput, err)
	}

	f := &meta.Formatting{
		SourceFormat:  string(core.FormatDocx),
		PageWidthPt:   p.pageW,
		PageHeightPt:  p.pageH,
		MarginPt:      p.margin,
		HasTables:     p.sawTable,
		HasImages:     p.sawImage,
		HasCodeBlocks: p.sawCode,
	}
	if stylesXML, err := readPart(zr, "word/styles.xml"); err == nil {
		extractStyles(bytes.NewReader(stylesXML), f)
	}

	return &core.ImportResult{
		Markdown:   p.markdown(),
		Formatting: f,
		Title:      p.title,
	}, nil
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: %s", core.ErrMissingPart, name)
}

// listMarker matches the literal bullets and numbers our own writer puts at
// the front of list paragraphs, so a round trip restores list syntax.
var listMarker = regexp.MustCompile(`^([•◦▪]|\d+\.|\[[ x]\])\s+`)

// docParser tracks paragraph, run, and table context across the token
// stream and accumulates Markdown.
type docParser struct {
	out   strings.Builder
	stack []string

	inPara    bool
	paraStyle string
	isList    bool
	listLevel int
	paraText  strings.Builder

	inRun   bool
	runBold bool
	runItal bool
	runText strings.Builder

	inTable  bool
	rows     [][]string
	currRow  []string
	inCell   bool
	cellText strings.Builder

	codeLines   []string
	lastWasList bool

	title    string
	pageW    float64
	pageH    float64
	margin   float64
	sawTable bool
	sawImage bool
	sawCode  bool
}

func newDocParser() *docParser {
	return &docParser{}
}

func (p *docParser) markdown() string {
	p.flushCode()
	return strings.TrimLeft(p.out.String(), "\n")
}

func (p *docParser) parse(r io.Reader) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.stack = append(p.stack, t.Name.Local)
			p.start(t)
		case xml.EndElement:
			p.end(t.Name.Local)
			if n := len(p.stack); n > 0 {
				p.stack = p.stack[:n-1]
			}
		case xml.CharData:
			p.text(string(t))
		}
	}
	return nil
}

func (p *docParser) inCtx(name string) bool {
	for _, s := range p.stack {
		if s == name {
			return true
		}
	}
	return false
}

func (p *docParser) start(t xml.StartElement) {
	switch t.Name.Local {
	case "tbl":
		p.inTable = true
		p.sawTable = true
		p.rows = nil
	case "tr":
		p.currRow = nil
	case "tc":
		p.inCell = true
		p.cellText.Reset()

	case "p":
		p.inPara = true
		p.paraStyle = ""
		p.isList = false
		p.listLevel = 0
		p.paraText.Reset()
	case "pStyle":
		if p.inPara && p.inCtx("pPr") {
			p.paraStyle = attrVal(t, "val")
		}
	case "numPr":
		if p.inPara {
			p.isList = true
		}
	case "ilvl":
		if p.inPara && p.inCtx("numPr") {
			p.listLevel, _ = strconv.Atoi(attrVal(t, "val"))
		}

	case "r":
		if p.inPara {
			p.inRun = true
			p.runBold = false
			p.runItal = false
			p.runText.Reset()
		}
	case "b":
		if p.inRun && p.inCtx("rPr") && attrVal(t, "val") != "0" {
			p.runBold = true
		}
	case "i":
		if p.inRun && p.inCtx("rPr") && attrVal(t, "val") != "0" {
			p.runItal = true
		}
	case "br":
		if p.inRun {
			p.runText.WriteByte('\n')
		}
	case "blip", "drawing":
		p.sawImage = true

	case "pgSz":
		if w, err := strconv.ParseFloat(attrVal(t, "w"), 64); err == nil {
			p.pageW = w / twipsPerPoint
		}
		if h, err := strconv.ParseFloat(attrVal(t, "h"), 64); err == nil {
			p.pageH = h / twipsPerPoint
		}
	case "pgMar":
		if m, err := strconv.ParseFloat(attrVal(t, "top"), 64); err == nil {
			p.margin = m / twipsPerPoint
		}
	}
}

func (p *docParser) end(local string) {
	switch local {
	case "r":
		if !p.inRun {
			return
		}
		if !p.inCell {
			p.paraText.WriteString(inlineFormat(p.runText.String(), p.runBold, p.runItal))
		}
		p.inRun = false

	case "p":
		if !p.inPara {
			return
		}
		p.inPara = false
		if p.inCell {
			return
		}
		text := strings.TrimSpace(p.paraText.String())
		if text == "" {
			return
		}
		if p.paraStyle == "Code" {
			p.sawCode = true
			p.codeLines = append(p.codeLines, strings.ReplaceAll(text, "\n", " "))
			return
		}
		p.flushCode()
		p.write(p.paragraphMarkdown(text))

	case "tc":
		if p.inTable {
			p.currRow = append(p.currRow, strings.TrimSpace(p.cellText.String()))
			p.inCell = false
			p.cellText.Reset()
		}
	case "tr":
		if p.inTable {
			p.rows = append(p.rows, p.currRow)
			p.currRow = nil
		}
	case "tbl":
		if p.inTable {
			p.flushCode()
			p.write(pipeTable(p.rows))
			p.out.WriteByte('\n')
			p.lastWasList = false
			p.inTable = false
			p.rows = nil
		}
	}
}

func (p *docParser) text(text string) {
	switch {
	case p.inCell && p.inRun:
		p.cellText.WriteString(text)
	case p.inRun:
		p.runText.WriteString(text)
	}
}

// write separates a list run from whatever follows it with a blank line;
// list lines themselves stay contiguous.
func (p *docParser) write(md string) {
	isList := !strings.HasSuffix(md, "\n\n")
	if p.lastWasList && !isList {
		p.out.WriteByte('\n')
	}
	p.lastWasList = isList
	p.out.WriteString(md)
}

// flushCode closes a pending run of Code-styled paragraphs into one fence.
func (p *docParser) flushCode() {
	if len(p.codeLines) == 0 {
		return
	}
	if p.lastWasList {
		p.out.WriteByte('\n')
		p.lastWasList = false
	}
	p.out.WriteString("```\n")
	for _, line := range p.codeLines {
		p.out.WriteString(line + "\n")
	}
	p.out.WriteString("```\n\n")
	p.codeLines = nil
}

func (p *docParser) paragraphMarkdown(text string) string {
	if lvl := headingLevel(p.paraStyle); lvl > 0 {
		if lvl == 1 && p.title == "" {
			p.title = stripInline(text)
		}
		return strings.Repeat("#", lvl) + " " + text + "\n\n"
	}
	switch p.paraStyle {
	case "Quote":
		return "> " + text + "\n\n"
	case "ListParagraph":
		if m := listMarker.FindString(text); m != "" {
			rest := text[len(m):]
			marker := strings.TrimSpace(m)
			switch {
			case strings.HasSuffix(marker, "."):
				return marker + " " + rest + "\n"
			case marker == "[x]":
				return "- [x] " + rest + "\n"
			case marker == "[ ]":
				return "- [ ] " + rest + "\n"
			}
			return "- " + rest + "\n"
		}
		return "- " + text + "\n"
	}
	if p.isList {
		return strings.Repeat("  ", p.listLevel) + "- " + text + "\n"
	}
	return text + "\n\n"
}

func headingLevel(styleID string) int {
	if !strings.HasPrefix(styleID, "Heading") {
		return 0
	}
	lvl, err := strconv.Atoi(styleID[len("Heading"):])
	if err != nil || lvl < 1 || lvl > 6 {
		return 0
	}
	return lvl
}

func inlineFormat(text string, bold, italic bool) string {
	if text == "" {
		return text
	}
	switch {
	case bold && italic:
		return "***" + text + "***"
	case bold:
		return "**" + text + "**"
	case italic:
		return "*" + text + "*"
	}
	return text
}

func stripInline(text string) string {
	return strings.Trim(text, "*_")
}

// pipeTable renders extracted rows as a Markdown table. The first row is
// the header; ragged rows pad with empty cells.
func pipeTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	if maxCols == 0 {
		return ""
	}
	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.ReplaceAll(row[i], "|", `\|`)
		}
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for i := 0; i < maxCols; i++ {
			sb.WriteString(" " + cell(row, i) + " |")
		}
		sb.WriteByte('\n')
	}
	writeRow(rows[0])
	sb.WriteString("|")
	for i := 0; i < maxCols; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteByte('\n')
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return sb.String()
}

func attrVal(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// extractStyles walks word/styles.xml and copies what it understands into
// the formatting record: the Normal style feeds the body font, HeadingN
// styles feed the heading ramp, everything else lands in NamedStyles.
func extractStyles(r io.Reader, f *meta.Formatting) {
	dec := xml.NewDecoder(r)

	var styleID string
	var cur meta.HeadingStyle
	var font string
	var inStyle bool

	flush := func() {
		if !inStyle {
			return
		}
		switch {
		case styleID == "Normal":
			f.FontFamily = font
			f.SizePt = cur.SizePt
			f.TextColor = cur.Color
		case headingLevel(styleID) > 0:
			if f.Headings == nil {
				f.Headings = make(map[int]meta.HeadingStyle)
			}
			f.Headings[headingLevel(styleID)] = cur
		case styleID == "Code":
			f.MonoFontFamily = font
		default:
			if f.NamedStyles == nil {
				f.NamedStyles = make(map[string]meta.HeadingStyle)
			}
			f.NamedStyles[styleID] = cur
		}
		inStyle = false
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		t, ok := tok.(xml.StartElement)
		if !ok {
			if e, ok := tok.(xml.EndElement); ok && e.Name.Local == "style" {
				flush()
			}
			continue
		}
		switch t.Name.Local {
		case "style":
			flush()
			styleID = attrVal(t, "styleId")
			cur = meta.HeadingStyle{}
			font = ""
			inStyle = attrVal(t, "type") == "paragraph"
		case "rFonts":
			if v := attrVal(t, "ascii"); v != "" {
				font = v
			}
		case "sz":
			if half, err := strconv.ParseFloat(attrVal(t, "val"), 64); err == nil {
				cur.SizePt = half / 2
			}
		case "b":
			if attrVal(t, "val") != "0" {
				b := true
				cur.Bold = &b
			}
		case "i":
			if attrVal(t, "val") != "0" {
				cur.Italic = true
			}
		case "color":
			if c, ok := meta.ParseHex(attrVal(t, "val")); ok {
				cur.Color = &c
			}
		}
	}
	flush()
}
