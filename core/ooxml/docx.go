package ooxml

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/layout"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/meta"
	"github.com/gaurav-prasanna/docpipe/core/style"
)

const (
	emuPerPoint = 12700
	emuPerPixel = 9525 // 96 dpi
	twipsPerPt  = 20
)

// DocxBuilder assembles the word-processor package: a flat sequence of
// paragraph elements with named heading styles, plus embedded media
// referenced by relationship ID.
type DocxBuilder struct {
	params meta.Params
	loader core.ImageLoader
}

// NewDocxBuilder creates a builder for one render call.
func NewDocxBuilder(params meta.Params, loader core.ImageLoader) *DocxBuilder {
	return &DocxBuilder{params: params, loader: loader}
}

type docxMedia struct {
	name string
	data []byte
	ext  string
}

// Build produces the complete package tree for the document. No archive
// writing happens here; the caller hands the tree to an ArchiveWriter only
// after Build succeeds.
func (b *DocxBuilder) Build(doc *mdast.Document, docMeta core.DocumentMetadata) (*Package, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", core.ErrInvalidInput)
	}

	rels := NewRelationships()
	rels.Add(RelTypeStyles, "styles.xml")

	w := &docxWriter{builder: b, rels: rels}
	var body strings.Builder
	if docMeta.Title != "" {
		body.WriteString(w.headingXML(&mdast.Heading{
			Level: 1,
			Runs:  []mdast.Run{{Text: docMeta.Title, Style: b.params.Styles.Heading(1)}},
		}))
	}
	for _, blk := range doc.Blocks {
		body.WriteString(w.blockXML(blk, false))
	}

	styles := b.stylesXML()
	if styles == "" {
		return nil, fmt.Errorf("%w: styles part", core.ErrMissingPart)
	}

	pkg := NewPackage()
	ct := NewContentTypes()
	ct.Default("rels", "application/vnd.openxmlformats-package.relationships+xml")
	ct.Default("xml", "application/xml")
	for _, m := range w.media {
		switch m.ext {
		case "png":
			ct.Default("png", "image/png")
		case "jpeg", "jpg":
			ct.Default(m.ext, "image/jpeg")
		case "gif":
			ct.Default("gif", "image/gif")
		}
	}
	ct.Override("/word/document.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")
	ct.Override("/word/styles.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")

	root := NewRelationships()
	root.Add(RelTypeOfficeDocument, "word/document.xml")

	pkg.AddString("[Content_Types].xml", ct.XML())
	pkg.AddString("_rels/.rels", root.XML())
	pkg.AddString("word/_rels/document.xml.rels", rels.XML())
	pkg.AddString("word/document.xml", b.documentXML(body.String()))
	pkg.AddString("word/styles.xml", styles)
	for _, m := range w.media {
		pkg.Add("word/media/"+m.name, m.data)
	}
	return pkg, nil
}

func (b *DocxBuilder) documentXML(body string) string {
	var sb strings.Builder
	sb.WriteString(xmlProlog)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` + "\n")
	sb.WriteString("<w:body>\n")
	sb.WriteString(body)
	// section properties: page size and margins in twips
	g := b.params.Geometry
	fmt.Fprintf(&sb, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d"/></w:sectPr>`+"\n",
		int(g.PageWidth*twipsPerPt), int(g.PageHeight*twipsPerPt),
		int(g.Margin*twipsPerPt), int(g.Margin*twipsPerPt),
		int(g.Margin*twipsPerPt), int(g.Margin*twipsPerPt))
	sb.WriteString("</w:body>\n</w:document>")
	return sb.String()
}

// docxWriter carries per-build state: the relationship set and collected
// media parts.
type docxWriter struct {
	builder *DocxBuilder
	rels    *Relationships
	media   []docxMedia
	imgSeq  int
}

// blockXML renders one block into flat paragraphs. quoted applies the Quote
// paragraph style to plain paragraphs inside a blockquote.
func (w *docxWriter) blockXML(blk mdast.Block, quoted bool) string {
	switch blk := blk.(type) {
	case *mdast.Heading:
		return w.headingXML(blk)
	case *mdast.Paragraph:
		pStyle := ""
		if quoted {
			pStyle = "Quote"
		}
		return w.paragraphXML(pStyle, "", 0, blk.Runs, w.builder.params.Styles.Body)
	case *mdast.CodeBlock:
		return w.codeXML(blk)
	case *mdast.List:
		return w.listXML(blk)
	case *mdast.Table:
		return w.tableXML(blk)
	case *mdast.BlockQuote:
		var sb strings.Builder
		for _, child := range blk.Children {
			sb.WriteString(w.blockXML(child, true))
		}
		return sb.String()
	case *mdast.ThematicBreak:
		return `<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr></w:pPr></w:p>` + "\n"
	case *mdast.Image:
		return w.imageXML(blk)
	}
	return ""
}

func (w *docxWriter) headingXML(h *mdast.Heading) string {
	level := h.Level
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3 // the style sheet defines Heading1..3; deeper levels share Heading3
	}
	base := w.builder.params.Styles.Heading(h.Level)
	return w.paragraphXML(fmt.Sprintf("Heading%d", level), "", 0, h.Runs, base)
}

// paragraphXML writes one w:p. base is the style already implied by the
// paragraph style, so run properties carry only the deltas.
func (w *docxWriter) paragraphXML(pStyle, extraPPr string, indentTwips int, runs []mdast.Run, base style.Style) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	if pStyle != "" || extraPPr != "" || indentTwips > 0 {
		sb.WriteString("<w:pPr>")
		if pStyle != "" {
			fmt.Fprintf(&sb, `<w:pStyle w:val="%s"/>`, pStyle)
		}
		if indentTwips > 0 {
			fmt.Fprintf(&sb, `<w:ind w:left="%d" w:hanging="360"/>`, indentTwips)
		}
		sb.WriteString(extraPPr)
		sb.WriteString("</w:pPr>")
	}
	for _, r := range runs {
		sb.WriteString(w.runXML(r, base))
	}
	sb.WriteString("</w:p>\n")
	return sb.String()
}

func (w *docxWriter) runXML(r mdast.Run, base style.Style) string {
	var sb strings.Builder
	// hard breaks become w:br, so split first
	parts := strings.Split(r.Text, "\n")
	props := runProps(r.Style, base, w.builder.params.Styles.MonoFamily)
	for i, part := range parts {
		if i > 0 {
			sb.WriteString("<w:br/>")
		}
		if part == "" {
			continue
		}
		sb.WriteString("<w:r>")
		sb.WriteString(props)
		fmt.Fprintf(&sb, `<w:t xml:space="preserve">%s</w:t>`, Escape(part))
		sb.WriteString("</w:r>")
	}
	return sb.String()
}

// runProps emits only the properties where the run deviates from the style
// the surrounding paragraph already implies.
func runProps(s, base style.Style, monoFamily string) string {
	var sb strings.Builder
	if s.Bold && !base.Bold {
		sb.WriteString("<w:b/>")
	}
	if s.Italic && !base.Italic {
		sb.WriteString("<w:i/>")
	}
	if s.Monospace && !base.Monospace {
		family := s.FontFamily
		if family == "" {
			family = monoFamily
		}
		fmt.Fprintf(&sb, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, Escape(family), Escape(family))
	}
	if s.TextColor != base.TextColor {
		fmt.Fprintf(&sb, `<w:color w:val="%s"/>`, meta.Hex(s.TextColor))
	}
	if s.SizePt != 0 && s.SizePt != base.SizePt {
		fmt.Fprintf(&sb, `<w:sz w:val="%d"/>`, int(s.SizePt*2+0.5))
	}
	if sb.Len() == 0 {
		return ""
	}
	return "<w:rPr>" + sb.String() + "</w:rPr>"
}

func (w *docxWriter) codeXML(cb *mdast.CodeBlock) string {
	var sb strings.Builder
	lines := strings.Split(strings.TrimRight(cb.Text, "\n"), "\n")
	mono := w.builder.params.Styles.Body.WithMonospace(w.builder.params.Styles.MonoFamily)
	for _, line := range lines {
		runs := []mdast.Run{{Text: line, Style: mono}}
		if line == "" {
			runs = nil
		}
		sb.WriteString(w.paragraphXML("Code", "", 0, runs, w.builder.params.Styles.Body))
	}
	return sb.String()
}

func (w *docxWriter) listXML(lst *mdast.List) string {
	var sb strings.Builder
	for _, line := range layout.LayoutList(lst, 0) {
		runs := append([]mdast.Run{{
			Text:  line.Marker + " ",
			Style: w.builder.params.Styles.Body,
		}}, line.Runs...)
		indent := 720 * (line.Indent + 1)
		sb.WriteString(w.paragraphXML("ListParagraph", "", indent, runs, w.builder.params.Styles.Body))
	}
	return sb.String()
}

// tableXML keeps the body a flat paragraph sequence: the grid renders as
// monospace box-drawing lines.
func (w *docxWriter) tableXML(tbl *mdast.Table) string {
	var sb strings.Builder
	grid := layout.LayoutTable(tbl, w.builder.params.Styles.Body)
	for _, line := range grid.Lines {
		runs := make([]mdast.Run, len(line.Runs))
		for i, r := range line.Runs {
			runs[i] = mdast.Run{
				Text:  r.Text,
				Style: r.Style.WithMonospace(w.builder.params.Styles.MonoFamily),
			}
		}
		sb.WriteString(w.paragraphXML("Code", "", 0, runs, w.builder.params.Styles.Body))
	}
	return sb.String()
}

// imageXML embeds the image as a media part referenced by a fresh
// relationship ID. A load or decode failure degrades this one image to the
// textual placeholder and the render continues.
func (w *docxWriter) imageXML(img *mdast.Image) string {
	if w.builder.loader == nil {
		return w.placeholderXML(img)
	}
	data, err := w.builder.loader(img.Source)
	if err != nil {
		return w.placeholderXML(img)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return w.placeholderXML(img)
	}

	w.imgSeq++
	name := fmt.Sprintf("image%d.%s", w.imgSeq, format)
	relID := w.rels.Add(RelTypeImage, "media/"+name)
	w.media = append(w.media, docxMedia{name: name, data: data, ext: format})

	cx := int64(cfg.Width) * emuPerPixel
	cy := int64(cfg.Height) * emuPerPixel
	maxCx := int64(w.builder.params.Geometry.ContentWidth()) * emuPerPoint
	if cx > maxCx {
		cy = cy * maxCx / cx
		cx = maxCx
	}

	var sb strings.Builder
	sb.WriteString("<w:p><w:r><w:drawing>")
	fmt.Fprintf(&sb, `<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="Picture %d" descr="%s"/>`,
		cx, cy, w.imgSeq, w.imgSeq, Escape(img.Alt))
	sb.WriteString(`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	fmt.Fprintf(&sb, `<pic:nvPicPr><pic:cNvPr id="%d" name="Picture %d"/><pic:cNvPicPr/></pic:nvPicPr>`,
		w.imgSeq, w.imgSeq)
	fmt.Fprintf(&sb, `<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, relID)
	fmt.Fprintf(&sb, `<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`, cx, cy)
	sb.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>` + "\n")
	return sb.String()
}

func (w *docxWriter) placeholderXML(img *mdast.Image) string {
	runs := []mdast.Run{{
		Text:  mdast.ImagePlaceholder(img.Alt, img.Source),
		Style: w.builder.params.Styles.Body.WithItalic(),
	}}
	return w.paragraphXML("", "", 0, runs, w.builder.params.Styles.Body)
}

// stylesXML is the style sheet template: Normal, Heading1..3, ListParagraph,
// Quote, and Code.
func (b *DocxBuilder) stylesXML() string {
	body := b.params.Styles.Body
	mono := b.params.Styles.MonoFamily
	var sb strings.Builder
	sb.WriteString(xmlProlog)
	sb.WriteString(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + "\n")
	fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/>`+
		`<w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/><w:color w:val="%s"/></w:rPr></w:style>`+"\n",
		Escape(body.FontFamily), Escape(body.FontFamily), int(body.SizePt*2+0.5), meta.Hex(body.TextColor))
	for lvl := 1; lvl <= 3; lvl++ {
		hs := b.params.Styles.Heading(lvl)
		fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/>`+
			`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`+
			`<w:pPr><w:keepNext/><w:outlineLvl w:val="%d"/></w:pPr>`+
			`<w:rPr>%s<w:sz w:val="%d"/></w:rPr></w:style>`+"\n",
			lvl, lvl, lvl-1, boldTag(hs.Bold), int(hs.SizePt*2+0.5))
	}
	sb.WriteString(`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/>` +
		`<w:basedOn w:val="Normal"/><w:qFormat/>` +
		`<w:pPr><w:ind w:left="720"/><w:contextualSpacing/></w:pPr></w:style>` + "\n")
	sb.WriteString(`<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/>` +
		`<w:basedOn w:val="Normal"/><w:qFormat/>` +
		`<w:pPr><w:ind w:left="720" w:right="720"/></w:pPr>` +
		`<w:rPr><w:i/><w:color w:val="666666"/></w:rPr></w:style>` + "\n")
	fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:styleId="Code"><w:name w:val="Code"/>`+
		`<w:basedOn w:val="Normal"/><w:qFormat/>`+
		`<w:pPr><w:shd w:val="clear" w:color="auto" w:fill="F2F2F2"/></w:pPr>`+
		`<w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="18"/></w:rPr></w:style>`+"\n",
		Escape(mono), Escape(mono))
	sb.WriteString("</w:styles>")
	return sb.String()
}

func boldTag(b bool) string {
	if b {
		return "<w:b/>"
	}
	return ""
}
