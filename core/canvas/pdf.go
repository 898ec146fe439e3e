// Package canvas implements the flow.Canvas contract on top of gofpdf.
// Drawables carry styled runs; the canvas wraps them at the given width so
// measurement and drawing always agree line for line.
package canvas

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/docpipe/core/flow"
	"github.com/gaurav-prasanna/docpipe/core/layout"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/style"
)

const (
	defaultSizePt = 12
	codePadPt     = 6
	rulePt        = 12
	// raster sources are treated as 96 dpi when sizing in points
	ptPerPx = 72.0 / 96.0
)

// Text is a wrapped block of styled runs.
type Text struct {
	Runs   []mdast.Run
	Indent float64
	// Marker, when set, is drawn one marker-width to the left of the first
	// line. Wrapping ignores it, so continuation lines align under the
	// item text rather than under the marker.
	Marker      *mdast.Run
	SpaceBefore float64
	SpaceAfter  float64
	QuoteBar    bool
}

// Code is a fenced code block drawn line by line on a shaded background.
type Code struct {
	Lines []string
	Style style.Style
}

// Table is a monospace box-drawing grid produced by the layout package.
type Table struct {
	Grid  *layout.TableGrid
	Style style.Style
}

// Rule is a thematic break.
type Rule struct{}

// Image is a decoded raster image. Format is the registered encoding,
// "png" or "jpeg".
type Image struct {
	Name   string
	Data   []byte
	Format string
	PxW    int
	PxH    int
}

// PDF drives a single gofpdf document. Pages are opened by the flow engine;
// y grows downward from the page top.
type PDF struct {
	pdf         *gofpdf.Fpdf
	geom        flow.Geometry
	lineSpacing float64
	background  *style.Color
}

// New creates a canvas for one document at the given geometry. lineSpacing
// multiplies the font size to give the line height; zero means 1.4.
func New(geom flow.Geometry, lineSpacing float64, background *style.Color) *PDF {
	if lineSpacing <= 0 {
		lineSpacing = 1.4
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: geom.PageWidth, Ht: geom.PageHeight},
	})
	pdf.SetMargins(geom.Margin, geom.Margin, geom.Margin)
	pdf.SetAutoPageBreak(false, 0)
	// pinned so repeat renders of the same input are byte-identical
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	return &PDF{pdf: pdf, geom: geom, lineSpacing: lineSpacing, background: background}
}

// SetMetadata stamps the document information dictionary. A non-zero
// created time replaces the pinned creation date.
func (c *PDF) SetMetadata(title, author, subject string, created time.Time) {
	if !created.IsZero() {
		c.pdf.SetCreationDate(created)
	}
	if title != "" {
		c.pdf.SetTitle(title, true)
	}
	if author != "" {
		c.pdf.SetAuthor(author, true)
	}
	if subject != "" {
		c.pdf.SetSubject(subject, true)
	}
}

func (c *PDF) BottomOrigin() bool { return false }

func (c *PDF) BeginPage() {
	c.pdf.AddPage()
	if c.background != nil {
		r, g, b := c.background.RGB255()
		c.pdf.SetFillColor(r, g, b)
		c.pdf.Rect(0, 0, c.geom.PageWidth, c.geom.PageHeight, "F")
	}
}

// EndPage is a pagination marker only; gofpdf closes pages implicitly.
func (c *PDF) EndPage() {}

func (c *PDF) Finish() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Measure returns the height d occupies when laid out at width.
func (c *PDF) Measure(d flow.Drawable, width float64) (float64, error) {
	switch d := d.(type) {
	case *Text:
		h := d.SpaceBefore + d.SpaceAfter
		for _, ln := range c.wrap(d.Runs, width-d.Indent) {
			h += ln.height
		}
		return h, nil
	case *Code:
		return float64(len(d.Lines))*c.lineHeight(d.Style) + 2*codePadPt, nil
	case *Table:
		return float64(len(d.Grid.Lines)) * c.lineHeight(d.Style), nil
	case *Rule:
		return rulePt, nil
	case *Image:
		_, h := c.fitImage(d, width)
		return h, nil
	}
	return 0, fmt.Errorf("unknown drawable %T", d)
}

// Draw renders d into r. r.Y is the top edge.
func (c *PDF) Draw(d flow.Drawable, r flow.Rect) error {
	switch d := d.(type) {
	case *Text:
		c.drawText(d, r)
	case *Code:
		c.drawCode(d, r)
	case *Table:
		c.drawTable(d, r)
	case *Rule:
		c.pdf.SetDrawColor(160, 160, 160)
		c.pdf.SetLineWidth(0.5)
		mid := r.Y + rulePt/2
		c.pdf.Line(r.X, mid, r.X+r.W, mid)
	case *Image:
		c.drawImage(d, r)
	default:
		return fmt.Errorf("unknown drawable %T", d)
	}
	return nil
}

func (c *PDF) drawText(d *Text, r flow.Rect) {
	if d.QuoteBar {
		c.pdf.SetDrawColor(180, 180, 180)
		c.pdf.SetLineWidth(2)
		c.pdf.Line(r.X+2, r.Y+d.SpaceBefore, r.X+2, r.Y+r.H-d.SpaceAfter)
	}
	y := r.Y + d.SpaceBefore
	for i, ln := range c.wrap(d.Runs, r.W-d.Indent) {
		x := r.X + d.Indent
		base := y + ln.height*0.8
		if i == 0 && d.Marker != nil {
			c.applyStyle(d.Marker.Style)
			c.pdf.Text(x-c.pdf.GetStringWidth(d.Marker.Text), base, d.Marker.Text)
		}
		for _, sg := range ln.segs {
			c.applyStyle(sg.st)
			c.pdf.Text(x, base, sg.text)
			x += c.pdf.GetStringWidth(sg.text)
		}
		y += ln.height
	}
}

func (c *PDF) drawCode(d *Code, r flow.Rect) {
	c.pdf.SetFillColor(245, 245, 245)
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	c.applyStyle(d.Style)
	lh := c.lineHeight(d.Style)
	y := r.Y + codePadPt
	for _, line := range d.Lines {
		c.pdf.Text(r.X+codePadPt, y+lh*0.8, line)
		y += lh
	}
}

func (c *PDF) drawTable(d *Table, r flow.Rect) {
	lh := c.lineHeight(d.Style)
	y := r.Y
	for _, line := range d.Grid.Lines {
		x := r.X
		for _, run := range line.Runs {
			st := d.Style
			st.Bold = run.Style.Bold
			c.applyStyle(st)
			text := strings.ReplaceAll(run.Text, "\n", " ")
			c.pdf.Text(x, y+lh*0.8, text)
			x += c.pdf.GetStringWidth(text)
		}
		y += lh
	}
}

func (c *PDF) drawImage(d *Image, r flow.Rect) {
	opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(d.Format), ReadDpi: false}
	c.pdf.RegisterImageOptionsReader(d.Name, opts, bytes.NewReader(d.Data))
	w, h := c.fitImage(d, r.W)
	c.pdf.ImageOptions(d.Name, r.X, r.Y, w, h, false, opts, 0, "")
}

// fitImage scales the natural point size down to the available width,
// preserving aspect ratio. It never scales up.
func (c *PDF) fitImage(d *Image, width float64) (w, h float64) {
	w = float64(d.PxW) * ptPerPx
	h = float64(d.PxH) * ptPerPx
	if w > width && w > 0 {
		h = h * width / w
		w = width
	}
	return w, h
}

type seg struct {
	text string
	st   style.Style
}

type wrapped struct {
	segs   []seg
	height float64
}

// wrap lays the runs out as greedy word-filled lines no wider than width.
// Hard breaks inside a run always start a new line.
func (c *PDF) wrap(runs []mdast.Run, width float64) []wrapped {
	var lines []wrapped
	cur := wrapped{}
	var curW float64

	flush := func() {
		if len(cur.segs) > 0 {
			last := &cur.segs[len(cur.segs)-1]
			last.text = strings.TrimRight(last.text, " ")
		}
		if cur.height == 0 {
			cur.height = defaultSizePt * c.lineSpacing
		}
		lines = append(lines, cur)
		cur = wrapped{}
		curW = 0
	}
	put := func(word string, st style.Style) {
		c.applyStyle(st)
		w := c.pdf.GetStringWidth(word)
		if curW > 0 && curW+w > width {
			flush()
		}
		if n := len(cur.segs); n > 0 && cur.segs[n-1].st == st {
			cur.segs[n-1].text += word
		} else {
			cur.segs = append(cur.segs, seg{text: word, st: st})
		}
		curW += w
		if lh := c.lineHeight(st); lh > cur.height {
			cur.height = lh
		}
	}

	for _, run := range runs {
		for hi, hard := range strings.Split(run.Text, "\n") {
			if hi > 0 {
				flush()
			}
			for _, word := range splitWords(hard) {
				put(word, run.Style)
			}
		}
	}
	if len(cur.segs) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitWords cuts s after each space so every token keeps its trailing
// separator and the pieces rejoin losslessly.
func splitWords(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if r == ' ' {
			words = append(words, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}

func (c *PDF) lineHeight(st style.Style) float64 {
	size := st.SizePt
	if size <= 0 {
		size = defaultSizePt
	}
	return size * c.lineSpacing
}

func (c *PDF) applyStyle(st style.Style) {
	family := fontFamily(st)
	var flags string
	if st.Bold {
		flags += "B"
	}
	if st.Italic {
		flags += "I"
	}
	size := st.SizePt
	if size <= 0 {
		size = defaultSizePt
	}
	c.pdf.SetFont(family, flags, size)
	r, g, b := st.TextColor.RGB255()
	c.pdf.SetTextColor(r, g, b)
}

// fontFamily maps a requested family onto one of the core PDF fonts.
func fontFamily(st style.Style) string {
	name := strings.ToLower(st.FontFamily)
	switch {
	case st.Monospace || strings.Contains(name, "courier") || strings.Contains(name, "mono"):
		return "Courier"
	case strings.Contains(name, "times") || strings.Contains(name, "serif"):
		return "Times"
	default:
		return "Helvetica"
	}
}
