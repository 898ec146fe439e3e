// Package meta models the round-trippable formatting record carried from an
// imported document to a later export. A Formatting value is constructed
// with safe defaults, optionally filled in by the import pipeline, and read
// only from then on; each render call gets its own copy.
package meta

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/flow"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/style"
)

// HeadingStyle is the per-level styling override for headings 1..6.
type HeadingStyle struct {
	SizePt float64      `json:"size_pt,omitempty"`
	Bold   *bool        `json:"bold,omitempty"`
	Italic bool         `json:"italic,omitempty"`
	Color  *style.Color `json:"color,omitempty"`
}

// Formatting is the document-level styling record. Every field falls back
// to a per-format default when zero, so a partially populated record (the
// normal outcome of best-effort extraction) always renders.
type Formatting struct {
	FontFamily      string       `json:"font_family,omitempty"`
	MonoFontFamily  string       `json:"mono_font_family,omitempty"`
	SizePt          float64      `json:"size_pt,omitempty"`
	TextColor       *style.Color `json:"text_color,omitempty"`
	BackgroundColor *style.Color `json:"background_color,omitempty"`

	PageWidthPt  float64 `json:"page_width_pt,omitempty"`
	PageHeightPt float64 `json:"page_height_pt,omitempty"`
	MarginPt     float64 `json:"margin_pt,omitempty"`
	LineSpacing  float64 `json:"line_spacing,omitempty"`

	// Headings holds per-level overrides keyed by heading level 1..6.
	Headings map[int]HeadingStyle `json:"headings,omitempty"`
	// NamedStyles carries paragraph/character styles by name for formats
	// that address styles symbolically.
	NamedStyles map[string]HeadingStyle `json:"named_styles,omitempty"`

	HasTables     bool `json:"has_tables,omitempty"`
	HasImages     bool `json:"has_images,omitempty"`
	HasCodeBlocks bool `json:"has_code_blocks,omitempty"`

	// DiagramImages maps embedded diagram source text to the path of its
	// rendered image, produced by an earlier import.
	DiagramImages map[string]string `json:"diagram_images,omitempty"`

	SourceFormat string `json:"source_format,omitempty"`
	// Raw preserves source metadata keys we do not interpret.
	Raw map[string]string `json:"raw,omitempty"`
}

// default ramp: level 1 is largest and boldest, tapering to body size.
var defaultHeadingSizes = [6]float64{24, 20, 16, 14, 13, 12}

// DefaultFor returns the safe defaults for a format. Pure and total: it
// always succeeds and two calls yield identical values.
func DefaultFor(format core.Format) Formatting {
	f := Formatting{
		FontFamily:     "Helvetica",
		MonoFontFamily: "Courier",
		SizePt:         12,
		TextColor:      &style.Color{A: 1},
		PageWidthPt:    612,
		PageHeightPt:   792,
		MarginPt:       54,
		LineSpacing:    1.4,
		SourceFormat:   string(core.FormatMarkdown),
	}
	f.Headings = make(map[int]HeadingStyle, 6)
	bold := true
	for lvl := 1; lvl <= 6; lvl++ {
		f.Headings[lvl] = HeadingStyle{SizePt: defaultHeadingSizes[lvl-1], Bold: &bold}
	}
	switch format {
	case core.FormatDocx:
		// match the word-processor default body face
		f.FontFamily = "Calibri"
	case core.FormatXlsx:
		f.FontFamily = "Calibri"
		f.SizePt = 11
	}
	return f
}

// Merge overlays o's non-zero fields onto f, returning the result. Used to
// apply config-file or sidecar overrides on top of defaults.
func (f Formatting) Merge(o Formatting) Formatting {
	if o.FontFamily != "" {
		f.FontFamily = o.FontFamily
	}
	if o.MonoFontFamily != "" {
		f.MonoFontFamily = o.MonoFontFamily
	}
	if o.SizePt != 0 {
		f.SizePt = o.SizePt
	}
	if o.TextColor != nil {
		f.TextColor = o.TextColor
	}
	if o.BackgroundColor != nil {
		f.BackgroundColor = o.BackgroundColor
	}
	if o.PageWidthPt != 0 {
		f.PageWidthPt = o.PageWidthPt
	}
	if o.PageHeightPt != 0 {
		f.PageHeightPt = o.PageHeightPt
	}
	if o.MarginPt != 0 {
		f.MarginPt = o.MarginPt
	}
	if o.LineSpacing != 0 {
		f.LineSpacing = o.LineSpacing
	}
	for lvl, hs := range o.Headings {
		if f.Headings == nil {
			f.Headings = make(map[int]HeadingStyle)
		}
		f.Headings[lvl] = hs
	}
	for name, ns := range o.NamedStyles {
		if f.NamedStyles == nil {
			f.NamedStyles = make(map[string]HeadingStyle)
		}
		f.NamedStyles[name] = ns
	}
	for k, v := range o.DiagramImages {
		if f.DiagramImages == nil {
			f.DiagramImages = make(map[string]string)
		}
		f.DiagramImages[k] = v
	}
	for k, v := range o.Raw {
		if f.Raw == nil {
			f.Raw = make(map[string]string)
		}
		f.Raw[k] = v
	}
	f.HasTables = f.HasTables || o.HasTables
	f.HasImages = f.HasImages || o.HasImages
	f.HasCodeBlocks = f.HasCodeBlocks || o.HasCodeBlocks
	if o.SourceFormat != "" {
		f.SourceFormat = o.SourceFormat
	}
	return f
}

// Params resolves f into the concrete render parameters for a format,
// filling every missing field from DefaultFor(format).
type Params struct {
	Geometry    flow.Geometry
	Styles      mdast.StyleSet
	LineSpacing float64
	Background  *style.Color
}

// ParamsFor converts the metadata into encoding parameters so renderers pick
// fonts, sizes, and colors from the record instead of constants.
func (f Formatting) ParamsFor(format core.Format) Params {
	d := DefaultFor(format)
	m := d.Merge(f)

	body := style.Style{
		FontFamily: m.FontFamily,
		SizePt:     m.SizePt,
		TextColor:  *m.TextColor,
	}
	ss := mdast.StyleSet{Body: body, MonoFamily: m.MonoFontFamily}
	for lvl := 1; lvl <= 6; lvl++ {
		hs := m.Headings[lvl]
		s := body
		if hs.SizePt != 0 {
			s.SizePt = hs.SizePt
		} else {
			s.SizePt = defaultHeadingSizes[lvl-1]
		}
		if hs.Bold != nil {
			s.Bold = *hs.Bold
		} else {
			s.Bold = true
		}
		s.Italic = hs.Italic
		if hs.Color != nil {
			s.TextColor = *hs.Color
		}
		ss.Headings[lvl-1] = s
	}

	return Params{
		Geometry: flow.Geometry{
			PageWidth:  m.PageWidthPt,
			PageHeight: m.PageHeightPt,
			Margin:     m.MarginPt,
		},
		Styles:      ss,
		LineSpacing: m.LineSpacing,
		Background:  m.BackgroundColor,
	}
}

// Hex renders a color as an uppercase 6-digit RRGGBB string, the native
// representation of the OOXML formats. Alpha is dropped.
func Hex(c style.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

// ParseHex reads a 6-digit hex color, with or without a leading '#'.
// "auto" and malformed values return ok=false.
func ParseHex(s string) (style.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return style.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return style.Color{}, false
	}
	return style.Color{
		R: float64(v>>16&0xFF) / 255,
		G: float64(v>>8&0xFF) / 255,
		B: float64(v&0xFF) / 255,
		A: 1,
	}, true
}
