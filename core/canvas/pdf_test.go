package canvas

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpipe/core/flow"
	"github.com/gaurav-prasanna/docpipe/core/layout"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/style"
)

func newTestCanvas() *PDF {
	return New(flow.LetterGeometry(), 1.4, nil)
}

func TestTextMeasureGrowsWhenNarrower(t *testing.T) {
	c := newTestCanvas()
	d := &Text{Runs: []mdast.Run{{Text: strings.Repeat("wrapping words ", 30)}}}

	wide, err := c.Measure(d, 500)
	require.NoError(t, err)
	narrow, err := c.Measure(d, 120)
	require.NoError(t, err)
	assert.Greater(t, narrow, wide)
}

func TestTextMeasureIncludesSpacing(t *testing.T) {
	c := newTestCanvas()
	base := &Text{Runs: []mdast.Run{{Text: "one line"}}}
	spaced := &Text{Runs: base.Runs, SpaceBefore: 10, SpaceAfter: 5}

	h1, err := c.Measure(base, 500)
	require.NoError(t, err)
	h2, err := c.Measure(spaced, 500)
	require.NoError(t, err)
	assert.InDelta(t, h1+15, h2, 0.001)
}

func TestLineHeightFollowsLargestRun(t *testing.T) {
	c := newTestCanvas()
	small := &Text{Runs: []mdast.Run{{Text: "x", Style: style.Style{SizePt: 10}}}}
	big := &Text{Runs: []mdast.Run{
		{Text: "x ", Style: style.Style{SizePt: 10}},
		{Text: "y", Style: style.Style{SizePt: 24}},
	}}

	hs, err := c.Measure(small, 500)
	require.NoError(t, err)
	hb, err := c.Measure(big, 500)
	require.NoError(t, err)
	assert.InDelta(t, 10*1.4, hs, 0.001)
	assert.InDelta(t, 24*1.4, hb, 0.001)
}

func TestHardBreakForcesLine(t *testing.T) {
	c := newTestCanvas()
	one := &Text{Runs: []mdast.Run{{Text: "a b", Style: style.Style{SizePt: 12}}}}
	two := &Text{Runs: []mdast.Run{{Text: "a\nb", Style: style.Style{SizePt: 12}}}}

	h1, err := c.Measure(one, 500)
	require.NoError(t, err)
	h2, err := c.Measure(two, 500)
	require.NoError(t, err)
	assert.InDelta(t, 2*h1, h2, 0.001)
}

func TestMarkerDoesNotAffectWrap(t *testing.T) {
	c := newTestCanvas()
	runs := []mdast.Run{{Text: strings.Repeat("list item words ", 20), Style: style.Style{SizePt: 12}}}
	plain := &Text{Runs: runs, Indent: 16}
	marked := &Text{Runs: runs, Indent: 16, Marker: &mdast.Run{Text: "• ", Style: style.Style{SizePt: 12}}}

	hp, err := c.Measure(plain, 200)
	require.NoError(t, err)
	hm, err := c.Measure(marked, 200)
	require.NoError(t, err)
	assert.Greater(t, hp, 12*1.4, "item wraps onto several lines")
	assert.InDelta(t, hp, hm, 0.001, "marker sits left of the text column")

	c.BeginPage()
	require.NoError(t, c.Draw(marked, flow.Rect{X: 54, Y: 54, W: 200, H: hm}))
	c.EndPage()
	_, err = c.Finish()
	require.NoError(t, err)
}

func TestCodeMeasurePerLine(t *testing.T) {
	c := newTestCanvas()
	st := style.Style{Monospace: true, SizePt: 10}
	h2, err := c.Measure(&Code{Lines: []string{"a", "b"}, Style: st}, 500)
	require.NoError(t, err)
	h4, err := c.Measure(&Code{Lines: []string{"a", "b", "c", "d"}, Style: st}, 500)
	require.NoError(t, err)
	assert.InDelta(t, 2*10*1.4, h4-h2, 0.001)
}

func TestTableMeasurePerGridLine(t *testing.T) {
	c := newTestCanvas()
	grid := layout.LayoutTable(&mdast.Table{
		Header: []mdast.Cell{{Plain: "h", Runs: []mdast.Run{{Text: "h"}}}},
		Rows:   [][]mdast.Cell{{{Plain: "v", Runs: []mdast.Run{{Text: "v"}}}}},
	}, style.Style{Bold: true})
	h, err := c.Measure(&Table{Grid: grid, Style: style.Style{Monospace: true, SizePt: 10}}, 500)
	require.NoError(t, err)
	assert.InDelta(t, float64(len(grid.Lines))*10*1.4, h, 0.001)
}

func TestImageScalesDownNotUp(t *testing.T) {
	c := newTestCanvas()
	small := &Image{PxW: 100, PxH: 50}
	w, h := c.fitImage(small, 500)
	assert.InDelta(t, 75.0, w, 0.001)
	assert.InDelta(t, 37.5, h, 0.001)

	wide := &Image{PxW: 2000, PxH: 500}
	w, h = c.fitImage(wide, 500)
	assert.InDelta(t, 500.0, w, 0.001)
	assert.InDelta(t, 125.0, h, 0.001, "aspect ratio held while shrinking")
}

func TestUnknownDrawableRejected(t *testing.T) {
	c := newTestCanvas()
	_, err := c.Measure(struct{}{}, 500)
	assert.Error(t, err)
	assert.Error(t, c.Draw(struct{}{}, flow.Rect{}))
}

func TestFinishEmitsPDF(t *testing.T) {
	c := newTestCanvas()
	c.SetMetadata("Title", "Author", "Subject", time.Time{})
	c.BeginPage()
	require.NoError(t, c.Draw(&Text{Runs: []mdast.Run{{Text: "hello"}}},
		flow.Rect{X: 54, Y: 54, W: 504, H: 20}))
	c.EndPage()
	out, err := c.Finish()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
}

func TestSplitWordsLossless(t *testing.T) {
	for _, s := range []string{"", "one", "two words", " leading", "trailing ", "a  b"} {
		assert.Equal(t, s, strings.Join(splitWords(s), ""), s)
	}
}

func TestFontFamilyMapping(t *testing.T) {
	assert.Equal(t, "Courier", fontFamily(style.Style{Monospace: true}))
	assert.Equal(t, "Courier", fontFamily(style.Style{FontFamily: "JetBrains Mono"}))
	assert.Equal(t, "Times", fontFamily(style.Style{FontFamily: "Times New Roman"}))
	assert.Equal(t, "Helvetica", fontFamily(style.Style{FontFamily: "Arial"}))
}
