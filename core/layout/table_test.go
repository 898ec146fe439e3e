package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/style"
)

func cell(plain string, st style.Style) mdast.Cell {
	return mdast.Cell{Plain: plain, Runs: []mdast.Run{{Text: plain, Style: st}}}
}

func body() style.Style {
	return style.Style{FontFamily: "Helvetica", SizePt: 12, TextColor: style.Color{A: 1}}
}

func TestColumnWidthMonotonicity(t *testing.T) {
	st := body()
	tbl := &mdast.Table{
		Header: []mdast.Cell{cell("id", st), cell("name", st)},
		Rows: [][]mdast.Cell{
			{cell("1", st), cell("a very long value", st)},
			{cell("22", st)}, // ragged: second cell missing
			{cell("3", st), cell("x", st), cell("extra", st)}, // ragged: extra column
		},
	}
	widths := ColumnWidths(tbl)
	require.Len(t, widths, 3)

	check := func(cells []mdast.Cell) {
		for i, c := range cells {
			assert.GreaterOrEqual(t, widths[i], utf8.RuneCountInString(c.Plain))
		}
	}
	check(tbl.Header)
	for _, row := range tbl.Rows {
		check(row)
	}
	assert.Equal(t, []int{2, len("a very long value"), len("extra")}, widths)
}

func TestInlineFormattingDoesNotPerturbWidth(t *testing.T) {
	st := body()
	boldCell := mdast.Cell{
		Plain: "bold",
		Runs:  []mdast.Run{{Text: "bold", Style: st.WithBold()}},
	}
	tbl := &mdast.Table{
		Header: []mdast.Cell{cell("head", st)},
		Rows:   [][]mdast.Cell{{boldCell}},
	}
	assert.Equal(t, []int{4}, ColumnWidths(tbl))

	g := LayoutTable(tbl, st)
	// header + body lines must align: every line is the same plain width
	w := utf8.RuneCountInString(g.Lines[0].Plain())
	for i, line := range g.Lines {
		assert.Equal(t, w, utf8.RuneCountInString(line.Plain()), "line %d", i)
	}
}

func TestLayoutTableGrid(t *testing.T) {
	st := body()
	tbl := &mdast.Table{
		Header: []mdast.Cell{cell("A", st), cell("B", st)},
		Rows: [][]mdast.Cell{
			{cell("1", st), cell("2", st)},
			{cell("3", st), cell("4", st)},
		},
	}
	g := LayoutTable(tbl, st)
	// top, header, separator, row, separator, row, bottom
	require.Len(t, g.Lines, 7)

	assert.True(t, strings.HasPrefix(g.Lines[0].Plain(), "┌"))
	assert.Contains(t, g.Lines[0].Plain(), "┬")
	assert.Contains(t, g.Lines[2].Plain(), "┼")
	assert.True(t, strings.HasPrefix(g.Lines[6].Plain(), "└"))

	// header runs are bold, padding included on both sides
	headerPlain := g.Lines[1].Plain()
	assert.Contains(t, headerPlain, "  A  ")
	var sawBold bool
	for _, r := range g.Lines[1].Runs {
		if r.Text == "A" {
			sawBold = r.Style.Bold
		}
	}
	assert.True(t, sawBold)

	// separator between body rows but not after the last one
	assert.Contains(t, g.Lines[4].Plain(), "┼")
	assert.NotContains(t, g.Lines[5].Plain(), "┼")
}

func TestLayoutTableRaggedRowRendersEmptyCell(t *testing.T) {
	st := body()
	tbl := &mdast.Table{
		Header: []mdast.Cell{cell("left", st), cell("right", st)},
		Rows:   [][]mdast.Cell{{cell("x", st)}},
	}
	g := LayoutTable(tbl, st)
	w := utf8.RuneCountInString(g.Lines[0].Plain())
	for _, line := range g.Lines {
		assert.Equal(t, w, utf8.RuneCountInString(line.Plain()))
	}
}

func TestLayoutTableEmpty(t *testing.T) {
	g := LayoutTable(&mdast.Table{}, body())
	assert.Empty(t, g.Lines)
}
