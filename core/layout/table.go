// Package layout computes fixed-width textual layouts for tables and lists.
// Widths are measured in characters (rune count), matching the sizing the
// rest of the grid math is tuned to; proportional-font canvases accept the
// slight overestimate.
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/style"
)

// cellPadding is the fixed padding, in characters, on each side of a cell.
const cellPadding = 2

// Line is one rendered line of styled runs.
type Line struct {
	Runs []mdast.Run
}

// Plain flattens the line to unstyled text.
func (l Line) Plain() string {
	return mdast.PlainText(l.Runs)
}

// TableGrid is a laid-out table: per-column content widths plus the full
// box-drawing line sequence (top border, header, separator, rows, bottom
// border).
type TableGrid struct {
	Widths []int
	Lines  []Line
}

// ColumnWidths returns the plain-text content width of each column: the
// widest plain cell across header and body. Ragged rows extend the column
// set but never shrink a width.
func ColumnWidths(t *mdast.Table) []int {
	var widths []int
	measure := func(cells []mdast.Cell) {
		for i, c := range cells {
			w := displayWidth(c.Plain)
			if i == len(widths) {
				widths = append(widths, w)
			} else if w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}
	return widths
}

// displayWidth counts characters of the cell as drawn: hard breaks inside a
// cell flatten to spaces, so the width matches what cellLine emits.
func displayWidth(s string) int {
	return utf8.RuneCountInString(strings.ReplaceAll(s, "\n", " "))
}

// LayoutTable renders t into a box-drawing grid. Border and padding runs use
// the body style; cell runs keep their inline formatting, with width math
// done over the plain text so bold or italic never perturbs alignment.
func LayoutTable(t *mdast.Table, body style.Style) *TableGrid {
	widths := ColumnWidths(t)
	if len(widths) == 0 {
		return &TableGrid{}
	}
	g := &TableGrid{Widths: widths}

	g.Lines = append(g.Lines, borderLine(widths, '┌', '┬', '┐', body))
	g.Lines = append(g.Lines, cellLine(t.Header, widths, body, true))
	g.Lines = append(g.Lines, borderLine(widths, '├', '┼', '┤', body))
	for i, row := range t.Rows {
		if i > 0 {
			g.Lines = append(g.Lines, borderLine(widths, '├', '┼', '┤', body))
		}
		g.Lines = append(g.Lines, cellLine(row, widths, body, false))
	}
	g.Lines = append(g.Lines, borderLine(widths, '└', '┴', '┘', body))
	return g
}

func borderLine(widths []int, left, mid, right rune, body style.Style) Line {
	var sb strings.Builder
	sb.WriteRune(left)
	for i, w := range widths {
		if i > 0 {
			sb.WriteRune(mid)
		}
		sb.WriteString(strings.Repeat("─", w+2*cellPadding))
	}
	sb.WriteRune(right)
	return Line{Runs: []mdast.Run{{Text: sb.String(), Style: body}}}
}

// cellLine renders one row. Missing cells in ragged rows render as empty
// without shrinking their column.
func cellLine(cells []mdast.Cell, widths []int, body style.Style, header bool) Line {
	pad := strings.Repeat(" ", cellPadding)
	var runs []mdast.Run
	push := func(txt string, st style.Style) {
		if txt == "" {
			return
		}
		runs = append(runs, mdast.Run{Text: txt, Style: st})
	}

	push("│", body)
	for i, w := range widths {
		push(pad, body)
		var cell mdast.Cell
		if i < len(cells) {
			cell = cells[i]
		}
		used := displayWidth(cell.Plain)
		for _, r := range cell.Runs {
			st := r.Style
			if header {
				st = st.WithBold()
			}
			push(strings.ReplaceAll(r.Text, "\n", " "), st)
		}
		if used < w {
			push(strings.Repeat(" ", w-used), body)
		}
		push(pad, body)
		push("│", body)
	}
	return Line{Runs: runs}
}
