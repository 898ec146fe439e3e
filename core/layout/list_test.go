package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpipe/core/mdast"
)

func num(n int) *int { return &n }

func item(text string, number *int) mdast.ListItem {
	return mdast.ListItem{Runs: []mdast.Run{{Text: text}}, Number: number}
}

func TestOrderedNumberingPreservation(t *testing.T) {
	lst := &mdast.List{
		Ordered: true,
		Items: []mdast.ListItem{
			item("a", num(5)),
			item("b", nil),
			item("c", nil),
			item("d", num(2)),
		},
	}
	lines := LayoutList(lst, 0)
	require.Len(t, lines, 4)
	markers := []string{lines[0].Marker, lines[1].Marker, lines[2].Marker, lines[3].Marker}
	assert.Equal(t, []string{"5.", "6.", "7.", "2."}, markers)
}

func TestNestedListNumbersIndependently(t *testing.T) {
	inner := &mdast.List{
		Ordered: true,
		Items:   []mdast.ListItem{item("i1", nil), item("i2", nil)},
	}
	outer := &mdast.List{
		Ordered: true,
		Items: []mdast.ListItem{
			item("o1", num(4)),
			{Runs: []mdast.Run{{Text: "o2"}}, Sub: inner},
			item("o3", nil),
		},
	}
	lines := LayoutList(outer, 0)
	require.Len(t, lines, 5)
	assert.Equal(t, "4.", lines[0].Marker)
	assert.Equal(t, "5.", lines[1].Marker)
	assert.Equal(t, "1.", lines[2].Marker, "nested list restarts its own counter")
	assert.Equal(t, "2.", lines[3].Marker)
	assert.Equal(t, "6.", lines[4].Marker, "outer counter unaffected by nested list")
	assert.Equal(t, 1, lines[2].Indent)
}

func TestBulletsByDepth(t *testing.T) {
	tests := []struct {
		depth int
		want  string
	}{
		{0, "•"},
		{1, "◦"},
		{2, "▪"},
		{5, "▪"},
		{-1, "•"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bullet(tt.depth), "depth %d", tt.depth)
	}
}

func TestTaskMarkers(t *testing.T) {
	done, todo := true, false
	lst := &mdast.List{Items: []mdast.ListItem{
		{Runs: []mdast.Run{{Text: "done"}}, TaskDone: &done},
		{Runs: []mdast.Run{{Text: "todo"}}, TaskDone: &todo},
	}}
	lines := LayoutList(lst, 0)
	assert.Equal(t, "[x]", lines[0].Marker)
	assert.Equal(t, "[ ]", lines[1].Marker)
}

func TestUnorderedNestedBullets(t *testing.T) {
	inner := &mdast.List{Items: []mdast.ListItem{item("deep", nil)}}
	outer := &mdast.List{Items: []mdast.ListItem{
		{Runs: []mdast.Run{{Text: "top"}}, Sub: inner},
	}}
	lines := LayoutList(outer, 0)
	require.Len(t, lines, 2)
	assert.Equal(t, "•", lines[0].Marker)
	assert.Equal(t, "◦", lines[1].Marker)
}
