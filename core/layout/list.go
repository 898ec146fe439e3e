package layout

import (
	"strconv"

	"github.com/gaurav-prasanna/docpipe/core/mdast"
)

// Depth bullets for unordered lists: solid at the top level, hollow one
// level in, small square below that.
var depthBullets = []string{"•", "◦", "▪"}

// ListLine is one laid-out list item line. Consumers indent the item text by
// IndentStep × (Indent + 1) and draw the marker one marker-width to the left
// of it, so wrapped lines align under the text rather than the bullet.
type ListLine struct {
	Indent int
	Marker string
	Runs   []mdast.Run
}

// Bullet returns the unordered marker for a nesting depth.
func Bullet(depth int) string {
	if depth < 0 {
		depth = 0
	}
	if depth >= len(depthBullets) {
		depth = len(depthBullets) - 1
	}
	return depthBullets[depth]
}

// LayoutList flattens a list (and its nested sub-lists) into marker-tagged
// lines. Ordered numbering honors explicit item numbers and continues
// counting from them; a nested list always numbers independently of its
// parent.
func LayoutList(l *mdast.List, indent int) []ListLine {
	var out []ListLine
	counter := 1
	for _, item := range l.Items {
		marker := Bullet(indent)
		if l.Ordered {
			n := counter
			if item.Number != nil {
				n = *item.Number
			}
			counter = n + 1
			marker = strconv.Itoa(n) + "."
		}
		if item.TaskDone != nil {
			if *item.TaskDone {
				marker = "[x]"
			} else {
				marker = "[ ]"
			}
		}
		out = append(out, ListLine{Indent: indent, Marker: marker, Runs: item.Runs})
		if item.Sub != nil {
			out = append(out, LayoutList(item.Sub, indent+1)...)
		}
	}
	return out
}
