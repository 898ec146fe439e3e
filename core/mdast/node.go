// Package mdast turns parsed Markdown into a closed set of styled block
// nodes. Parsing itself is delegated to goldmark; this package owns the
// walk, the style-stack transitions, and the block model every renderer
// consumes.
package mdast

import "github.com/gaurav-prasanna/docpipe/core/style"

// Block is the closed union of renderable block nodes. Renderers switch
// exhaustively over the concrete types; adding a kind means updating every
// switch, which is the point.
type Block interface {
	isBlock()
}

// Run is a span of text carrying the style that was current when it was
// accumulated.
type Run struct {
	Text  string
	Style style.Style
}

// Paragraph is a flat list of styled runs.
type Paragraph struct {
	Runs []Run
}

// Heading carries its 1-6 level and styled runs.
type Heading struct {
	Level int
	Runs  []Run
}

// CodeBlock holds raw, unstyled code text. The walker extracts the full
// subtree eagerly; a code block's children are never re-walked.
type CodeBlock struct {
	Language string
	Text     string
}

// List is an ordered or unordered list.
type List struct {
	Ordered bool
	Items   []ListItem
}

// ListItem is one item, possibly with a nested sub-list that numbers
// independently of its parent.
type ListItem struct {
	Runs   []Run
	Indent int
	// Number is the explicit ordinal carried by the source document, if any.
	// The list layout honors it and continues counting from it.
	Number *int
	// TaskDone is non-nil for task-list items.
	TaskDone *bool
	Sub      *List
}

// Cell is one table cell: styled runs for drawing plus the plain text used
// for width math, so inline formatting never perturbs column alignment.
type Cell struct {
	Runs  []Run
	Plain string
}

// Table holds header cells and body rows. Rows may be ragged.
type Table struct {
	Header []Cell
	Rows   [][]Cell
}

// BlockQuote wraps nested blocks.
type BlockQuote struct {
	Children []Block
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// Image is a block-level image reference. Loading and decoding happen in
// the renderers; a failed load degrades to a textual placeholder there.
type Image struct {
	Alt    string
	Source string
}

func (*Paragraph) isBlock()     {}
func (*Heading) isBlock()       {}
func (*CodeBlock) isBlock()     {}
func (*List) isBlock()          {}
func (*Table) isBlock()         {}
func (*BlockQuote) isBlock()    {}
func (*ThematicBreak) isBlock() {}
func (*Image) isBlock()         {}

// HeadingInfo is a structural record of one heading.
type HeadingInfo struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Structure summarizes what the document contains. It feeds the JSON output
// and the structural flags of the formatting metadata.
type Structure struct {
	Headings   []HeadingInfo `json:"headings"`
	Links      []Link        `json:"links"`
	CodeBlocks int           `json:"code_blocks"`
	Tables     int           `json:"tables"`
	Lists      int           `json:"lists"`
	Images     int           `json:"images"`
}

// Document is the walk result: the block sequence plus structural counts.
type Document struct {
	Blocks    []Block
	Structure Structure
}

// PlainText flattens runs to their unstyled text.
func PlainText(runs []Run) string {
	var n int
	for _, r := range runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}
