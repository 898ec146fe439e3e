package mdast

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gaurav-prasanna/docpipe/core/style"
)

// StyleSet supplies the styles the walker applies: the body floor, the
// heading ramp, and the monospace face used for code spans and blocks.
type StyleSet struct {
	Body       style.Style
	Headings   [6]style.Style
	MonoFamily string
}

// Heading returns the ramp style for a 1-6 level. Header levels are always
// 1..6, but any other value falls back to the level-1 style.
func (ss StyleSet) Heading(level int) style.Style {
	if level < 1 || level > 6 {
		level = 1
	}
	return ss.Headings[level-1]
}

// Parse preprocesses and parses markdown, then walks the tree into the
// block model, applying style-stack transitions for nested inline
// constructs. The returned Document is independent of the goldmark tree.
func Parse(source string, styles StyleSet) (*Document, error) {
	pre := NewPreprocessor("")
	src := []byte(pre.Apply(source))

	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.TaskList))
	root := md.Parser().Parse(text.NewReader(src))
	if root == nil {
		return nil, fmt.Errorf("parsing markdown: parser returned no document")
	}

	b := &builder{
		src:    src,
		styles: styles,
		stack:  style.NewStack(styles.Body),
	}
	blocks := b.walkBlocks(root)
	if d := b.stack.Depth(); d != 1 {
		return nil, fmt.Errorf("style stack unbalanced after walk: depth %d", d)
	}
	return &Document{Blocks: blocks, Structure: b.structure}, nil
}

type builder struct {
	src       []byte
	styles    StyleSet
	stack     *style.Stack
	structure Structure
}

func (b *builder) walkBlocks(parent ast.Node) []Block {
	var out []Block
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if blk := b.block(c); blk != nil {
			out = append(out, blk)
		}
	}
	return out
}

// block converts one goldmark block node. Code blocks and tables consume
// their full subtree here and are never re-walked.
func (b *builder) block(n ast.Node) Block {
	switch n := n.(type) {
	case *ast.Heading:
		runs := b.headingRuns(n)
		b.structure.Headings = append(b.structure.Headings, HeadingInfo{
			Level: n.Level,
			Text:  PlainText(runs),
		})
		return &Heading{Level: n.Level, Runs: runs}

	case *ast.Paragraph:
		if img, ok := soleImage(n); ok {
			b.structure.Images++
			return &Image{Alt: b.nodePlain(img), Source: string(img.Destination)}
		}
		runs := b.inlines(n)
		if len(runs) == 0 {
			return nil
		}
		return &Paragraph{Runs: runs}

	case *ast.TextBlock:
		runs := b.inlines(n)
		if len(runs) == 0 {
			return nil
		}
		return &Paragraph{Runs: runs}

	case *ast.FencedCodeBlock:
		b.structure.CodeBlocks++
		return &CodeBlock{Language: string(n.Language(b.src)), Text: b.rawLines(n)}

	case *ast.CodeBlock:
		b.structure.CodeBlocks++
		return &CodeBlock{Text: b.rawLines(n)}

	case *ast.List:
		b.structure.Lists++
		return b.list(n, 0)

	case *ast.Blockquote:
		return &BlockQuote{Children: b.walkBlocks(n)}

	case *ast.ThematicBreak:
		return &ThematicBreak{}

	case *east.Table:
		b.structure.Tables++
		return b.table(n)

	case *ast.HTMLBlock:
		// raw HTML carries no renderable structure
		return nil
	}
	// Unknown block kind: flatten to a paragraph of its inline content so
	// nothing is silently dropped.
	if runs := b.inlines(n); len(runs) > 0 {
		return &Paragraph{Runs: runs}
	}
	return nil
}

// headingRuns renders a heading's inline children under the ramp style for
// its level, so nested emphasis inside the heading composes on top of it.
func (b *builder) headingRuns(n *ast.Heading) []Run {
	var runs []Run
	b.stack.With(b.styles.Heading(n.Level), func() {
		runs = b.inlines(n)
	})
	return runs
}

// inlines accumulates the styled runs of a node's inline children using the
// current top of the style stack. Soft breaks emit a space, hard breaks a
// newline.
func (b *builder) inlines(parent ast.Node) []Run {
	var runs []Run
	b.inlineInto(&runs, parent)
	return runs
}

func (b *builder) inlineInto(runs *[]Run, parent ast.Node) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Text:
			txt := string(n.Segment.Value(b.src))
			if n.HardLineBreak() {
				txt += "\n"
			} else if n.SoftLineBreak() {
				txt += " "
			}
			b.appendRun(runs, txt)

		case *ast.String:
			b.appendRun(runs, string(n.Value))

		case *ast.Emphasis:
			s := b.stack.Top()
			if n.Level >= 2 {
				s = s.WithBold()
			} else {
				s = s.WithItalic()
			}
			b.stack.With(s, func() { b.inlineInto(runs, n) })

		case *ast.CodeSpan:
			b.stack.With(b.stack.Top().WithMonospace(b.styles.MonoFamily), func() {
				b.inlineInto(runs, n)
			})

		case *ast.Link:
			b.structure.Links = append(b.structure.Links, Link{
				Text: b.nodePlain(n),
				Href: string(n.Destination),
			})
			b.inlineInto(runs, n)

		case *ast.AutoLink:
			url := string(n.URL(b.src))
			b.structure.Links = append(b.structure.Links, Link{Text: url, Href: url})
			b.appendRun(runs, url)

		case *ast.Image:
			// Inline image in running text: placeholder run; only
			// image-only paragraphs become Image blocks.
			b.structure.Images++
			b.appendRun(runs, imagePlaceholder(b.nodePlain(n), string(n.Destination)))

		case *east.TaskCheckBox:
			// consumed by the list-item builder

		case *ast.RawHTML:
			// dropped, same as HTML blocks

		default:
			b.inlineInto(runs, c)
		}
	}
}

func (b *builder) appendRun(runs *[]Run, txt string) {
	if txt == "" {
		return
	}
	top := b.stack.Top()
	// merge adjacent runs that share a style, keeps run lists compact
	if n := len(*runs); n > 0 && (*runs)[n-1].Style == top {
		(*runs)[n-1].Text += txt
		return
	}
	*runs = append(*runs, Run{Text: txt, Style: top})
}

// imagePlaceholder is the visible fallback for images that are inline or
// failed to load: alt text plus the raw source.
func imagePlaceholder(alt, src string) string {
	if alt == "" {
		alt = "image"
	}
	return fmt.Sprintf("[Image: %s] (%s)", alt, src)
}

// ImagePlaceholder exposes the fallback text for renderers that recover
// from image load failures.
func ImagePlaceholder(alt, src string) string {
	return imagePlaceholder(alt, src)
}

func (b *builder) list(n *ast.List, depth int) *List {
	lst := &List{Ordered: n.IsOrdered()}
	counter := 0
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		li, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		item := ListItem{Indent: depth}
		if lst.Ordered {
			counter++
			// goldmark records an explicit start only on the list; the
			// first item carries it so later renders preserve the origin
			if counter == 1 && n.Start != 0 {
				start := n.Start
				item.Number = &start
			}
		}
		for cc := li.FirstChild(); cc != nil; cc = cc.NextSibling() {
			switch inner := cc.(type) {
			case *ast.List:
				b.structure.Lists++
				item.Sub = b.list(inner, depth+1)
			case *ast.TextBlock, *ast.Paragraph:
				if done, ok := taskState(inner); ok {
					item.TaskDone = &done
				}
				item.Runs = append(item.Runs, b.inlines(inner)...)
			default:
				item.Runs = append(item.Runs, b.inlines(inner)...)
			}
		}
		lst.Items = append(lst.Items, item)
	}
	return lst
}

// taskState reports whether the block opens with a task checkbox.
func taskState(n ast.Node) (done, ok bool) {
	if cb, isTask := n.FirstChild().(*east.TaskCheckBox); isTask {
		return cb.IsChecked, true
	}
	return false, false
}

func (b *builder) table(n *east.Table) *Table {
	tbl := &Table{}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *east.TableHeader:
			tbl.Header = b.tableCells(row)
		case *east.TableRow:
			tbl.Rows = append(tbl.Rows, b.tableCells(row))
		}
	}
	return tbl
}

func (b *builder) tableCells(row ast.Node) []Cell {
	var cells []Cell
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); !ok {
			continue
		}
		runs := b.inlines(c)
		cells = append(cells, Cell{Runs: runs, Plain: PlainText(runs)})
	}
	return cells
}

// rawLines concatenates a code block's source lines verbatim.
func (b *builder) rawLines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	return sb.String()
}

// nodePlain flattens a node's text descendants without styling.
func (b *builder) nodePlain(n ast.Node) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				sb.Write(t.Segment.Value(b.src))
			case *ast.String:
				sb.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// soleImage reports whether a paragraph consists of exactly one image.
func soleImage(p *ast.Paragraph) (*ast.Image, bool) {
	first := p.FirstChild()
	if first == nil || first != p.LastChild() {
		return nil, false
	}
	img, ok := first.(*ast.Image)
	return img, ok
}
