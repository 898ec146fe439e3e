// Package flow paginates rendered blocks onto fixed-size pages through an
// abstract canvas. The engine owns a single top-down cursor per render call
// and normalizes against the canvas's coordinate origin; it performs no I/O
// and never splits a block across pages.
package flow

import (
	"fmt"

	"github.com/gaurav-prasanna/docpipe/core"
)

// Drawable is opaque, canvas-specific styled content. The engine only ever
// measures and draws it.
type Drawable any

// Rect is a draw region in canvas coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Canvas is the host text-layout surface the engine draws through.
// Implementations decide their own coordinate origin; BottomOrigin tells
// the engine which convention to convert to.
type Canvas interface {
	// Measure returns the height of d laid out at the given width.
	Measure(d Drawable, width float64) (float64, error)
	// Draw renders d into r. r is expressed in the canvas's own origin.
	Draw(d Drawable, r Rect) error
	BeginPage()
	EndPage()
	// BottomOrigin reports whether y grows upward from the page bottom.
	BottomOrigin() bool
	// Finish closes the surface and returns the output bytes.
	Finish() ([]byte, error)
}

// Geometry fixes the page size and margin for one flow.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
}

// LetterGeometry is the default page setup: US Letter in points with a
// three-quarter-inch margin.
func LetterGeometry() Geometry {
	return Geometry{PageWidth: 612, PageHeight: 792, Margin: 54}
}

// ContentWidth is the fixed width every block is measured at.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// ContentHeight is the vertical space available per page.
func (g Geometry) ContentHeight() float64 {
	return g.PageHeight - 2*g.Margin
}

// Page records one emitted page and its content region.
type Page struct {
	Index   int
	Content Rect
}

// Flow measures each block at the content width and assigns it a page and a
// draw rect: when the cursor plus the block height would pass the bottom
// margin, the current page closes and a new one opens before the draw. A
// block taller than a full content area is drawn unsplit on its own page.
// The final open page is closed exactly once.
func Flow(canvas Canvas, blocks []Drawable, geom Geometry) ([]Page, error) {
	if geom.ContentWidth() <= 0 || geom.ContentHeight() <= 0 {
		return nil, fmt.Errorf("%w: page %gx%g too small for margin %g",
			core.ErrInvalidInput, geom.PageWidth, geom.PageHeight, geom.Margin)
	}

	contentRegion := Rect{
		X: geom.Margin, Y: geom.Margin,
		W: geom.ContentWidth(), H: geom.ContentHeight(),
	}
	pages := []Page{{Index: 0, Content: contentRegion}}
	canvas.BeginPage()

	currentY := geom.Margin
	for i, b := range blocks {
		h, err := canvas.Measure(b, geom.ContentWidth())
		if err != nil {
			return nil, fmt.Errorf("%w: measuring block %d: %v", core.ErrRenderingFailed, i, err)
		}
		if currentY+h > geom.PageHeight-geom.Margin && currentY > geom.Margin {
			canvas.EndPage()
			canvas.BeginPage()
			pages = append(pages, Page{Index: len(pages), Content: contentRegion})
			currentY = geom.Margin
		}
		r := Rect{X: geom.Margin, Y: currentY, W: geom.ContentWidth(), H: h}
		if canvas.BottomOrigin() {
			r.Y = geom.PageHeight - currentY - h
		}
		if err := canvas.Draw(b, r); err != nil {
			return nil, fmt.Errorf("%w: drawing block %d: %v", core.ErrRenderingFailed, i, err)
		}
		currentY += h
	}

	canvas.EndPage()
	return pages, nil
}
