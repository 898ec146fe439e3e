// Package style models the formatting context applied to text runs while
// walking a markdown tree. A Style is a plain value; entering a nested
// formatting construct pushes a modified copy onto a Stack and leaving pops
// it, so unwinding restores the exact prior context rather than subtracting
// traits.
package style

// Color is a normalized RGBA color, each channel in [0, 1]. Conversion to a
// target format's native representation (hex, 0-255 triples) happens only at
// the serialization boundary.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Byte returns the 0-255 value of a single normalized channel.
func channelByte(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int(v*255 + 0.5)
}

// RGB255 returns the color as 0-255 channel values.
func (c Color) RGB255() (r, g, b int) {
	return channelByte(c.R), channelByte(c.G), channelByte(c.B)
}

// Style is one formatting context: the font and colors a text run is drawn
// with. Styles are immutable values; derive variants with the With* methods.
type Style struct {
	FontFamily string  `json:"font_family"`
	SizePt     float64 `json:"size_pt"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	Monospace  bool    `json:"monospace"`
	TextColor  Color   `json:"text_color"`
	// Background is nil when the run has no fill.
	Background *Color `json:"background,omitempty"`
}

// WithBold returns a copy of s with bold set.
func (s Style) WithBold() Style {
	s.Bold = true
	return s
}

// WithItalic returns a copy of s with italic set.
func (s Style) WithItalic() Style {
	s.Italic = true
	return s
}

// WithMonospace returns a copy of s switched to the monospace face.
func (s Style) WithMonospace(family string) Style {
	s.Monospace = true
	if family != "" {
		s.FontFamily = family
	}
	return s
}

// WithSize returns a copy of s at the given point size.
func (s Style) WithSize(pt float64) Style {
	s.SizePt = pt
	return s
}

// Stack is the style stack for one render call. The base (body) style is the
// stack floor and is never popped; Top is always valid. A Stack must not be
// shared across concurrent render calls.
type Stack struct {
	frames []Style
}

// NewStack creates a stack with base as its floor.
func NewStack(base Style) *Stack {
	return &Stack{frames: []Style{base}}
}

// Top returns the current style.
func (st *Stack) Top() Style {
	return st.frames[len(st.frames)-1]
}

// Depth reports how many styles are on the stack, including the floor.
func (st *Stack) Depth() int {
	return len(st.frames)
}

// Push makes s the current style.
func (st *Stack) Push(s Style) {
	st.frames = append(st.frames, s)
}

// Pop restores the previous style. The floor is never removed.
func (st *Stack) Pop() {
	if len(st.frames) > 1 {
		st.frames = st.frames[:len(st.frames)-1]
	}
}

// With pushes s, runs fn, and pops on every exit path, so callers cannot
// unbalance the stack even when fn panics or returns early.
func (st *Stack) With(s Style, fn func()) {
	st.Push(s)
	defer st.Pop()
	fn()
}
