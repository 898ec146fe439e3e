package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseStyle() Style {
	return Style{FontFamily: "Helvetica", SizePt: 12, TextColor: Color{A: 1}}
}

func TestStackFloorNeverPopped(t *testing.T) {
	st := NewStack(baseStyle())
	st.Pop()
	st.Pop()
	require.Equal(t, 1, st.Depth())
	assert.Equal(t, baseStyle(), st.Top())
}

func TestNestedPushRestoresExactContext(t *testing.T) {
	st := NewStack(baseStyle())

	st.Push(st.Top().WithBold())
	bold := st.Top()
	require.True(t, bold.Bold)
	require.False(t, bold.Italic)

	st.Push(st.Top().WithItalic())
	require.True(t, st.Top().Bold, "nested italic keeps outer bold")
	require.True(t, st.Top().Italic)

	st.Pop()
	assert.Equal(t, bold, st.Top(), "leaving the inner construct restores the outer style exactly")

	st.Pop()
	assert.Equal(t, baseStyle(), st.Top())
}

// Style stack symmetry: balanced push/pop sequences of any depth leave the
// stack at the floor.
func TestStackSymmetry(t *testing.T) {
	st := NewStack(baseStyle())
	var nest func(depth int)
	nest = func(depth int) {
		if depth == 0 {
			return
		}
		s := st.Top()
		if depth%2 == 0 {
			s = s.WithBold()
		} else {
			s = s.WithItalic()
		}
		st.With(s, func() { nest(depth - 1) })
	}
	for depth := 0; depth <= 16; depth++ {
		nest(depth)
		assert.Equal(t, 1, st.Depth(), "depth %d", depth)
	}
}

func TestWithPopsOnPanic(t *testing.T) {
	st := NewStack(baseStyle())
	func() {
		defer func() { _ = recover() }()
		st.With(st.Top().WithBold(), func() { panic("boom") })
	}()
	assert.Equal(t, 1, st.Depth())
}

func TestColorRGB255(t *testing.T) {
	tests := []struct {
		name    string
		c       Color
		r, g, b int
	}{
		{"black", Color{A: 1}, 0, 0, 0},
		{"white", Color{R: 1, G: 1, B: 1, A: 1}, 255, 255, 255},
		{"mid gray rounds", Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, 128, 128, 128},
		{"clamped", Color{R: -0.5, G: 1.5, A: 1}, 0, 255, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := tt.c.RGB255()
			assert.Equal(t, []int{tt.r, tt.g, tt.b}, []int{r, g, b})
		})
	}
}
