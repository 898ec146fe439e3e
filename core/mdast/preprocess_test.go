package mdast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessorRelocatesTrailingSpace(t *testing.T) {
	p := NewPreprocessor("")
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold before period", "this is **bold **.", "this is **bold** ."},
		{"bold at end of line", "this is **bold **", "this is **bold** "},
		{"italic before comma", "an *aside *, continued", "an *aside* , continued"},
		{"underscore emphasis", "some _words _!", "some _words_ !"},
		{"already well formed", "this is **bold**.", "this is **bold**."},
		{"opening delimiter untouched", "foo **bar** baz", "foo **bar** baz"},
		{"no emphasis", "plain text only", "plain text only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Apply(tt.in))
		})
	}
}

func TestPreprocessorIdempotent(t *testing.T) {
	p := NewPreprocessor("")
	in := "mix of **bold ** and *italic *."
	once := p.Apply(in)
	assert.Equal(t, once, p.Apply(once))
}

func TestPreprocessorCustomPunctuation(t *testing.T) {
	// with a narrowed class, a repaired period no longer qualifies
	p := NewPreprocessor(",")
	assert.Equal(t, "a **b **.", p.Apply("a **b **."))
	assert.Equal(t, "a **b** ,", p.Apply("a **b **,"))
}
