package mdast

import (
	"fmt"
	"regexp"
)

// DefaultPunctuation is the character class of trailing characters after
// which a mis-closed emphasis delimiter is still repaired. This is a
// tolerance heuristic carried over from hand-written documents, not a
// grammar rule; callers that hit inputs outside it can widen the class.
const DefaultPunctuation = `.,;:!?)\]}»”’`

// Preprocessor repairs the most common authoring mistake a strict CommonMark
// parser refuses to honor: a space left before a closing emphasis delimiter,
// as in "**bold **." — the space is moved outside the delimiter so the
// emphasis closes. It runs as an explicit stage in front of the parser and
// is independently testable.
type Preprocessor struct {
	re *regexp.Regexp
}

// NewPreprocessor builds a preprocessor using the given trailing punctuation
// class; an empty string selects DefaultPunctuation.
func NewPreprocessor(punctuation string) *Preprocessor {
	if punctuation == "" {
		punctuation = DefaultPunctuation
	}
	// non-space, then spaces, then a closing delimiter, then end of line,
	// whitespace, or tolerated punctuation
	pat := fmt.Sprintf(`(\S)[ \t]+(\*\*\*|___|\*\*|__|\*|_)([%s\s]|$)`, punctuation)
	return &Preprocessor{re: regexp.MustCompile(pat)}
}

// Apply rewrites source, relocating spaces that sit between emphasized text
// and its closing delimiter. Idempotent: applying twice yields the same
// output.
func (p *Preprocessor) Apply(source string) string {
	return p.re.ReplaceAllString(source, "${1}${2} ${3}")
}
