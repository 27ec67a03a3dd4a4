package lines

import (
	"iter"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/bibsplit/internal/itemno"
)

// DefaultEndMarker stops numbering when a line starts with it.
const DefaultEndMarker = "#END"

// Numbered is one non-blank input line with its 1-based position and the
// item marker found at its start, if any.
type Numbered struct {
	Line  int
	Token string // empty when the line has no marker
	Text  string
}

// Number returns the parsed marker, or the zero value when there is none.
// Token is produced by Classify, so a parse failure is a programming error
// and panics.
func (n Numbered) Number() itemno.ItemNumber {
	if n.Token == "" {
		return itemno.ItemNumber{}
	}
	return itemno.MustParse(n.Token)
}

// Numberer classifies and numbers input lines.
type Numberer struct {
	// EndMarker terminates numbering; the marker line itself is not emitted.
	// Empty disables the check.
	EndMarker string

	// Normalize applies Unicode NFC before classification. OCR output often
	// carries decomposed letters (й as и + U+0306).
	Normalize bool
}

// NewNumberer returns a Numberer with the default end marker and
// normalization enabled.
func NewNumberer() *Numberer {
	return &Numberer{EndMarker: DefaultEndMarker, Normalize: true}
}

// Lines numbers src lazily. Line numbers count every input line, blank ones
// included. Each range over the result re-reads src.
func (nb *Numberer) Lines(src iter.Seq[string]) iter.Seq[Numbered] {
	return func(yield func(Numbered) bool) {
		lineno := 0
		for raw := range src {
			lineno++
			line := strings.TrimSpace(raw)
			if nb.EndMarker != "" && strings.HasPrefix(line, nb.EndMarker) {
				return
			}
			if line == "" {
				continue
			}
			if nb.Normalize {
				line = norm.NFC.String(line)
			}
			token, text := Classify(line)
			if !yield(Numbered{Line: lineno, Token: token, Text: text}) {
				return
			}
		}
	}
}
