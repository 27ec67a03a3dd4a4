// Package lines turns raw transcription lines into numbered lines: it picks
// the numbered-list region out of a larger document, classifies each line
// by its leading item marker and stops at the end-of-input marker.
package lines

import (
	"regexp"

	"github.com/jackzampolin/bibsplit/internal/itemno"
)

// Space matches one whitespace character, including the no-break and thin
// spaces of typeset text that \s leaves out.
const Space = `[\s\p{Z}]`

// markerRe matches a line-initial item marker: "12. ", "12—14. ", "12а. ".
var markerRe = regexp.MustCompile(`^` + Space + `*(` + itemno.Pattern + `)\.` + Space + `+(.+)$`)

// Classify splits a line into its leading item token and the remaining text.
// Lines without a marker come back unchanged with an empty token. Any token
// returned is accepted by itemno.Parse.
func Classify(line string) (token, rest string) {
	m := markerRe.FindStringSubmatch(line)
	if m == nil {
		return "", line
	}
	// Grammatical but invalid (reversed range, overflow): not a marker.
	if _, err := itemno.Parse(m[1]); err != nil {
		return "", line
	}
	return m[1], m[2]
}
