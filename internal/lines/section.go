package lines

import (
	"fmt"
	"iter"
	"regexp"
)

// Default section markers of the transcription markup.
const (
	DefaultSectionStart = `^` + Space + `*<div class="titles">`
	DefaultSectionEnd   = `^` + Space + `*</div>`
)

// Section keeps only the lines between a start marker and the following end
// marker. The marker lines are dropped. A document may hold several sections.
type Section struct {
	Start *regexp.Regexp
	End   *regexp.Regexp
}

// NewSection compiles the start and end patterns.
func NewSection(start, end string) (*Section, error) {
	s, err := regexp.Compile(start)
	if err != nil {
		return nil, fmt.Errorf("invalid section start pattern: %w", err)
	}
	e, err := regexp.Compile(end)
	if err != nil {
		return nil, fmt.Errorf("invalid section end pattern: %w", err)
	}
	return &Section{Start: s, End: e}, nil
}

// DefaultSection returns the section for <div class="titles"> blocks.
func DefaultSection() *Section {
	return &Section{
		Start: regexp.MustCompile(DefaultSectionStart),
		End:   regexp.MustCompile(DefaultSectionEnd),
	}
}

// Lines filters src down to the section contents.
func (s *Section) Lines(src iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		inside := false
		for line := range src {
			if s.Start.MatchString(line) {
				inside = true
				continue
			}
			if inside && s.End.MatchString(line) {
				inside = false
				continue
			}
			if inside && !yield(line) {
				return
			}
		}
	}
}
