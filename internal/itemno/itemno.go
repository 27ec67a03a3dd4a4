// Package itemno implements the sequential item number used by printed
// bibliographies. Besides a plain positive number an item may span a range of
// numbers ("12—14") or carry an ordinal letter suffix ("12а") for entries
// inserted between two regularly numbered ones.
package itemno

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// MaxSuffix is the highest ordinal suffix rank (д).
const MaxSuffix = 5

// RangeDash separates the first and last number of a span.
const RangeDash = "—"

// ErrFormat is matched by every FormatError.
var ErrFormat = errors.New("invalid item number")

// FormatError reports text that is not a valid item number.
type FormatError struct {
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid item number %q", e.Text)
	}
	return fmt.Sprintf("invalid item number %q: %s", e.Text, e.Reason)
}

// Is makes errors.Is(err, ErrFormat) true for any FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Pattern is the token grammar without anchors, for embedding in larger
// expressions such as the line classifier.
const Pattern = `[1-9][0-9]*(?:—[1-9][0-9]*)?[aабвгд]?`

var tokenRe = regexp.MustCompile(`^([1-9][0-9]*)(?:—([1-9][0-9]*))?([aабвгд])?$`)

// Latin "a" and Cyrillic "а" are produced interchangeably by OCR.
var suffixRank = map[string]int{
	"":  0,
	"a": 1,
	"а": 1,
	"б": 2,
	"в": 3,
	"г": 4,
	"д": 5,
}

var suffixLetter = [...]string{"", "а", "б", "в", "г", "д"}

// ItemNumber is an item's position in a numbered list. The zero value means
// "no number".
type ItemNumber struct {
	num    int
	suffix int
	span   int
}

// New builds an ItemNumber from its parts.
func New(num, suffix, span int) (ItemNumber, error) {
	text := fmt.Sprintf("num=%d suffix=%d span=%d", num, suffix, span)
	if num < 1 {
		return ItemNumber{}, &FormatError{Text: text, Reason: "number must be positive"}
	}
	if suffix < 0 || suffix > MaxSuffix {
		return ItemNumber{}, &FormatError{Text: text, Reason: "suffix out of range"}
	}
	if span != 0 && span <= num {
		return ItemNumber{}, &FormatError{Text: text, Reason: "range must end after it starts"}
	}
	return ItemNumber{num: num, suffix: suffix, span: span}, nil
}

// FromInt returns a plain item number. Non-positive n yields the zero value.
func FromInt(n int) ItemNumber {
	if n < 1 {
		return ItemNumber{}
	}
	return ItemNumber{num: n}
}

// Parse reads a token of the form digits[—digits][letter].
func Parse(s string) (ItemNumber, error) {
	m := tokenRe.FindStringSubmatch(s)
	if m == nil {
		return ItemNumber{}, &FormatError{Text: s}
	}
	num, err := strconv.Atoi(m[1])
	if err != nil {
		return ItemNumber{}, &FormatError{Text: s, Reason: "number out of range"}
	}
	span := 0
	if m[2] != "" {
		span, err = strconv.Atoi(m[2])
		if err != nil {
			return ItemNumber{}, &FormatError{Text: s, Reason: "range end out of range"}
		}
		if span <= num {
			return ItemNumber{}, &FormatError{Text: s, Reason: "range must end after it starts"}
		}
	}
	return ItemNumber{num: num, suffix: suffixRank[m[3]], span: span}, nil
}

// MustParse is Parse for tokens already validated by the caller.
// It panics on malformed input.
func MustParse(s string) ItemNumber {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Num returns the base number.
func (n ItemNumber) Num() int { return n.num }

// Suffix returns the ordinal suffix rank, 0 when there is none.
func (n ItemNumber) Suffix() int { return n.suffix }

// Span returns the closing number of a range, 0 when n is not a range.
func (n ItemNumber) Span() int { return n.span }

// IsZero reports whether n is the "no number" value.
func (n ItemNumber) IsZero() bool { return n == ItemNumber{} }

// Last is the closing number of a range, or the number itself.
func (n ItemNumber) Last() int {
	if n.span != 0 {
		return n.span
	}
	return n.num
}

// Value is the integer used when n is compared or combined with a count:
// the last number plus the suffix rank.
func (n ItemNumber) Value() int { return n.Last() + n.suffix }

// CompareInt compares n's Value with a plain count.
func (n ItemNumber) CompareInt(count int) int {
	return cmp.Compare(n.Value(), count)
}

// CompareItem orders two item numbers by (num, suffix, span).
func (n ItemNumber) CompareItem(o ItemNumber) int {
	if c := cmp.Compare(n.num, o.num); c != 0 {
		return c
	}
	if c := cmp.Compare(n.suffix, o.suffix); c != 0 {
		return c
	}
	return cmp.Compare(n.span, o.span)
}

// AddInt returns Value()+count.
func (n ItemNumber) AddInt(count int) int { return n.Value() + count }

// SubInt returns Value()-count.
func (n ItemNumber) SubInt(count int) int { return n.Value() - count }

// AddItem returns the sum of both values as a plain integer.
func (n ItemNumber) AddItem(o ItemNumber) int { return n.Value() + o.Value() }

// SubItem returns the difference of both values as a plain integer. Gap
// filling counts missing items with it, so the result stays an int.
func (n ItemNumber) SubItem(o ItemNumber) int { return n.Value() - o.Value() }

// String renders "12—14" for a range and "12б" for a suffixed number.
func (n ItemNumber) String() string {
	if n.span != 0 {
		return strconv.Itoa(n.num) + RangeDash + strconv.Itoa(n.span)
	}
	return strconv.Itoa(n.num) + suffixLetter[n.suffix]
}

// MarshalText implements encoding.TextMarshaler.
func (n ItemNumber) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. "0" and "" decode to the
// zero value.
func (n *ItemNumber) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" || s == "0" {
		*n = ItemNumber{}
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*n = v
	return nil
}
