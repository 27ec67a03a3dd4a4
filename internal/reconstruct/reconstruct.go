// Package reconstruct rebuilds record boundaries from numbered lines.
//
// A printed bibliography is trusted to be mostly sequential. A line whose
// marker is the next expected number (or a small jump ahead) starts a new
// record, and every number skipped by the jump is filled with a MISSING
// placeholder so the output stays aligned with the printed numbering. A
// marker that jumps too far ahead, goes backwards or repeats is treated as
// a stray numeral (a year, a print run) and kept as text of the open record.
package reconstruct

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/jackzampolin/bibsplit/internal/itemno"
	"github.com/jackzampolin/bibsplit/internal/lines"
	"github.com/jackzampolin/bibsplit/internal/record"
)

// DefaultGapTolerance is the largest forward jump in numbering still read
// as missing items rather than as a stray numeral.
const DefaultGapTolerance = 10

// Config configures a Reconstructor.
type Config struct {
	// GapTolerance is the largest accepted jump; <= 0 uses the default.
	GapTolerance int
	Logger       *slog.Logger
}

// Stats counts what happened during the last pass.
type Stats struct {
	Records      int `json:"records" yaml:"records"`
	Placeholders int `json:"placeholders" yaml:"placeholders"`
	Absorbed     int `json:"absorbed" yaml:"absorbed"`
	Regressive   int `json:"regressive" yaml:"regressive"`
	Dropped      int `json:"dropped" yaml:"dropped"`
}

// Reconstructor turns numbered lines into records. It keeps the state of a
// single pass and must not be ranged over concurrently.
type Reconstructor struct {
	k      int
	logger *slog.Logger

	itemno    itemno.ItemNumber
	stack     []string
	startline int
	lastline  int
	stats     Stats
}

// New creates a Reconstructor.
func New(cfg Config) *Reconstructor {
	k := cfg.GapTolerance
	if k <= 0 {
		k = DefaultGapTolerance
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconstructor{
		k:      k,
		logger: logger.With("component", "reconstruct", "gap_tolerance", k),
	}
}

// GapTolerance returns the effective gap tolerance.
func (r *Reconstructor) GapTolerance() int { return r.k }

// Stats returns the counters of the most recent pass.
func (r *Reconstructor) Stats() Stats { return r.stats }

// Records lazily yields the records found in src. Every range over the
// result starts a fresh pass; abandoning it early is safe.
func (r *Reconstructor) Records(src iter.Seq[lines.Numbered]) iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		r.reset()
		for nl := range src {
			r.lastline = nl.Line
			if !r.step(nl, yield) {
				return
			}
		}
		if len(r.stack) > 0 {
			yield(r.close(r.lastline))
		}
	}
}

// Reconstruct is shorthand for New(Config{GapTolerance: k}).Records(src).
func Reconstruct(src iter.Seq[lines.Numbered], k int) iter.Seq[*record.Record] {
	return New(Config{GapTolerance: k}).Records(src)
}

func (r *Reconstructor) reset() {
	r.itemno = itemno.ItemNumber{}
	r.stack = nil
	r.startline = 0
	r.lastline = 0
	r.stats = Stats{}
}

// step consumes one line and reports whether the consumer wants more.
//
// An unmarked line continues the open record, or is dropped while nothing
// has been collected. Once a stray numeral ahead of the first item has
// opened a num 0 record, unmarked lines join that record too. A marker equal
// to the current item is kept as text, like a regressive one.
func (r *Reconstructor) step(nl lines.Numbered, yield func(*record.Record) bool) bool {
	num := nl.Number()

	switch {
	case num.IsZero():
		if len(r.stack) == 0 {
			r.stats.Dropped++
			r.logger.Debug("dropping line before first item", "line", nl.Line)
			return true
		}
		r.stack = append(r.stack, nl.Text)

	case num.CompareItem(r.itemno) > 0:
		diff := num.SubItem(r.itemno)
		if diff > r.k {
			r.stats.Absorbed++
			r.logger.Debug("marker too far ahead, kept as text",
				"line", nl.Line, "marker", num.String(), "current", r.itemno.String(), "diff", diff)
			if len(r.stack) == 0 {
				// Text ahead of the first item still records where it began.
				r.startline = nl.Line
			}
			r.stack = append(r.stack, embed(num, nl.Text))
			return true
		}
		if len(r.stack) > 0 {
			if !yield(r.close(nl.Line - 1)) {
				return false
			}
		}
		for n := r.itemno.Value() + 1; n < num.Num(); n++ {
			r.stats.Placeholders++
			r.logger.Debug("filling missing item", "line", nl.Line, "item", n)
			if !yield(record.NewPlaceholder(itemno.FromInt(n), nl.Line-1)) {
				return false
			}
		}
		r.itemno = num
		r.stack = []string{nl.Text}
		r.startline = nl.Line

	default:
		r.stats.Regressive++
		r.logger.Debug("marker not ahead of current item, kept as text",
			"line", nl.Line, "marker", num.String(), "current", r.itemno.String())
		r.stack = append(r.stack, embed(num, nl.Text))
	}
	return true
}

// close finalizes the open record and clears the stack.
func (r *Reconstructor) close(end int) *record.Record {
	rec := record.New(r.itemno, strings.Join(r.stack, " "), r.startline, end)
	r.stack = nil
	r.stats.Records++
	return rec
}

// embed restores a rejected marker to the text it was split from.
func embed(num itemno.ItemNumber, text string) string {
	return fmt.Sprintf("%s. %s", num, text)
}
