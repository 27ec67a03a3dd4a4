// Package record holds a reconstructed bibliography entry: its item number,
// any fields parsed from its text, the raw trailing text and the source
// lines it was assembled from.
package record

import (
	"strconv"

	"github.com/jackzampolin/bibsplit/internal/itemno"
)

// KeyNum is the first field of every record.
const KeyNum = "num"

// MissingTail is the text of a placeholder for an absent item.
const MissingTail = "MISSING"

// Field is one named value of a record.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Record is one bibliography entry. Start and End are inclusive 1-based line
// numbers of the source lines that make up the entry.
type Record struct {
	Num   itemno.ItemNumber
	Tail  string
	Start int
	End   int

	placeholder bool
	fields      []Field
}

// New creates a record whose first field is its item number.
func New(num itemno.ItemNumber, tail string, start, end int) *Record {
	return &Record{
		Num:    num,
		Tail:   tail,
		Start:  start,
		End:    end,
		fields: []Field{{Key: KeyNum, Value: num.String()}},
	}
}

// NewPlaceholder creates the stand-in for an item the numbering shows to be
// missing. It has no source lines of its own: Start and End both point at
// the line before the item that revealed the gap.
func NewPlaceholder(num itemno.ItemNumber, line int) *Record {
	r := New(num, MissingTail, line, line)
	r.placeholder = true
	return r
}

// IsPlaceholder reports whether r stands in for a missing item.
func (r *Record) IsPlaceholder() bool { return r.placeholder }

// Set adds a field, or replaces the value of an existing one in place.
func (r *Record) Set(key, value string) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Get returns a field value.
func (r *Record) Get(key string) (string, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Fields returns a copy of the fields in insertion order.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Serialize flattens the record: start, end, every field value in order,
// then the tail.
func (r *Record) Serialize() []string {
	out := make([]string, 0, len(r.fields)+3)
	out = append(out, strconv.Itoa(r.Start), strconv.Itoa(r.End))
	for _, f := range r.fields {
		out = append(out, f.Value)
	}
	return append(out, r.Tail)
}

// Row is the structured form of a record used by the JSON and YAML writers.
type Row struct {
	Start   int     `json:"start" yaml:"start"`
	End     int     `json:"end" yaml:"end"`
	Num     string  `json:"num" yaml:"num"`
	Missing bool    `json:"missing,omitempty" yaml:"missing,omitempty"`
	Fields  []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	Tail    string  `json:"tail" yaml:"tail"`
}

// Row returns r in structured form. Fields lists everything after num.
func (r *Record) Row() Row {
	row := Row{
		Start:   r.Start,
		End:     r.End,
		Num:     r.Num.String(),
		Missing: r.placeholder,
		Tail:    r.Tail,
	}
	if len(r.fields) > 1 {
		row.Fields = make([]Field, len(r.fields)-1)
		copy(row.Fields, r.fields[1:])
	}
	return row
}
