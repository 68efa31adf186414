// Package options converts the heterogeneous option collections a script may
// pass into an ordered, canonical option set. The supported shapes form a
// small closed set of tagged variants resolved once at the boundary:
// sequences, tabular data (single column or column names), scalars, and
// exhaustible producers.
package options

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-liveform/pkg/apierror"
)

type sourceKind int

const (
	kindNone sourceKind = iota
	kindSequence
	kindTable
	kindScalar
	kindProducer
)

// Column is one named column of a Table.
type Column struct {
	Name   string
	Values []any
}

// Table is a minimal column-oriented tabular shape. A single-column table
// contributes its values as options; a multi-column table contributes its
// column names.
type Table struct {
	Columns []Column
}

// Source is a tagged option collection. The zero Source carries no options.
type Source struct {
	kind     sourceKind
	sequence []any
	table    Table
	scalar   any
	producer func() (any, bool)
}

// FromSlice wraps an ordered sequence of raw values.
func FromSlice(values []any) Source {
	return Source{kind: kindSequence, sequence: values}
}

// FromStrings wraps an ordered sequence of strings.
func FromStrings(values ...string) Source {
	raw := make([]any, len(values))
	for i, v := range values {
		raw[i] = v
	}
	return Source{kind: kindSequence, sequence: raw}
}

// FromTable wraps tabular data.
func FromTable(table Table) Source {
	return Source{kind: kindTable, table: table}
}

// FromScalar wraps a single value as a one-entry option list.
func FromScalar(value any) Source {
	return Source{kind: kindScalar, scalar: value}
}

// FromIterator wraps an exhaustible producer. The producer is drained exactly
// once, during Normalize; it returns (value, true) per entry and
// (_, false) when exhausted.
func FromIterator(next func() (any, bool)) Source {
	return Source{kind: kindProducer, producer: next}
}

// FormatFunc converts a raw option value into its display content.
type FormatFunc func(any) string

// DefaultFormat is the identity string conversion applied when the caller
// supplies no format function. Nil formats as "None" so client echoes of
// empty values round-trip to the same content.
func DefaultFormat(v any) string {
	if v == nil {
		return "None"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Set is a normalized option collection: raw values paired with their display
// contents, first-seen order preserved. Duplicates are kept; identity is by
// position, not value equality.
type Set struct {
	Raw      []any
	Contents []string
}

// Len returns the number of options.
func (s Set) Len() int {
	return len(s.Contents)
}

// IndexOf locates a raw value in the set, matching first by raw equality and
// then by formatted content. Returns the first matching position.
// Non-comparable values (slices, maps) fall through to content matching.
func (s Set) IndexOf(value any, format FormatFunc) (int, bool) {
	if isComparable(value) {
		for i, raw := range s.Raw {
			if isComparable(raw) && raw == value {
				return i, true
			}
		}
	}
	if format == nil {
		format = DefaultFormat
	}
	content := format(value)
	for i, c := range s.Contents {
		if c == content {
			return i, true
		}
	}
	return 0, false
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// Normalize resolves a Source into a Set, converting every raw value to its
// display content via format (DefaultFormat when nil). Empty input of any
// variant yields an empty Set, never an error.
func Normalize(src Source, format FormatFunc) (Set, error) {
	if format == nil {
		format = DefaultFormat
	}

	raw, err := collect(src)
	if err != nil {
		return Set{}, err
	}

	set := Set{
		Raw:      raw,
		Contents: make([]string, len(raw)),
	}
	for i, v := range raw {
		set.Contents[i] = format(v)
	}
	return set, nil
}

func collect(src Source) ([]any, error) {
	switch src.kind {
	case kindNone:
		return nil, nil
	case kindSequence:
		out := make([]any, len(src.sequence))
		copy(out, src.sequence)
		return out, nil
	case kindTable:
		return collectTable(src.table), nil
	case kindScalar:
		return []any{src.scalar}, nil
	case kindProducer:
		if src.producer == nil {
			return nil, nil
		}
		var out []any
		for {
			v, ok := src.producer()
			if !ok {
				return out, nil
			}
			out = append(out, v)
		}
	default:
		return nil, apierror.Configf("unsupported option source kind %d", int(src.kind))
	}
}

func collectTable(table Table) []any {
	switch len(table.Columns) {
	case 0:
		return nil
	case 1:
		out := make([]any, len(table.Columns[0].Values))
		copy(out, table.Columns[0].Values)
		return out
	default:
		out := make([]any, len(table.Columns))
		for i, col := range table.Columns {
			out[i] = col.Name
		}
		return out
	}
}
