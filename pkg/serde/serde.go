// Package serde converts between a widget's semantic value and its wire
// representation, a list of integer positions. Every codec is a bijection
// over the valid domain for one widget instance's fixed option list: no
// shared state, no side effects beyond deterministic translation.
package serde

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-liveform/pkg/apierror"
	"github.com/goliatone/go-liveform/pkg/options"
)

// IndexError reports a wire position beyond the bounds of a codec's mapping.
// It deliberately is not an apierror: an out-of-range index signals a
// protocol-level desync between client and server, a defect, not a user
// facing validation failure.
type IndexError struct {
	Index int
	Len   int
	ID    string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("serde: index %d out of range for %d options (widget %q)", e.Index, e.Len, e.ID)
}

// FeedbackSerde codes a fixed-vocabulary sentiment value through an option
// index mapping: positions in the widget's option list map to abstract
// category indices in a master catalog.
type FeedbackSerde struct {
	OptionIndices []int
}

// Serialize returns the one-element wire list holding the position of v in
// the index mapping. A category absent from the mapping is a domain error.
func (s FeedbackSerde) Serialize(v int) ([]int, error) {
	for pos, mapped := range s.OptionIndices {
		if mapped == v {
			return []int{pos}, nil
		}
	}
	return nil, apierror.Domainf("option %d does not exist in the index mapping %v", v, s.OptionIndices)
}

// Deserialize maps the first wire position back through the index mapping.
// An empty wire value means no selection. Positions beyond the mapping's
// bounds propagate as an IndexError.
func (s FeedbackSerde) Deserialize(wire []int, id string) (int, bool, error) {
	if len(wire) == 0 {
		return 0, false, nil
	}
	pos := wire[0]
	if pos < 0 || pos >= len(s.OptionIndices) {
		return 0, false, &IndexError{Index: pos, Len: len(s.OptionIndices), ID: id}
	}
	return s.OptionIndices[pos], true, nil
}

// SelectSerde codes a zero-or-one selection against the caller's option list.
type SelectSerde struct {
	Set options.Set
}

// Serialize encodes at most one selected raw value as its canonical position.
func (s SelectSerde) Serialize(value any, format options.FormatFunc) ([]int, error) {
	if value == nil {
		return nil, nil
	}
	idx, ok := s.Set.IndexOf(value, format)
	if !ok {
		return nil, apierror.Domainf("option %v is not part of the declared options", value)
	}
	return []int{idx}, nil
}

// Deserialize returns the raw option for the first wire position.
func (s SelectSerde) Deserialize(wire []int, id string) (any, bool, error) {
	if len(wire) == 0 {
		return nil, false, nil
	}
	pos := wire[0]
	if pos < 0 || pos >= s.Set.Len() {
		return nil, false, &IndexError{Index: pos, Len: s.Set.Len(), ID: id}
	}
	return s.Set.Raw[pos], true, nil
}

// MultiSelectSerde codes a zero-or-more selection against the caller's
// option list. Wire positions are emitted in ascending order; selection
// order is irrelevant for equality.
type MultiSelectSerde struct {
	Set options.Set
}

// Serialize encodes the selected raw values as ascending canonical positions.
func (s MultiSelectSerde) Serialize(values []any, format options.FormatFunc) ([]int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		idx, ok := s.Set.IndexOf(v, format)
		if !ok {
			return nil, apierror.Domainf("option %v is not part of the declared options", v)
		}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out, nil
}

// Deserialize returns raw options for the wire positions, in option
// declaration order.
func (s MultiSelectSerde) Deserialize(wire []int, id string) ([]any, error) {
	if len(wire) == 0 {
		return nil, nil
	}
	positions := make([]int, len(wire))
	copy(positions, wire)
	sort.Ints(positions)

	out := make([]any, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= s.Set.Len() {
			return nil, &IndexError{Index: pos, Len: s.Set.Len(), ID: id}
		}
		out = append(out, s.Set.Raw[pos])
	}
	return out, nil
}
