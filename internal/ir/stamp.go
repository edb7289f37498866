package ir

import (
	"slices"
	"strconv"
	"strings"
)

// MaxEvidenceLength caps the number of evidence ids a stamp carries. Older
// evidence falls off the end when two long stamps merge.
const MaxEvidenceLength = 20

// Stamp records which input evidence a sentence is derived from.
//
// Two sentences whose stamps overlap share evidence; combining them would
// count the same observation twice, so revision and two-premise inference
// refuse overlapping premises.
type Stamp struct {
	Evidence []int64 `json:"evidence"`
	Created  int64   `json:"created"` // cycle the sentence was created in
}

// NewStamp returns the stamp of a fresh input with a single evidence id.
func NewStamp(evidence, cycle int64) Stamp {
	return Stamp{Evidence: []int64{evidence}, Created: cycle}
}

// MergeStamps interleaves the evidence of a and b (a first), dropping
// duplicates and truncating at MaxEvidenceLength.
func MergeStamps(a, b Stamp, cycle int64) Stamp {
	out := make([]int64, 0, min(len(a.Evidence)+len(b.Evidence), MaxEvidenceLength))
	seen := make(map[int64]struct{}, cap(out))
	add := func(id int64) {
		if len(out) == MaxEvidenceLength {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for i := 0; i < max(len(a.Evidence), len(b.Evidence)); i++ {
		if i < len(a.Evidence) {
			add(a.Evidence[i])
		}
		if i < len(b.Evidence) {
			add(b.Evidence[i])
		}
	}
	return Stamp{Evidence: out, Created: cycle}
}

// Overlaps reports whether the two stamps share any evidence id.
func (s Stamp) Overlaps(o Stamp) bool {
	for _, a := range s.Evidence {
		if slices.Contains(o.Evidence, a) {
			return true
		}
	}
	return false
}

// SameEvidence reports whether both stamps cover the same evidence set,
// regardless of order.
func (s Stamp) SameEvidence(o Stamp) bool {
	if len(s.Evidence) != len(o.Evidence) {
		return false
	}
	a := slices.Clone(s.Evidence)
	b := slices.Clone(o.Evidence)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// String renders the evidence ids, e.g. {1 2}.
func (s Stamp) String() string {
	parts := make([]string, len(s.Evidence))
	for i, id := range s.Evidence {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "{" + strings.Join(parts, " ") + "}"
}
