package memory

import (
	"math"

	"github.com/roach88/nars/internal/ir"
)

// rankedTable holds at most capacity sentences ordered best first: higher
// confidence first, newer first among equals. Ranking by confidence keeps
// the best supported sentence whatever its frequency.
type rankedTable struct {
	capacity int
	items    []ir.Sentence
}

func newRankedTable(capacity int) *rankedTable {
	return &rankedTable{capacity: capacity}
}

func ranksBefore(a, b ir.Sentence) bool {
	ca, cb := a.TruthValue().Confidence, b.TruthValue().Confidence
	if math.Abs(ca-cb) >= ir.Epsilon {
		return ca > cb
	}
	return a.Stamp.Created >= b.Stamp.Created
}

// contains reports whether an equivalent sentence is already stored.
func (t *rankedTable) contains(s ir.Sentence) bool {
	for _, it := range t.items {
		if it.Equivalent(s) {
			return true
		}
	}
	return false
}

// insert places s by rank and reports the sentence evicted to stay within
// capacity, which may be s itself.
func (t *rankedTable) insert(s ir.Sentence) (evicted ir.Sentence, ok bool) {
	i := 0
	for i < len(t.items) && !ranksBefore(s, t.items[i]) {
		i++
	}
	t.items = append(t.items, ir.Sentence{})
	copy(t.items[i+1:], t.items[i:])
	t.items[i] = s

	if len(t.items) > t.capacity {
		evicted = t.items[len(t.items)-1]
		t.items = t.items[:len(t.items)-1]
		return evicted, true
	}
	return evicted, false
}

func (t *rankedTable) removeAt(i int) {
	t.items = append(t.items[:i], t.items[i+1:]...)
}

// best returns the top-ranked sentence.
func (t *rankedTable) best() *ir.Sentence {
	if len(t.items) == 0 {
		return nil
	}
	s := t.items[0]
	return &s
}

// disjointFrom returns the best sentence whose evidence does not overlap
// stamp, falling back to the best sentence overall.
func (t *rankedTable) disjointFrom(stamp ir.Stamp) *ir.Sentence {
	for _, it := range t.items {
		if !it.Stamp.Overlaps(stamp) {
			s := it
			return &s
		}
	}
	return t.best()
}

func (t *rankedTable) len() int {
	return len(t.items)
}

func (t *rankedTable) list() []ir.Sentence {
	return append([]ir.Sentence(nil), t.items...)
}
