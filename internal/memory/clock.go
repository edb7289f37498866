package memory

import "sync/atomic"

// Clock issues evidence ids. Every input sentence gets a fresh id from this
// clock, and stamps compare ids to detect shared evidence, so ids must never
// repeat within one memory (including across a snapshot restore).
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first id is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start.
// Used when restoring a snapshot.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next evidence id.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued id without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
