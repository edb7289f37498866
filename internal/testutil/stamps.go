package testutil

import (
	"sync"

	"github.com/roach88/nars/internal/ir"
)

// StampCounter hands out single-evidence stamps 1, 2, 3, ... for tests that
// parse sentences without a Memory.
//
// Unlike memory.Clock, StampCounter can be reset so a scenario can be
// replayed with identical evidence ids.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StampCounter struct {
	mu    sync.Mutex
	next  int64
	cycle int64
}

// NewStampCounter creates a counter whose first stamp carries evidence 1.
func NewStampCounter() *StampCounter {
	return &StampCounter{}
}

// NewStamp implements narsese.StampSource.
func (c *StampCounter) NewStamp() ir.Stamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return ir.NewStamp(c.next, c.cycle)
}

// SetCycle sets the creation cycle of the following stamps.
func (c *StampCounter) SetCycle(cycle int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycle = cycle
}

// Current returns the last evidence id issued.
func (c *StampCounter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Reset starts over at evidence 1.
func (c *StampCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = 0
	c.cycle = 0
}
