// Package bag implements the bounded, priority-bucketed container that
// holds concepts, term links and task links.
//
// Items are kept in L levels by quantised priority. Selection walks levels
// from high to low and stops at level l with probability (l+1)/L, so busy
// items are chosen most often while quiet ones are still revisited. When the
// bag is full, inserting evicts one item from the lowest non-empty level.
//
// A Bag is not safe for concurrent use; it belongs to the cycle owner.
package bag

import (
	"math/rand/v2"

	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/ir"
)

// Item is anything a Bag can hold. Budget changes made while an item is in
// the bag must go through the bag (Put, Activate) so the item stays in the
// right level.
type Item[K comparable] interface {
	Key() K
	Budget() ir.Budget
	SetBudget(ir.Budget)
}

// Config sizes a bag.
type Config struct {
	Capacity   int
	Levels     int
	ForgetRate float64 // applied by PutBack
}

const none = -1

type slot[K comparable, V Item[K]] struct {
	item       V
	key        K
	level      int
	prev, next int
}

// Bag is a bounded priority container with unique keys.
type Bag[K comparable, V Item[K]] struct {
	cfg   Config
	rng   *rand.Rand
	slots []slot[K, V]
	free  []int
	index map[K]int
	head  []int // oldest slot per level
	tail  []int // newest slot per level
	count []int

	evictions int64
}

// New creates an empty bag. Capacity and levels below 1 are raised to 1.
func New[K comparable, V Item[K]](cfg Config, rng *rand.Rand) *Bag[K, V] {
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.Levels < 1 {
		cfg.Levels = 1
	}
	b := &Bag[K, V]{
		cfg:   cfg,
		rng:   rng,
		index: make(map[K]int, cfg.Capacity),
		head:  make([]int, cfg.Levels),
		tail:  make([]int, cfg.Levels),
		count: make([]int, cfg.Levels),
	}
	for l := range b.head {
		b.head[l], b.tail[l] = none, none
	}
	return b
}

// Len returns the number of items.
func (b *Bag[K, V]) Len() int {
	return len(b.index)
}

// Capacity returns the maximum number of items.
func (b *Bag[K, V]) Capacity() int {
	return b.cfg.Capacity
}

// Evictions returns how many items have been evicted since creation.
func (b *Bag[K, V]) Evictions() int64 {
	return b.evictions
}

// Put inserts item. If an item with the same key is present, its budget is
// merged with item's (saturating or per field) and the existing instance is
// kept. If the bag overflows, the lowest-priority oldest item is evicted and
// returned.
func (b *Bag[K, V]) Put(item V) (evicted V, ok bool) {
	key := item.Key()
	if s, exists := b.index[key]; exists {
		cur := b.slots[s].item
		cur.SetBudget(calculus.Merge(cur.Budget(), item.Budget()))
		b.relevel(s)
		return evicted, false
	}

	s := b.alloc()
	b.slots[s] = slot[K, V]{item: item, key: key, prev: none, next: none}
	b.index[key] = s
	b.link(s, b.levelOf(item.Budget().Priority))

	if len(b.index) > b.cfg.Capacity {
		return b.evict(), true
	}
	return evicted, false
}

// PutBack returns a taken item after decaying its priority by the forget
// rate.
func (b *Bag[K, V]) PutBack(item V) (evicted V, ok bool) {
	item.SetBudget(calculus.Forget(item.Budget(), b.cfg.ForgetRate))
	return b.Put(item)
}

// Activate merges incoming into the budget of the item with key, using the
// concept activation function. It reports whether the key was present.
func (b *Bag[K, V]) Activate(key K, incoming ir.Budget) bool {
	s, ok := b.index[key]
	if !ok {
		return false
	}
	it := b.slots[s].item
	it.SetBudget(calculus.Activate(it.Budget(), incoming))
	b.relevel(s)
	return true
}

// Take removes and returns an item chosen by the level walk.
func (b *Bag[K, V]) Take() (V, bool) {
	var zero V
	if len(b.index) == 0 {
		return zero, false
	}
	l := b.selectLevel()
	s := b.head[l]
	it := b.slots[s].item
	b.remove(s)
	return it, true
}

// Peek returns the item with key without removing it.
func (b *Bag[K, V]) Peek(key K) (V, bool) {
	if s, ok := b.index[key]; ok {
		return b.slots[s].item, true
	}
	var zero V
	return zero, false
}

// Remove deletes and returns the item with key.
func (b *Bag[K, V]) Remove(key K) (V, bool) {
	s, ok := b.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	it := b.slots[s].item
	b.remove(s)
	return it, true
}

// Items returns all items from the highest level to the lowest, oldest
// first within a level.
func (b *Bag[K, V]) Items() []V {
	out := make([]V, 0, len(b.index))
	for l := len(b.head) - 1; l >= 0; l-- {
		for s := b.head[l]; s != none; s = b.slots[s].next {
			out = append(out, b.slots[s].item)
		}
	}
	return out
}

// Level returns the level the item with key currently sits in.
func (b *Bag[K, V]) Level(key K) (int, bool) {
	s, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.slots[s].level, true
}

func (b *Bag[K, V]) levelOf(priority float64) int {
	l := int(priority * float64(b.cfg.Levels))
	if l >= b.cfg.Levels {
		l = b.cfg.Levels - 1
	}
	if l < 0 {
		l = 0
	}
	return l
}

// selectLevel walks from the top level down. A non-empty level l is chosen
// with probability (l+1)/L; the lowest non-empty level is the fallback.
func (b *Bag[K, V]) selectLevel() int {
	last := none
	for l := len(b.head) - 1; l >= 0; l-- {
		if b.count[l] == 0 {
			continue
		}
		last = l
		if b.rng.Float64() < float64(l+1)/float64(b.cfg.Levels) {
			return l
		}
	}
	return last
}

func (b *Bag[K, V]) evict() V {
	for l := 0; l < len(b.head); l++ {
		if s := b.head[l]; s != none {
			it := b.slots[s].item
			b.remove(s)
			b.evictions++
			return it
		}
	}
	var zero V
	return zero
}

func (b *Bag[K, V]) relevel(s int) {
	want := b.levelOf(b.slots[s].item.Budget().Priority)
	if want == b.slots[s].level {
		return
	}
	b.unlink(s)
	b.link(s, want)
}

func (b *Bag[K, V]) alloc() int {
	if n := len(b.free); n > 0 {
		s := b.free[n-1]
		b.free = b.free[:n-1]
		return s
	}
	b.slots = append(b.slots, slot[K, V]{})
	return len(b.slots) - 1
}

func (b *Bag[K, V]) remove(s int) {
	b.unlink(s)
	delete(b.index, b.slots[s].key)
	b.slots[s] = slot[K, V]{prev: none, next: none}
	b.free = append(b.free, s)
}

// link appends s to the tail of level l.
func (b *Bag[K, V]) link(s, l int) {
	sl := &b.slots[s]
	sl.level = l
	sl.prev = b.tail[l]
	sl.next = none
	if b.tail[l] != none {
		b.slots[b.tail[l]].next = s
	} else {
		b.head[l] = s
	}
	b.tail[l] = s
	b.count[l]++
}

func (b *Bag[K, V]) unlink(s int) {
	sl := &b.slots[s]
	l := sl.level
	if sl.prev != none {
		b.slots[sl.prev].next = sl.next
	} else {
		b.head[l] = sl.next
	}
	if sl.next != none {
		b.slots[sl.next].prev = sl.prev
	} else {
		b.tail[l] = sl.prev
	}
	sl.prev, sl.next = none, none
	b.count[l]--
}
