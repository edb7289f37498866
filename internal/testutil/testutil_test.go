package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/nars/internal/term"
)

func TestStampCounter_Sequence(t *testing.T) {
	c := NewStampCounter()
	assert.Equal(t, int64(0), c.Current())

	assert.Equal(t, []int64{1}, c.NewStamp().Evidence)
	c.SetCycle(7)
	s := c.NewStamp()
	assert.Equal(t, []int64{2}, s.Evidence)
	assert.Equal(t, int64(7), s.Created)

	c.Reset()
	assert.Equal(t, []int64{1}, c.NewStamp().Evidence)
}

func TestStampCounter_ThreadSafe(t *testing.T) {
	c := NewStampCounter()
	const workers, calls = 20, 50

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				id := c.NewStamp().Evidence[0]
				mu.Lock()
				assert.False(t, seen[id], "duplicate evidence %d", id)
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*calls)
}

func TestFixedIDGenerator(t *testing.T) {
	assert.Equal(t, "r-1", NewFixedIDGenerator("r-1").Generate())
	assert.Equal(t, "test-reasoner", NewFixedIDGenerator("").Generate())
}

func TestMustTask(t *testing.T) {
	terms := term.NewTable()
	task := MustTask(t, terms, NewStampCounter(), "<a --> b>.")
	assert.Equal(t, "<a --> b>", terms.Key(task.Term()))
	assert.Equal(t, MustTerm(t, terms, "<a --> b>"), task.Term())
}
