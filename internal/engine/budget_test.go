package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleBudget_WithinLimit(t *testing.T) {
	b := NewCycleBudget(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Check("r-1"), "cycle %d", i+1)
	}
	assert.Equal(t, int64(3), b.Used())
	assert.Zero(t, b.Remaining())
}

func TestCycleBudget_Exhausted(t *testing.T) {
	b := NewCycleBudget(2)
	require.NoError(t, b.Check("r-1"))
	require.NoError(t, b.Check("r-1"))

	err := b.Check("r-1")
	var be *BudgetExhaustedError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "r-1", be.Reasoner)
	assert.Equal(t, int64(2), be.Cycles)
	assert.Equal(t, int64(2), be.Limit)
	assert.Equal(t, int64(2), b.Used(), "a refused cycle is not spent")

	assert.True(t, IsBudgetExhausted(fmt.Errorf("run: %w", err)))
	assert.False(t, IsBudgetExhausted(fmt.Errorf("other")))
}

func TestCycleBudget_Zero(t *testing.T) {
	assert.True(t, IsBudgetExhausted(NewCycleBudget(0).Check("r")))
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	g := UUIDv7Generator{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.Generate()
		require.False(t, seen[id])
		seen[id] = true
	}
}
