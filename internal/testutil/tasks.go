package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/narsese"
	"github.com/roach88/nars/internal/term"
)

// MustTask parses line into a task or fails the test.
func MustTask(t testing.TB, terms *term.Table, stamps narsese.StampSource, line string) *ir.Task {
	t.Helper()
	task, err := narsese.NewParser(terms, stamps).ParseTask(line)
	require.NoError(t, err, "parse %q", line)
	return task
}

// MustTerm parses text into a term or fails the test.
func MustTerm(t testing.TB, terms *term.Table, text string) term.ID {
	t.Helper()
	id, err := narsese.NewParser(terms, nil).ParseTerm(text)
	require.NoError(t, err, "parse %q", text)
	return id
}
