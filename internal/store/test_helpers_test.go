package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/testutil"
)

// createTestStore creates a store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSnapshot runs a small memory for a few cycles and snapshots it.
func createTestSnapshot(t *testing.T, lines ...string) memory.Snapshot {
	t.Helper()
	m, err := memory.New(memory.DefaultConfig())
	if err != nil {
		t.Fatalf("memory.New() failed: %v", err)
	}
	for _, line := range lines {
		if err := m.Intake(testutil.MustTask(t, m.Terms(), m, line)); err != nil {
			t.Fatalf("Intake(%q) failed: %v", line, err)
		}
	}
	for i := 0; i < 5; i++ {
		m.ProcessCycle()
	}
	return m.Snapshot()
}
