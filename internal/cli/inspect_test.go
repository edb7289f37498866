package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nars/internal/engine"
	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/store"
)

// seedStore saves one snapshot per label, each after a cycle over lines.
func seedStore(t *testing.T, lines []string, labels ...string) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "nars.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	r, err := engine.New(memory.DefaultConfig(), engine.WithIDGenerator(engine.NewFixedGenerator("r-inspect")))
	require.NoError(t, err)
	for _, line := range lines {
		require.NoError(t, r.Input(line))
	}
	for i, label := range labels {
		_, err := r.Step(context.Background())
		require.NoError(t, err)
		require.NoError(t, st.Save(context.Background(), store.Record{
			ID:       []string{"snap-1", "snap-2", "snap-3"}[i],
			Reasoner: r.ID(),
			Label:    label,
			Snapshot: r.Snapshot(),
		}))
	}
	return db
}

func TestInspect_List(t *testing.T) {
	db := seedStore(t, []string{"<a --> b>."}, "first", "second")

	out, _, err := execute(t, NewInspectCommand(testOptions("text", nil)), "", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "snap-1  reasoner=r-inspect cycle=1")
	assert.Contains(t, out, `label="second"`)
}

func TestInspect_ListJSON(t *testing.T) {
	db := seedStore(t, []string{"<a --> b>."}, "first", "second")

	out, _, err := execute(t, NewInspectCommand(testOptions("json", nil)), "", "--db", db, "--reasoner", "r-inspect")
	require.NoError(t, err)

	var resp struct {
		Data SnapshotList `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Snapshots, 2)
	assert.Equal(t, "snap-1", resp.Data.Snapshots[0].ID)
	assert.Equal(t, int64(2), resp.Data.Snapshots[1].Cycle)
}

func TestInspect_ListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nars.db")

	out, _, err := execute(t, NewInspectCommand(testOptions("text", nil)), "", "--db", db, "--reasoner", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "No snapshots found.\n", out)
}

func TestInspect_Summary(t *testing.T) {
	db := seedStore(t, []string{"<a --> b>."}, "first")

	out, _, err := execute(t, NewInspectCommand(testOptions("text", nil)), "", "snap-1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot: snap-1\n")
	assert.Contains(t, out, "Label:    first\n")
	assert.Contains(t, out, "Cycle:    1\n")
	assert.Contains(t, out, "Evidence: 1\n")
}

func TestInspect_Latest(t *testing.T) {
	db := seedStore(t, []string{"<a --> b>."}, "first", "second")

	out, _, err := execute(t, NewInspectCommand(testOptions("json", nil)), "", "latest", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Data SnapshotInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "snap-2", resp.Data.ID)
	assert.Equal(t, "second", resp.Data.Label)
}

func TestInspect_Concept(t *testing.T) {
	db := seedStore(t, []string{"<a --> b>.", "<a --> b>?"}, "first")

	out, _, err := execute(t, NewInspectCommand(testOptions("json", nil)), "", "snap-1", "--db", db, "--term", "<a-->b>")
	require.NoError(t, err)

	var resp struct {
		Data ConceptInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "<a --> b>", resp.Data.Term)
	assert.Equal(t, []string{"<a --> b>. %1.00;0.90% {1}"}, resp.Data.Beliefs)
	assert.Len(t, resp.Data.TermLinks, 2)

	out, _, err = execute(t, NewInspectCommand(testOptions("text", nil)), "", "snap-1", "--db", db, "--term", "<a --> b>")
	require.NoError(t, err)
	assert.Contains(t, out, "Concept: <a --> b>")
	assert.Contains(t, out, "Beliefs:\n  <a --> b>. %1.00;0.90% {1}\n")
}

func TestInspect_NotFound(t *testing.T) {
	db := seedStore(t, []string{"<a --> b>."}, "first")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown snapshot", []string{"nope", "--db", db}},
		{"unknown concept", []string{"snap-1", "--db", db, "--term", "<x --> y>"}},
		{"latest of unknown reasoner", []string{"latest", "--db", db, "--reasoner", "nobody"}},
		{"malformed term", []string{"snap-1", "--db", db, "--term", "<x -->"}},
		{"term without id", []string{"--db", db, "--term", "<a --> b>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, NewInspectCommand(testOptions("text", nil)), "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
