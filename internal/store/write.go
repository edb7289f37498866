package store

import (
	"context"
	"fmt"

	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/term"
)

// Record is a stored snapshot with its identity.
type Record struct {
	ID       string
	Reasoner string
	Label    string
	Snapshot memory.Snapshot
}

// Save writes a snapshot in one transaction. Snapshots are immutable:
// saving an id that already exists does nothing.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("save snapshot: empty id")
	}
	snap := rec.Snapshot
	termsJSON, err := marshalJSON("terms", snap.Terms)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	intake := snap.Intake
	if intake == nil {
		intake = []memory.TaskState{}
	}
	intakeJSON, err := marshalJSON("intake", intake)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, reasoner, label, cycle, evidence, terms, intake)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, rec.Reasoner, rec.Label, snap.Cycle, snap.Evidence, termsJSON, intakeJSON)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	} else if n == 0 {
		return nil
	}

	keys := termKeys(snap.Terms)
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO concepts (snapshot_id, position, term, term_key, priority, state)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save snapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for i, c := range snap.Concepts {
		state, err := marshalJSON("concept", c)
		if err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, i, int64(c.Term), keys[c.Term], c.Budget.Priority, state); err != nil {
			return fmt.Errorf("save snapshot: concept %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

// Delete removes a snapshot and its concepts.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return &NotFoundError{What: "snapshot", ID: id}
	}
	return nil
}

// termKeys rebuilds the canonical key of every entry.
func termKeys(entries []term.Entry) map[term.ID]string {
	t := term.NewTable()
	keys := make(map[term.ID]string, len(entries))
	if err := t.Restore(entries); err != nil {
		return keys
	}
	for _, e := range entries {
		keys[e.ID] = t.Key(e.ID)
	}
	return keys
}
