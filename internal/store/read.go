package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/term"
)

// Summary describes a stored snapshot without loading it.
type Summary struct {
	ID       string `json:"id"`
	Reasoner string `json:"reasoner"`
	Label    string `json:"label,omitempty"`
	Cycle    int64  `json:"cycle"`
	Concepts int    `json:"concepts"`
}

// Load reads a whole snapshot.
func (s *Store) Load(ctx context.Context, id string) (Record, error) {
	rec := Record{ID: id}
	var termsJSON, intakeJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT reasoner, label, cycle, evidence, terms, intake
		FROM snapshots
		WHERE id = ?
	`, id).Scan(&rec.Reasoner, &rec.Label, &rec.Snapshot.Cycle, &rec.Snapshot.Evidence, &termsJSON, &intakeJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, &NotFoundError{What: "snapshot", ID: id}
	}
	if err != nil {
		return Record{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := unmarshalJSON("terms", termsJSON, &rec.Snapshot.Terms); err != nil {
		return Record{}, err
	}
	if err := unmarshalJSON("intake", intakeJSON, &rec.Snapshot.Intake); err != nil {
		return Record{}, err
	}
	if len(rec.Snapshot.Intake) == 0 {
		rec.Snapshot.Intake = nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT state FROM concepts
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return Record{}, fmt.Errorf("load concepts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return Record{}, fmt.Errorf("scan concept: %w", err)
		}
		var c memory.ConceptState
		if err := unmarshalJSON("concept", state, &c); err != nil {
			return Record{}, err
		}
		rec.Snapshot.Concepts = append(rec.Snapshot.Concepts, c)
	}
	if err := rows.Err(); err != nil {
		return Record{}, fmt.Errorf("iterate concepts: %w", err)
	}
	return rec, nil
}

// Terms reads only the term table of a snapshot, which is enough to render
// the concepts returned by Concept.
func (s *Store) Terms(ctx context.Context, id string) ([]term.Entry, error) {
	var termsJSON string
	err := s.db.QueryRowContext(ctx, `SELECT terms FROM snapshots WHERE id = ?`, id).Scan(&termsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{What: "snapshot", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("read terms: %w", err)
	}
	var entries []term.Entry
	if err := unmarshalJSON("terms", termsJSON, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// List returns every snapshot, oldest first. reasoner filters by owner
// when not empty.
func (s *Store) List(ctx context.Context, reasoner string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.reasoner, s.label, s.cycle,
		       (SELECT COUNT(*) FROM concepts c WHERE c.snapshot_id = s.id)
		FROM snapshots s
		WHERE ? = '' OR s.reasoner = ?
		ORDER BY s.seq ASC
	`, reasoner, reasoner)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Reasoner, &sum.Label, &sum.Cycle, &sum.Concepts); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// Latest returns the id of the most recent snapshot, optionally of one
// reasoner.
func (s *Store) Latest(ctx context.Context, reasoner string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM snapshots
		WHERE ? = '' OR reasoner = ?
		ORDER BY seq DESC
		LIMIT 1
	`, reasoner, reasoner).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &NotFoundError{What: "snapshot", ID: reasoner}
	}
	if err != nil {
		return "", fmt.Errorf("latest snapshot: %w", err)
	}
	return id, nil
}

// Concept reads one concept of a snapshot by its canonical term key.
func (s *Store) Concept(ctx context.Context, id, key string) (memory.ConceptState, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `
		SELECT state FROM concepts
		WHERE snapshot_id = ? AND term_key = ?
	`, id, key).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return memory.ConceptState{}, &NotFoundError{What: "concept", ID: key}
	}
	if err != nil {
		return memory.ConceptState{}, fmt.Errorf("read concept: %w", err)
	}
	var c memory.ConceptState
	if err := unmarshalJSON("concept", state, &c); err != nil {
		return memory.ConceptState{}, err
	}
	return c, nil
}
