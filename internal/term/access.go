package term

import "fmt"

// Kind returns the structural kind of id.
func (t *Table) Kind(id ID) Kind {
	return t.nodes[id].kind
}

// Op returns the copula or compound operator of id (OpNone for atoms).
func (t *Table) Op(id ID) Op {
	return t.nodes[id].op
}

// Name returns the atom name, or "" for non-atoms.
func (t *Table) Name(id ID) string {
	return t.nodes[id].name
}

// Components returns the ordered components. For statements this is
// [subject, predicate]. The returned slice must not be modified.
func (t *Table) Components(id ID) []ID {
	return t.nodes[id].comps
}

// ImageIndex returns the placeholder position of an image, 0 otherwise.
func (t *Table) ImageIndex(id ID) int {
	return t.nodes[id].index
}

// Subject returns the subject of a statement, Nil otherwise.
func (t *Table) Subject(id ID) ID {
	n := t.nodes[id]
	if n.kind != KindStatement {
		return Nil
	}
	return n.comps[0]
}

// Predicate returns the predicate of a statement, Nil otherwise.
func (t *Table) Predicate(id ID) ID {
	n := t.nodes[id]
	if n.kind != KindStatement {
		return Nil
	}
	return n.comps[1]
}

// Complexity returns the syntactic complexity: 1 for atoms, one plus the sum
// of the components for everything else.
func (t *Table) Complexity(id ID) int {
	return t.nodes[id].complexity
}

// Key returns the canonical Narsese rendering, which is also the identity key.
func (t *Table) Key(id ID) string {
	if !t.Valid(id) {
		return fmt.Sprintf("<invalid term %d>", id)
	}
	return t.nodes[id].key
}

// String is an alias of Key.
func (t *Table) String(id ID) string {
	return t.Key(id)
}

// Contains reports whether part occurs anywhere inside whole (or is whole).
func (t *Table) Contains(whole, part ID) bool {
	if whole == part {
		return true
	}
	for _, c := range t.nodes[whole].comps {
		if t.Contains(c, part) {
			return true
		}
	}
	return false
}

// Entry is the exported shape of one interned term, used for snapshots.
type Entry struct {
	ID         ID     `json:"id"`
	Kind       Kind   `json:"kind"`
	Op         Op     `json:"op,omitempty"`
	Name       string `json:"name,omitempty"`
	Components []ID   `json:"components,omitempty"`
	Index      int    `json:"index,omitempty"`
}

// Entries lists every interned term in ID order. Components always precede
// the terms built from them.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, t.Len())
	for i := 1; i < len(t.nodes); i++ {
		n := t.nodes[i]
		out = append(out, Entry{
			ID:         ID(i),
			Kind:       n.kind,
			Op:         n.op,
			Name:       n.name,
			Components: append([]ID(nil), n.comps...),
			Index:      n.index,
		})
	}
	return out
}

// Restore re-interns entries into an empty table, reproducing the original
// IDs. It fails if the table is not empty or an entry would land on a
// different ID than it was exported with.
func (t *Table) Restore(entries []Entry) error {
	if t.Len() != 0 {
		return fmt.Errorf("restore into non-empty table (%d terms)", t.Len())
	}
	for _, e := range entries {
		var (
			id  ID
			err error
		)
		switch e.Kind {
		case KindAtom:
			id, err = t.Atom(e.Name)
		case KindStatement:
			if len(e.Components) != 2 {
				return fmt.Errorf("restore term %d: statement with %d components", e.ID, len(e.Components))
			}
			id, err = t.Statement(e.Components[0], e.Op, e.Components[1])
		case KindCompound:
			if e.Op.IsImage() {
				id, err = t.Image(e.Op, e.Index, e.Components...)
			} else {
				id, err = t.Compound(e.Op, e.Components...)
			}
		default:
			return fmt.Errorf("restore term %d: unknown kind %d", e.ID, e.Kind)
		}
		if err != nil {
			return fmt.Errorf("restore term %d: %w", e.ID, err)
		}
		if id != e.ID {
			return fmt.Errorf("restore term %d: interned as %d", e.ID, id)
		}
	}
	return nil
}
