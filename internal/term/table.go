package term

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ID is a stable handle to an interned term.
//
// IDs are only meaningful relative to the Table that issued them. The zero
// ID is never issued and marks "no term".
type ID uint32

// Nil is the zero ID.
const Nil ID = 0

// reservedRunes may not appear inside an atom name; they are Narsese syntax.
const reservedRunes = " \t\r\n,()<>{}[]%;\"'"

// InvalidError is returned when a term cannot be constructed.
type InvalidError struct {
	Op     Op
	Reason string
}

// Error implements the error interface.
func (e *InvalidError) Error() string {
	if e.Op == OpNone {
		return "invalid term: " + e.Reason
	}
	return fmt.Sprintf("invalid %q term: %s", e.Op.String(), e.Reason)
}

// IsInvalid reports whether err is (or wraps) an InvalidError.
func IsInvalid(err error) bool {
	var ie *InvalidError
	return errors.As(err, &ie)
}

type node struct {
	kind       Kind
	op         Op
	name       string
	comps      []ID
	index      int
	key        string
	complexity int
}

// Table interns terms so that structurally identical terms share one ID.
//
// Terms are immutable once interned and are never removed; the arena only
// grows. Canonicalisation happens on construction:
//   - commutative operators sort their components by key
//   - sets and intersections drop duplicate components
//   - a one-component intersection, conjunction or disjunction is its component
//   - reflexive statements and wrong-arity compounds are rejected
//
// A Table is not safe for concurrent use. It belongs to the goroutine that
// owns the Memory.
type Table struct {
	nodes []node
	index map[string]ID
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		nodes: make([]node, 1, 256), // slot 0 is Nil
		index: make(map[string]ID, 256),
	}
}

// Len returns the number of interned terms.
func (t *Table) Len() int {
	return len(t.nodes) - 1
}

// Valid reports whether id was issued by this table.
func (t *Table) Valid(id ID) bool {
	return id != Nil && int(id) < len(t.nodes)
}

// Lookup returns the ID of an already interned term by its canonical key.
func (t *Table) Lookup(key string) (ID, bool) {
	id, ok := t.index[key]
	return id, ok
}

// Atom interns an atomic term. The name is NFC-normalised.
func (t *Table) Atom(name string) (ID, error) {
	name = norm.NFC.String(name)
	if name == "" {
		return Nil, &InvalidError{Reason: "empty atom name"}
	}
	if strings.ContainsAny(name, reservedRunes) {
		return Nil, &InvalidError{Reason: fmt.Sprintf("atom %q contains reserved characters", name)}
	}
	if name == "_" {
		return Nil, &InvalidError{Reason: "placeholder outside an image"}
	}
	return t.intern(node{kind: KindAtom, name: name, key: name, complexity: 1}), nil
}

// Compound interns a compound term built from already interned components.
// Images must be built with Image.
func (t *Table) Compound(op Op, comps ...ID) (ID, error) {
	if op == OpNone || op.IsCopula() {
		return Nil, &InvalidError{Op: op, Reason: "not a compound operator"}
	}
	if op.IsImage() {
		return Nil, &InvalidError{Op: op, Reason: "image requires a placeholder index"}
	}
	if err := t.checkComponents(op, comps); err != nil {
		return Nil, err
	}

	cs := append([]ID(nil), comps...)
	if op.IsCommutative() {
		t.sortByKey(cs)
	}
	if op.isSet() {
		cs = dedupe(cs)
	}
	if len(cs) == 1 && op.reducesSingleton() {
		return cs[0], nil
	}

	switch op {
	case Negation:
		if len(cs) != 1 {
			return Nil, &InvalidError{Op: op, Reason: "negation takes exactly one component"}
		}
	case DifferenceExt, DifferenceInt:
		if len(cs) != 2 {
			return Nil, &InvalidError{Op: op, Reason: "difference takes exactly two components"}
		}
		if cs[0] == cs[1] {
			return Nil, &InvalidError{Op: op, Reason: "difference of a term with itself"}
		}
	case IntersectionExt, IntersectionInt, Conjunction, Disjunction:
		if len(cs) < 2 {
			return Nil, &InvalidError{Op: op, Reason: "needs at least two components"}
		}
	}

	return t.intern(t.compoundNode(op, cs, 0)), nil
}

// Image interns an extensional or intensional image. comps[0] is the
// relation; the placeholder sits before comps[index], so index ranges over
// 1..len(comps). For example (/,R,_,b) is Image(ImageExt, 1, R, b).
func (t *Table) Image(op Op, index int, comps ...ID) (ID, error) {
	if !op.IsImage() {
		return Nil, &InvalidError{Op: op, Reason: "not an image operator"}
	}
	if err := t.checkComponents(op, comps); err != nil {
		return Nil, err
	}
	if index < 1 || index > len(comps) {
		return Nil, &InvalidError{Op: op, Reason: fmt.Sprintf("placeholder index %d out of range", index)}
	}
	cs := append([]ID(nil), comps...)
	return t.intern(t.compoundNode(op, cs, index)), nil
}

// Statement interns <subject copula predicate>.
func (t *Table) Statement(subject ID, copula Op, predicate ID) (ID, error) {
	if !copula.IsCopula() {
		return Nil, &InvalidError{Op: copula, Reason: "not a copula"}
	}
	if !t.Valid(subject) || !t.Valid(predicate) {
		return Nil, &InvalidError{Op: copula, Reason: "unknown subject or predicate"}
	}
	if subject == predicate {
		return Nil, &InvalidError{Op: copula, Reason: "reflexive statement"}
	}
	if copula.IsHigherOrder() && (!t.isStatementLike(subject) || !t.isStatementLike(predicate)) {
		return Nil, &InvalidError{Op: copula, Reason: "higher-order copula needs statements"}
	}
	if copula.IsSymmetric() && t.nodes[predicate].key < t.nodes[subject].key {
		subject, predicate = predicate, subject
	}
	s, p := t.nodes[subject], t.nodes[predicate]
	n := node{
		kind:       KindStatement,
		op:         copula,
		comps:      []ID{subject, predicate},
		key:        "<" + s.key + " " + copula.String() + " " + p.key + ">",
		complexity: 1 + s.complexity + p.complexity,
	}
	return t.intern(n), nil
}

// isStatementLike reports whether id is a statement or a logical compound of
// statements, the only legal arguments of ==> and <=>.
func (t *Table) isStatementLike(id ID) bool {
	n := t.nodes[id]
	switch n.kind {
	case KindStatement:
		return true
	case KindCompound:
		switch n.op {
		case Negation, Conjunction, Disjunction:
			for _, c := range n.comps {
				if !t.isStatementLike(c) {
					return false
				}
			}
			return true
		}
	}
	return false
}

func (t *Table) checkComponents(op Op, comps []ID) error {
	if len(comps) == 0 {
		return &InvalidError{Op: op, Reason: "no components"}
	}
	for _, c := range comps {
		if !t.Valid(c) {
			return &InvalidError{Op: op, Reason: fmt.Sprintf("unknown component %d", c)}
		}
	}
	return nil
}

func (t *Table) compoundNode(op Op, cs []ID, index int) node {
	parts := make([]string, 0, len(cs)+2)
	complexity := 1
	for i, c := range cs {
		if op.IsImage() && i == index {
			parts = append(parts, "_")
		}
		parts = append(parts, t.nodes[c].key)
		complexity += t.nodes[c].complexity
	}
	if op.IsImage() && index == len(cs) {
		parts = append(parts, "_")
	}

	var key string
	switch op {
	case SetExt:
		key = "{" + strings.Join(parts, ",") + "}"
	case SetInt:
		key = "[" + strings.Join(parts, ",") + "]"
	default:
		key = "(" + op.String() + "," + strings.Join(parts, ",") + ")"
	}
	return node{kind: KindCompound, op: op, comps: cs, index: index, key: key, complexity: complexity}
}

func (t *Table) intern(n node) ID {
	if id, ok := t.index[n.key]; ok {
		return id
	}
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.index[n.key] = id
	return id
}

func (t *Table) sortByKey(ids []ID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return t.nodes[ids[i]].key < t.nodes[ids[j]].key
	})
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(ids []ID) []ID {
	out := ids[:0]
	for _, id := range ids {
		if len(out) > 0 && out[len(out)-1] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}
