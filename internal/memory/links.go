package memory

import (
	"fmt"

	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// LinkType says how a link's source relates to its target.
type LinkType uint8

const (
	// LinkSelf links a concept to a task on its own term.
	LinkSelf LinkType = iota
	// LinkSubject points from a statement to its subject.
	LinkSubject
	// LinkPredicate points from a statement to its predicate.
	LinkPredicate
	// LinkComponent points from a compound to a component (up to two
	// levels deep).
	LinkComponent
	// LinkCompound points from a component back to a term containing it.
	LinkCompound
)

func (t LinkType) String() string {
	return [...]string{"self", "subject", "predicate", "component", "compound"}[t]
}

// TermLinkKey identifies a term link within its concept.
type TermLinkKey struct {
	Target term.ID
	Type   LinkType
}

// TermLink connects a concept to a related term. Following it locates the
// belief used as the second premise.
type TermLink struct {
	Target term.ID
	Type   LinkType
	budget ir.Budget
}

func (l *TermLink) Key() TermLinkKey { return TermLinkKey{Target: l.Target, Type: l.Type} }

func (l *TermLink) Budget() ir.Budget { return l.budget }

func (l *TermLink) SetBudget(b ir.Budget) { l.budget = b }

// TaskLink connects a concept to a task it should reason about.
type TaskLink struct {
	Task   *ir.Task
	Type   LinkType
	budget ir.Budget
}

func (l *TaskLink) Key() string { return l.Task.Key() + "@" + l.Type.String() }

func (l *TaskLink) Budget() ir.Budget { return l.budget }

func (l *TaskLink) SetBudget(b ir.Budget) { l.budget = b }

// template is a term link to create when a task arrives.
type template struct {
	target term.ID
	typ    LinkType
}

// templates lists the terms a concept links to: subject and predicate of a
// statement, components of a compound, and the components of those
// components. Each target appears once.
func templates(terms *term.Table, id term.ID) []template {
	var out []template
	seen := map[term.ID]bool{id: true}
	add := func(target term.ID, typ LinkType) {
		if seen[target] {
			return
		}
		seen[target] = true
		out = append(out, template{target: target, typ: typ})
	}
	nested := func(c term.ID) {
		if terms.Kind(c) == term.KindAtom {
			return
		}
		for _, cc := range terms.Components(c) {
			add(cc, LinkComponent)
		}
	}

	switch terms.Kind(id) {
	case term.KindStatement:
		s, p := terms.Subject(id), terms.Predicate(id)
		add(s, LinkSubject)
		add(p, LinkPredicate)
		nested(s)
		nested(p)
	case term.KindCompound:
		comps := terms.Components(id)
		for _, c := range comps {
			add(c, LinkComponent)
		}
		for _, c := range comps {
			nested(c)
		}
	}
	return out
}

// MarshalText encodes the type by name.
func (t LinkType) MarshalText() ([]byte, error) {
	if int(t) > int(LinkCompound) {
		return nil, fmt.Errorf("unknown link type %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a name written by MarshalText.
func (t *LinkType) UnmarshalText(b []byte) error {
	for lt := LinkSelf; lt <= LinkCompound; lt++ {
		if lt.String() == string(b) {
			*t = lt
			return nil
		}
	}
	return fmt.Errorf("unknown link type %q", b)
}
