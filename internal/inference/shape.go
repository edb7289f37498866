package inference

import "github.com/roach88/nars/internal/term"

// Shape classifies a term for rule lookup.
type Shape uint8

const (
	ShapeAtom Shape = iota + 1
	ShapeCompound
	ShapeInheritance
	ShapeSimilarity
	ShapeImplication
	ShapeEquivalence
)

func (s Shape) String() string {
	switch s {
	case ShapeAtom:
		return "atom"
	case ShapeCompound:
		return "compound"
	case ShapeInheritance:
		return "inheritance"
	case ShapeSimilarity:
		return "similarity"
	case ShapeImplication:
		return "implication"
	case ShapeEquivalence:
		return "equivalence"
	}
	return "unknown"
}

// ShapeOf returns the shape of id.
func ShapeOf(terms *term.Table, id term.ID) Shape {
	switch terms.Kind(id) {
	case term.KindAtom:
		return ShapeAtom
	case term.KindCompound:
		return ShapeCompound
	}
	switch terms.Op(id) {
	case term.Inheritance:
		return ShapeInheritance
	case term.Similarity:
		return ShapeSimilarity
	case term.Implication:
		return ShapeImplication
	default:
		return ShapeEquivalence
	}
}

// Figure says which positions two statements share a term in. S is the
// subject and P the predicate, task first: FigureSP means the task's
// subject is the belief's predicate.
type Figure uint8

const (
	FigureNone Figure = iota
	FigureIdentical
	FigureSS
	FigureSP
	FigurePS
	FigurePP
)

func (f Figure) String() string {
	return [...]string{"none", "identical", "SS", "SP", "PS", "PP"}[f]
}

// FigureOf computes the figure of two terms. Non-statements only ever have
// the identical figure. When more than one position matches, the first in
// SS, SP, PS, PP order wins.
func FigureOf(terms *term.Table, task, belief term.ID) Figure {
	if task == belief {
		return FigureIdentical
	}
	if terms.Kind(task) != term.KindStatement || terms.Kind(belief) != term.KindStatement {
		return FigureNone
	}
	ts, tp := terms.Subject(task), terms.Predicate(task)
	bs, bp := terms.Subject(belief), terms.Predicate(belief)
	switch {
	case ts == bs:
		return FigureSS
	case ts == bp:
		return FigureSP
	case tp == bs:
		return FigurePS
	case tp == bp:
		return FigurePP
	}
	return FigureNone
}

// symmetricOf maps an asymmetric copula to its symmetric counterpart.
func symmetricOf(op term.Op) term.Op {
	if op == term.Implication {
		return term.Equivalence
	}
	return term.Similarity
}
