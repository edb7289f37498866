package inference

import (
	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/term"
)

// composeShared builds compound conclusions from two premises sharing the
// term m. With a shared subject the compounds become predicates:
//
//	<M --> T1>, <M --> T2> ⊢ <M --> (&,T1,T2)>, <M --> (|,T1,T2)>,
//	                         <M --> (-,T1,T2)>, <M --> (-,T2,T1)>
//
// With a shared predicate they become subjects and the intersection
// operators trade places:
//
//	<T1 --> M>, <T2 --> M> ⊢ <(|,T1,T2) --> M>, <(&,T1,T2) --> M>,
//	                         <(~,T1,T2) --> M>, <(~,T2,T1) --> M>
//
// Implications use conjunction and disjunction in the same pattern and have
// no difference terms.
func composeShared(d *derivation, m, t1, t2 term.ID, cop term.Op, sharedSubject bool) {
	terms := d.terms()
	if terms.Contains(t1, t2) || terms.Contains(t2, t1) {
		return
	}

	var and, or, diff term.Op
	switch {
	case cop == term.Implication && sharedSubject:
		and, or = term.Conjunction, term.Disjunction
	case cop == term.Implication:
		and, or = term.Disjunction, term.Conjunction
	case sharedSubject:
		and, or, diff = term.IntersectionExt, term.IntersectionInt, term.DifferenceExt
	default:
		and, or, diff = term.IntersectionInt, term.IntersectionExt, term.DifferenceInt
	}

	build := func(c term.ID) term.ID {
		if c == term.Nil {
			return term.Nil
		}
		if sharedSubject {
			return d.statement(m, cop, c)
		}
		return d.statement(c, cop, m)
	}

	d.composition(RuleIntersection, build(d.compound(and, t1, t2)), calculus.Intersection, taskFirst)
	d.composition(RuleUnion, build(d.compound(or, t1, t2)), calculus.Union, taskFirst)
	if diff != term.OpNone {
		d.composition(RuleDifference, build(d.compound(diff, t1, t2)), calculus.Difference, taskFirst)
		d.composition(RuleDifference, build(d.compound(diff, t2, t1)), calculus.Difference, beliefFirst)
	}
}
