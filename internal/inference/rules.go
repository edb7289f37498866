package inference

import (
	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

type ruleKey struct {
	task   Shape
	belief Shape
	figure Figure
}

type ruleFunc func(d *derivation)

// rules is the two-premise dispatch table. It is filled once at init and
// read-only afterwards.
var rules = map[ruleKey]ruleFunc{}

func register(task, belief Shape, fn ruleFunc, figures ...Figure) {
	for _, f := range figures {
		rules[ruleKey{task: task, belief: belief, figure: f}] = fn
	}
}

var sharedFigures = []Figure{FigureSS, FigureSP, FigurePS, FigurePP}

func init() {
	for _, shape := range []Shape{ShapeAtom, ShapeCompound, ShapeInheritance, ShapeSimilarity, ShapeImplication, ShapeEquivalence} {
		register(shape, shape, local, FigureIdentical)
	}

	orders := []struct{ asym, sym Shape }{
		{ShapeInheritance, ShapeSimilarity},
		{ShapeImplication, ShapeEquivalence},
	}
	for _, o := range orders {
		register(o.asym, o.asym, deductionSP, FigureSP)
		register(o.asym, o.asym, deductionPS, FigurePS)
		register(o.asym, o.asym, sharedSubject, FigureSS)
		register(o.asym, o.asym, sharedPredicate, FigurePP)
		register(o.asym, o.sym, analogy, sharedFigures...)
		register(o.sym, o.asym, analogy, sharedFigures...)
		register(o.sym, o.sym, resemblance, sharedFigures...)
	}
}

// local handles premises with the same term: two judgments on disjoint
// evidence are revised. Questions are answered by the concept, not here.
func local(d *derivation) {
	if d.punctuation() != ir.Judgment || d.p.Belief.Punctuation != ir.Judgment {
		return
	}
	revised, ok := Revise(d.task(), d.p.Belief, d.p.Cycle)
	if !ok {
		return
	}
	if !d.e.admitRevision(revised) {
		d.res.Dropped++
		return
	}
	d.res.Conclusions = append(d.res.Conclusions, Conclusion{Task: revised, Rule: RuleRevision})
}

// deductionSP: task <M --> P>, belief <S --> M>.
func deductionSP(d *derivation) {
	t, b := d.task().Term(), d.p.Belief.Term
	cop := d.terms().Op(t)
	s, p := d.terms().Subject(b), d.terms().Predicate(t)
	d.syllogism(RuleDeduction, d.statement(s, cop, p), calculus.Deduction, taskFirst, strong)
	d.syllogism(RuleExemplification, d.statement(p, cop, s), calculus.Exemplification, taskFirst, weak)
}

// deductionPS: task <S --> M>, belief <M --> P>.
func deductionPS(d *derivation) {
	t, b := d.task().Term(), d.p.Belief.Term
	cop := d.terms().Op(t)
	s, p := d.terms().Subject(t), d.terms().Predicate(b)
	d.syllogism(RuleDeduction, d.statement(s, cop, p), calculus.Deduction, taskFirst, strong)
	d.syllogism(RuleExemplification, d.statement(p, cop, s), calculus.Exemplification, taskFirst, weak)
}

// sharedSubject: task <M --> T1>, belief <M --> T2>. Induction in both
// directions, comparison, then composition.
func sharedSubject(d *derivation) {
	t, b := d.task().Term(), d.p.Belief.Term
	cop := d.terms().Op(t)
	t1, t2 := d.terms().Predicate(t), d.terms().Predicate(b)

	d.syllogism(RuleInduction, d.statement(t1, cop, t2), calculus.Induction, taskFirst, weak)
	d.syllogism(RuleInduction, d.statement(t2, cop, t1), calculus.Induction, beliefFirst, weak)
	d.syllogism(RuleComparison, d.statement(t1, symmetricOf(cop), t2), calculus.Comparison, taskFirst, weak)

	composeShared(d, d.terms().Subject(t), t1, t2, cop, true)
}

// sharedPredicate: task <T1 --> M>, belief <T2 --> M>. Abduction in both
// directions, comparison, then composition.
func sharedPredicate(d *derivation) {
	t, b := d.task().Term(), d.p.Belief.Term
	cop := d.terms().Op(t)
	t1, t2 := d.terms().Subject(t), d.terms().Subject(b)

	d.syllogism(RuleAbduction, d.statement(t1, cop, t2), calculus.Abduction, beliefFirst, weak)
	d.syllogism(RuleAbduction, d.statement(t2, cop, t1), calculus.Abduction, taskFirst, weak)
	d.syllogism(RuleComparison, d.statement(t1, symmetricOf(cop), t2), calculus.Comparison, taskFirst, weak)

	composeShared(d, d.terms().Predicate(t), t1, t2, cop, false)
}

// analogy: one asymmetric and one symmetric premise sharing a term. The
// shared term in the asymmetric statement is replaced by the other side of
// the symmetric one.
func analogy(d *derivation) {
	asym, sym := d.task().Term(), d.p.Belief.Term
	o := taskFirst
	if d.terms().Op(asym).IsSymmetric() {
		asym, sym = sym, asym
		o = beliefFirst
	}
	id := substitute(d, asym, sym)
	d.syllogism(RuleAnalogy, id, calculus.Analogy, o, strong)
}

// resemblance: two symmetric premises sharing a term.
func resemblance(d *derivation) {
	id := substitute(d, d.task().Term(), d.p.Belief.Term)
	d.syllogism(RuleResemblance, id, calculus.Resemblance, taskFirst, strong)
}

// substitute replaces the term target shares with sym by sym's other side.
func substitute(d *derivation, target, sym term.ID) term.ID {
	terms := d.terms()
	ts, tp := terms.Subject(target), terms.Predicate(target)
	ss, sp := terms.Subject(sym), terms.Predicate(sym)
	cop := terms.Op(target)
	switch {
	case ts == ss:
		return d.statement(sp, cop, tp)
	case ts == sp:
		return d.statement(ss, cop, tp)
	case tp == ss:
		return d.statement(ts, cop, sp)
	case tp == sp:
		return d.statement(ts, cop, ss)
	}
	return term.Nil
}
