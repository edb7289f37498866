package inference

import (
	"slices"

	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// Structural applies single-premise rules to the task alone. Goals are left
// alone; questions only take the rewrites that preserve meaning
// (conversion and image conversion).
func (e *Engine) Structural(p Premises) Result {
	var res Result
	if p.Task == nil || p.Task.Sentence.Punctuation == ir.Goal {
		return res
	}
	p.Belief, p.TermLink = nil, nil
	d := &derivation{e: e, p: p, res: &res}
	terms := e.terms
	id := p.Task.Term()

	if terms.Kind(id) != term.KindStatement {
		if terms.Op(id) == term.Conjunction {
			for _, c := range terms.Components(id) {
				d.single(RuleDecomposition, c, d.reliance, false)
			}
		}
		return res
	}

	cop := terms.Op(id)
	s, pr := terms.Subject(id), terms.Predicate(id)

	if cop == term.Inheritance || cop == term.Implication {
		d.single(RuleConversion, d.statement(pr, cop, s), calculus.Conversion, true)
	}
	if cop == term.Implication {
		d.single(RuleContraposition, d.statement(d.negate(pr), cop, d.negate(s)), calculus.Contraposition, false)
	}
	if cop == term.Inheritance {
		d.images(s, pr)
	}
	d.decompose(cop, s, pr)
	return res
}

func (d *derivation) reliance(t ir.Truth) ir.Truth {
	return calculus.StructuralTransform(t, d.e.cfg.Reliance)
}

// single derives from the task alone.
func (d *derivation) single(rule Rule, id term.ID, fn func(ir.Truth) ir.Truth, questions bool) {
	if id == term.Nil || d.terms().Kind(id) == term.KindAtom {
		return
	}
	complexity := d.terms().Complexity(id)
	switch d.punctuation() {
	case ir.Question:
		if questions {
			d.emit(rule, id, nil, calculus.CompoundBackward(complexity, d.parents()))
		}
	case ir.Judgment:
		t := fn(d.task().Sentence.TruthValue())
		d.emit(rule, id, &t, calculus.CompoundForward(t, complexity, d.parents()))
	}
}

// negate returns (--,x), unwrapping a double negation.
func (d *derivation) negate(x term.ID) term.ID {
	if x == term.Nil {
		return term.Nil
	}
	if d.terms().Op(x) == term.Negation {
		return d.terms().Components(x)[0]
	}
	return d.compound(term.Negation, x)
}

// images converts between product and image forms:
//
//	<(*,a,b) --> R>   ⇔ <a --> (/,R,_,b)>, <b --> (/,R,a,_)>
//	<R --> (*,a,b)>   ⇔ <(\,R,_,b) --> a>, <(\,R,a,_) --> b>
func (d *derivation) images(s, p term.ID) {
	terms := d.terms()

	if terms.Op(s) == term.Product {
		args := terms.Components(s)
		for i := range args {
			img := d.image(term.ImageExt, i+1, p, without(args, i))
			d.single(RuleImage, d.statement(args[i], term.Inheritance, img), d.reliance, true)
		}
	}
	if terms.Op(p) == term.Product {
		args := terms.Components(p)
		for i := range args {
			img := d.image(term.ImageInt, i+1, s, without(args, i))
			d.single(RuleImage, d.statement(img, term.Inheritance, args[i]), d.reliance, true)
		}
	}
	if terms.Op(p) == term.ImageExt {
		rel, prod := d.unimage(p, s)
		d.single(RuleImage, d.statement(prod, term.Inheritance, rel), d.reliance, true)
	}
	if terms.Op(s) == term.ImageInt {
		rel, prod := d.unimage(s, p)
		d.single(RuleImage, d.statement(rel, term.Inheritance, prod), d.reliance, true)
	}
}

func (d *derivation) image(op term.Op, index int, relation term.ID, rest []term.ID) term.ID {
	comps := append([]term.ID{relation}, rest...)
	id, err := d.terms().Image(op, index, comps...)
	if err != nil {
		return term.Nil
	}
	return id
}

// unimage fills the placeholder of img with x and returns the relation and
// the resulting product.
func (d *derivation) unimage(img, x term.ID) (term.ID, term.ID) {
	comps := d.terms().Components(img)
	args := slices.Insert(slices.Clone(comps[1:]), d.terms().ImageIndex(img)-1, x)
	return comps[0], d.compound(term.Product, args...)
}

// decompose takes apart a compound on the side where it is implied:
//
//	<S --> (&,A,B)> ⊢ <S --> A>     <(|,A,B) --> M> ⊢ <A --> M>
//	<S ==> (&&,A,B)> ⊢ <S ==> A>    <(||,A,B) ==> M> ⊢ <A ==> M>
func (d *derivation) decompose(cop term.Op, s, p term.ID) {
	terms := d.terms()
	var predOp, subjOp term.Op
	switch cop {
	case term.Inheritance:
		predOp, subjOp = term.IntersectionExt, term.IntersectionInt
	case term.Implication:
		predOp, subjOp = term.Conjunction, term.Disjunction
	default:
		return
	}
	if terms.Op(p) == predOp {
		for _, c := range terms.Components(p) {
			d.single(RuleDecomposition, d.statement(s, cop, c), d.reliance, false)
		}
	}
	if terms.Op(s) == subjOp {
		for _, c := range terms.Components(s) {
			d.single(RuleDecomposition, d.statement(c, cop, p), d.reliance, false)
		}
	}
}

func without(ids []term.ID, i int) []term.ID {
	out := make([]term.ID, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}
