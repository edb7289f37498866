package inference

import (
	"slices"

	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// Rule names the rule that produced a conclusion.
type Rule string

const (
	RuleRevision        Rule = "revision"
	RuleDeduction       Rule = "deduction"
	RuleExemplification Rule = "exemplification"
	RuleInduction       Rule = "induction"
	RuleAbduction       Rule = "abduction"
	RuleComparison      Rule = "comparison"
	RuleAnalogy         Rule = "analogy"
	RuleResemblance     Rule = "resemblance"
	RuleIntersection    Rule = "intersection"
	RuleUnion           Rule = "union"
	RuleDifference      Rule = "difference"
	RuleConversion      Rule = "conversion"
	RuleContraposition  Rule = "contraposition"
	RuleImage           Rule = "image"
	RuleDecomposition   Rule = "decomposition"
)

// Config tunes the engine.
type Config struct {
	// Reliance discounts the confidence of structural rewrites. 0 < r < 1.
	Reliance float64
	// DerivationDepth is how many ancestors are checked for a repeated term.
	DerivationDepth int
	// BudgetThreshold drops conclusions whose budget summary is below it.
	BudgetThreshold float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{Reliance: 0.9, DerivationDepth: 8, BudgetThreshold: 0.01}
}

// Premises is one unit of inference work. Belief is nil for single-premise
// inference.
type Premises struct {
	Task     *ir.Task
	Belief   *ir.Sentence
	TaskLink ir.Budget
	TermLink *ir.Budget
	Cycle    int64
}

// Conclusion is a derived task and the rule that produced it.
type Conclusion struct {
	Task *ir.Task
	Rule Rule
}

// Result collects the outcome of one dispatch.
type Result struct {
	Conclusions []Conclusion
	// CircularSkip is set when the premises share evidence.
	CircularSkip bool
	// Dropped counts conclusions rejected by the derivation guard.
	Dropped int
}

// Engine applies inference rules, interning conclusion terms into terms.
type Engine struct {
	terms *term.Table
	cfg   Config
}

// New creates an engine bound to a term table.
func New(terms *term.Table, cfg Config) *Engine {
	return &Engine{terms: terms, cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// TwoPremise applies every rule registered for the shapes and figure of the
// task and belief. Premises that share evidence produce nothing and set
// CircularSkip.
func (e *Engine) TwoPremise(p Premises) Result {
	var res Result
	if p.Task == nil || p.Belief == nil {
		return res
	}
	if p.Task.Sentence.Stamp.Overlaps(p.Belief.Stamp) {
		res.CircularSkip = true
		return res
	}
	key := ruleKey{
		task:   ShapeOf(e.terms, p.Task.Term()),
		belief: ShapeOf(e.terms, p.Belief.Term),
		figure: FigureOf(e.terms, p.Task.Term(), p.Belief.Term),
	}
	fn, ok := rules[key]
	if !ok {
		return res
	}
	d := &derivation{e: e, p: p, res: &res}
	fn(d)
	return res
}

// derivation carries the state of one dispatch into the rule functions.
type derivation struct {
	e   *Engine
	p   Premises
	res *Result
}

func (d *derivation) terms() *term.Table { return d.e.terms }

func (d *derivation) task() *ir.Task { return d.p.Task }

func (d *derivation) punctuation() ir.Punctuation {
	return d.p.Task.Sentence.Punctuation
}

func (d *derivation) parents() calculus.Parents {
	return calculus.Parents{Task: d.p.TaskLink, Link: d.p.TermLink}
}

// statement builds a statement, returning term.Nil when the result would be
// invalid. An invalid conclusion simply means the rule does not apply.
func (d *derivation) statement(subject term.ID, copula term.Op, predicate term.ID) term.ID {
	if subject == term.Nil || predicate == term.Nil {
		return term.Nil
	}
	id, err := d.terms().Statement(subject, copula, predicate)
	if err != nil {
		return term.Nil
	}
	return id
}

func (d *derivation) compound(op term.Op, comps ...term.ID) term.ID {
	id, err := d.terms().Compound(op, comps...)
	if err != nil {
		return term.Nil
	}
	return id
}

// order says which premise is passed to a truth function first.
type order bool

const (
	taskFirst   order = false
	beliefFirst order = true
)

// strength selects the desire function used when the task is a goal.
type strength bool

const (
	strong strength = true
	weak   strength = false
)

// syllogism derives a conclusion from the task and belief. Judgments use
// fn, goals use a desire function, questions derive a question.
func (d *derivation) syllogism(rule Rule, id term.ID, fn calculus.TruthFunc, o order, s strength) {
	if id == term.Nil {
		return
	}
	bt := d.p.Belief.TruthValue()
	switch d.punctuation() {
	case ir.Question:
		b := calculus.Backward(bt, d.parents())
		if s == weak {
			b = calculus.BackwardWeak(bt, d.parents())
		}
		d.emit(rule, id, nil, b)
	case ir.Goal:
		var t ir.Truth
		if s == strong {
			t = calculus.DesireStrong(d.task().Sentence.TruthValue(), bt)
		} else {
			t = calculus.DesireWeak(d.task().Sentence.TruthValue(), bt)
		}
		d.emit(rule, id, &t, calculus.Forward(t, d.parents()))
	default:
		a, b := d.task().Sentence.TruthValue(), bt
		if o == beliefFirst {
			a, b = b, a
		}
		t := fn(a, b)
		d.emit(rule, id, &t, calculus.Forward(t, d.parents()))
	}
}

// composition derives a judgment with a newly composed term. Only
// judgment premises compose.
func (d *derivation) composition(rule Rule, id term.ID, fn calculus.TruthFunc, o order) {
	if id == term.Nil || d.punctuation() != ir.Judgment {
		return
	}
	a, b := d.task().Sentence.TruthValue(), d.p.Belief.TruthValue()
	if o == beliefFirst {
		a, b = b, a
	}
	t := fn(a, b)
	d.emit(rule, id, &t, calculus.CompoundForward(t, d.terms().Complexity(id), d.parents()))
}

// emit applies the derivation guard and records the conclusion.
func (d *derivation) emit(rule Rule, id term.ID, t *ir.Truth, b ir.Budget) {
	task := d.task()
	if !d.e.admit(task, d.p.Belief, id, b) {
		d.res.Dropped++
		return
	}
	var stamp ir.Stamp
	if d.p.Belief != nil {
		stamp = ir.MergeStamps(task.Sentence.Stamp, d.p.Belief.Stamp, d.p.Cycle)
	} else {
		stamp = ir.Stamp{Evidence: slices.Clone(task.Sentence.Stamp.Evidence), Created: d.p.Cycle}
	}
	d.res.Conclusions = append(d.res.Conclusions, Conclusion{
		Rule: rule,
		Task: &ir.Task{
			Sentence: ir.Sentence{
				Term:        id,
				Punctuation: task.Sentence.Punctuation,
				Truth:       t,
				Stamp:       stamp,
			},
			Budget:       b,
			Parent:       task,
			ParentBelief: d.p.Belief,
		},
	})
}
