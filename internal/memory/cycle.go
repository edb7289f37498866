package memory

import (
	"go.uber.org/zap"

	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/inference"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// State is the phase of the reasoning cycle.
type State int32

const (
	StateIdle State = iota
	StateIntake
	StateSelecting
	StateInferring
	StateDispatching
)

func (s State) String() string {
	return [...]string{"idle", "intake", "selecting", "inferring", "dispatching"}[s]
}

// CycleReport summarises one cycle.
type CycleReport struct {
	Cycle    int64
	Intake   int // tasks moved from the buffer into concepts
	Rejected int // buffered tasks that failed validation
	Stored   int // intake tasks that were not duplicates of stored ones
	// Concept is the selected concept, term.Nil when nothing was selected.
	Concept       term.ID
	Conclusions   int
	CircularSkips int
	Dropped       int // conclusions refused by the derivation guard
	Emissions     int
	Evictions     int
}

// Idle reports whether the cycle selected nothing.
func (r CycleReport) Idle() bool {
	return r.Concept == term.Nil
}

// ProcessCycle runs one cycle:
//  1. move up to IntakeLimit buffered tasks into their concepts
//  2. take a concept from the bag, then a task link from it
//  3. take a term link and find a belief on its target
//  4. apply structural rules (for the concept's own tasks) and two-premise
//     rules (when a belief was found)
//  5. buffer the conclusions, report answers and strong conclusions, and
//     put everything taken back with decayed priority
//
// With nothing buffered and no concepts the cycle changes nothing.
func (m *Memory) ProcessCycle() CycleReport {
	m.cycle++
	r := CycleReport{Cycle: m.cycle}
	defer m.setState(StateIdle)

	m.setState(StateIntake)
	m.drainIntake(&r)

	m.setState(StateSelecting)
	c, ok := m.concepts.Take()
	if !ok {
		return r
	}
	m.current = c
	defer m.restore(c, &r)

	tl, ok := c.taskLinks.Take()
	if !ok {
		return r
	}
	defer c.taskLinks.PutBack(tl)
	r.Concept = c.term

	m.setState(StateInferring)
	var results []inference.Result
	if tl.Type == LinkSelf {
		results = append(results, m.engine.Structural(inference.Premises{
			Task:     tl.Task,
			TaskLink: tl.budget,
			Cycle:    m.cycle,
		}))
	}
	if tml, ok := c.termLinks.Take(); ok {
		defer c.termLinks.PutBack(tml)
		if target := m.ConceptFor(tml.Target); target != nil {
			if belief := target.BeliefFor(tl.Task); belief != nil {
				link := tml.budget
				results = append(results, m.engine.TwoPremise(inference.Premises{
					Task:     tl.Task,
					Belief:   belief,
					TaskLink: tl.budget,
					TermLink: &link,
					Cycle:    m.cycle,
				}))
			}
		}
	}

	m.setState(StateDispatching)
	for _, res := range results {
		if res.CircularSkip {
			r.CircularSkips++
			m.logger.Debug("circular evidence, premises skipped",
				zap.String("task", m.terms.Key(tl.Task.Term())),
				zap.Int64("cycle", m.cycle))
		}
		r.Dropped += res.Dropped
		for _, con := range res.Conclusions {
			m.dispatch(con, &r)
		}
	}
	return r
}

// restore puts the selected concept back into the bag.
func (m *Memory) restore(c *Concept, r *CycleReport) {
	m.current = nil
	if evicted, ok := m.concepts.PutBack(c); ok {
		r.Evictions++
		m.logger.Debug("concept evicted",
			zap.String("term", m.terms.Key(evicted.term)),
			zap.Int64("cycle", m.cycle))
	}
}

func (m *Memory) drainIntake(r *CycleReport) {
	for i := 0; i < m.cfg.IntakeLimit; i++ {
		t, ok := m.intake.pop()
		if !ok {
			return
		}
		if err := m.validate(t); err != nil {
			r.Rejected++
			m.logger.Debug("buffered task rejected", zap.Error(err))
			continue
		}
		m.process(t, r)
		r.Intake++
	}
}

// process files one task into its concept, reports answers and links the
// stored result into memory.
func (m *Memory) process(t *ir.Task, r *CycleReport) {
	c := m.conceptFor(t.Term(), t.Budget, r)
	out := c.AddTask(t, m.cycle)
	r.Evictions += out.Evicted

	for _, a := range out.Answers {
		q := a.Question.Sentence
		m.emit(Emission{Kind: EmitAnswer, Cycle: m.cycle, Sentence: a.Belief, Budget: a.Question.Budget, Question: &q})
		r.Emissions++
	}
	if out.Duplicate {
		return
	}
	r.Stored++
	stored := t
	if out.Revised != nil {
		stored = out.Revised
		m.emitDerived(stored, r)
	}
	m.link(c, stored, r)
}

// link attaches t to its own concept and to the concepts of the terms its
// term is built from, with term links in both directions.
func (m *Memory) link(c *Concept, t *ir.Task, r *CycleReport) {
	c.taskLinks.Put(&TaskLink{Task: t, Type: LinkSelf, budget: t.Budget})

	tmpls := templates(m.terms, c.term)
	if len(tmpls) == 0 {
		return
	}
	sub := calculus.Distribute(t.Budget, len(tmpls))
	for _, tp := range tmpls {
		comp := m.conceptFor(tp.target, sub, r)
		comp.taskLinks.Put(&TaskLink{Task: t, Type: LinkCompound, budget: sub})
		c.LinkTo(tp.target, tp.typ, sub)
		comp.LinkTo(c.term, LinkCompound, sub)
	}
}

// dispatch buffers a conclusion for the next cycles and reports it when its
// budget is high enough.
func (m *Memory) dispatch(con inference.Conclusion, r *CycleReport) {
	r.Conclusions++
	if m.intake.push(con.Task) {
		m.logger.Debug("intake buffer full, dropped oldest task", zap.Int64("cycle", m.cycle))
	}
	m.emitDerived(con.Task, r)
}

func (m *Memory) emitDerived(t *ir.Task, r *CycleReport) {
	if !t.Sentence.Punctuation.HasTruth() {
		return
	}
	if !calculus.AboveThreshold(t.Budget, m.cfg.EmissionThreshold) {
		return
	}
	m.emit(Emission{Kind: EmitDerived, Cycle: m.cycle, Sentence: t.Sentence, Budget: t.Budget})
	r.Emissions++
}
