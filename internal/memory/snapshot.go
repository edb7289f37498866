package memory

import (
	"fmt"

	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// Snapshot is the serialisable state of a Memory between cycles.
//
// Derivation ancestry is not kept: restored tasks have no parent, so the
// repeated-term guard starts fresh for them.
type Snapshot struct {
	Cycle    int64          `json:"cycle"`
	Evidence int64          `json:"evidence"`
	Terms    []term.Entry   `json:"terms"`
	Concepts []ConceptState `json:"concepts"`
	Intake   []TaskState    `json:"intake,omitempty"`
}

// ConceptState is one concept inside a Snapshot.
type ConceptState struct {
	Term      term.ID         `json:"term"`
	Budget    ir.Budget       `json:"budget"`
	Beliefs   []ir.Sentence   `json:"beliefs,omitempty"`
	Desires   []ir.Sentence   `json:"desires,omitempty"`
	Questions []TaskState     `json:"questions,omitempty"`
	TermLinks []LinkState     `json:"term_links,omitempty"`
	TaskLinks []TaskLinkState `json:"task_links,omitempty"`
}

// TaskState is a task without its derivation ancestry.
type TaskState struct {
	Sentence   ir.Sentence  `json:"sentence"`
	Budget     ir.Budget    `json:"budget"`
	BestAnswer *ir.Sentence `json:"best_answer,omitempty"`
	Input      bool         `json:"input,omitempty"`
}

// LinkState is a term link inside a Snapshot.
type LinkState struct {
	Target term.ID   `json:"target"`
	Type   LinkType  `json:"type"`
	Budget ir.Budget `json:"budget"`
}

// TaskLinkState is a task link inside a Snapshot.
type TaskLinkState struct {
	Task   TaskState `json:"task"`
	Type   LinkType  `json:"type"`
	Budget ir.Budget `json:"budget"`
}

func taskState(t *ir.Task) TaskState {
	return TaskState{Sentence: t.Sentence, Budget: t.Budget, BestAnswer: t.BestAnswer, Input: t.Input}
}

// Snapshot captures the memory. It must not run concurrently with
// ProcessCycle.
func (m *Memory) Snapshot() Snapshot {
	snap := Snapshot{
		Cycle:    m.cycle,
		Evidence: m.evidence.Current(),
		Terms:    m.terms.Entries(),
	}
	for _, c := range m.Concepts() {
		cs := ConceptState{
			Term:    c.term,
			Budget:  c.budget,
			Beliefs: c.beliefs.list(),
			Desires: c.desires.list(),
		}
		for _, q := range c.questions {
			cs.Questions = append(cs.Questions, taskState(q))
		}
		for _, l := range c.termLinks.Items() {
			cs.TermLinks = append(cs.TermLinks, LinkState{Target: l.Target, Type: l.Type, Budget: l.budget})
		}
		for _, l := range c.taskLinks.Items() {
			cs.TaskLinks = append(cs.TaskLinks, TaskLinkState{Task: taskState(l.Task), Type: l.Type, Budget: l.budget})
		}
		snap.Concepts = append(snap.Concepts, cs)
	}
	for _, t := range m.intake.snapshot() {
		snap.Intake = append(snap.Intake, taskState(t))
	}
	return snap
}

// Restore builds a memory from a snapshot. Tasks that were shared between
// a question list and task links are shared again after the restore.
func Restore(cfg Config, snap Snapshot, opts ...Option) (*Memory, error) {
	m, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.terms.Restore(snap.Terms); err != nil {
		return nil, fmt.Errorf("restore terms: %w", err)
	}
	m.cycle = snap.Cycle
	m.evidence = NewClockAt(snap.Evidence)

	tasks := make(map[string]*ir.Task)
	task := func(ts TaskState) (*ir.Task, error) {
		t := &ir.Task{Sentence: ts.Sentence, Budget: ts.Budget, BestAnswer: ts.BestAnswer, Input: ts.Input}
		if !m.terms.Valid(t.Term()) {
			return nil, fmt.Errorf("task references unknown term %d", t.Term())
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if prev, ok := tasks[t.Key()]; ok {
			return prev, nil
		}
		tasks[t.Key()] = t
		return t, nil
	}

	for _, cs := range snap.Concepts {
		if !m.terms.Valid(cs.Term) {
			return nil, fmt.Errorf("concept references unknown term %d", cs.Term)
		}
		if err := cs.Budget.Validate(); err != nil {
			return nil, fmt.Errorf("concept %s: %w", m.terms.Key(cs.Term), err)
		}
		c := newConcept(cs.Term, cs.Budget, cfg, m.rng)
		// The current config may hold fewer sentences than the one the
		// snapshot was taken with; inserting ranks them and drops the rest.
		if err := restoreTable(c.beliefs, cs.Beliefs, m.terms); err != nil {
			return nil, fmt.Errorf("concept %s beliefs: %w", m.terms.Key(cs.Term), err)
		}
		if err := restoreTable(c.desires, cs.Desires, m.terms); err != nil {
			return nil, fmt.Errorf("concept %s desires: %w", m.terms.Key(cs.Term), err)
		}
		for _, qs := range cs.Questions {
			q, err := task(qs)
			if err != nil {
				return nil, fmt.Errorf("concept %s: %w", m.terms.Key(cs.Term), err)
			}
			c.questions = append(c.questions, q)
		}
		for _, l := range cs.TermLinks {
			if !m.terms.Valid(l.Target) {
				return nil, fmt.Errorf("term link references unknown term %d", l.Target)
			}
			c.termLinks.Put(&TermLink{Target: l.Target, Type: l.Type, budget: l.Budget})
		}
		for _, l := range cs.TaskLinks {
			t, err := task(l.Task)
			if err != nil {
				return nil, fmt.Errorf("concept %s: %w", m.terms.Key(cs.Term), err)
			}
			c.taskLinks.Put(&TaskLink{Task: t, Type: l.Type, budget: l.Budget})
		}
		m.concepts.Put(c)
	}
	for _, ts := range snap.Intake {
		t, err := task(ts)
		if err != nil {
			return nil, fmt.Errorf("intake: %w", err)
		}
		m.intake.push(t)
	}
	return m, nil
}

// restoreTable inserts a best-first list worst first, so equally ranked
// sentences keep their stored order.
func restoreTable(table *rankedTable, sentences []ir.Sentence, terms *term.Table) error {
	for i := len(sentences) - 1; i >= 0; i-- {
		s := sentences[i]
		if !terms.Valid(s.Term) {
			return fmt.Errorf("sentence references unknown term %d", s.Term)
		}
		if err := s.Validate(); err != nil {
			return err
		}
		table.insert(s)
	}
	return nil
}
