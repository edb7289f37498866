// Package memory holds the reasoner's working memory and runs its cycle.
//
// A Memory owns the term table, the concept bag, the intake buffer, the
// evidence clock and the cycle counter. Exactly one goroutine (the cycle
// owner) may call ProcessCycle, Intake, ConceptFor, Snapshot and the
// inspection methods at a time; the engine package enforces that.
package memory

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/roach88/nars/internal/bag"
	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/inference"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// Memory is the bounded store of concepts plus the control state of the
// reasoning cycle.
type Memory struct {
	cfg    Config
	logger *zap.Logger

	terms    *term.Table
	engine   *inference.Engine
	rng      *rand.Rand
	concepts *bag.Bag[term.ID, *Concept]
	intake   *intakeQueue
	evidence *Clock

	// current is the concept taken out of the bag for this cycle. Lookups
	// must still find it.
	current *Concept
	cycle   int64
	state   atomic.Int32
	pending []Emission
}

// Option configures a Memory.
type Option func(*Memory)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Memory) {
		m.logger = l
	}
}

// New creates an empty memory.
func New(cfg Config, opts ...Option) (*Memory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid memory config: %w", err)
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	terms := term.NewTable()
	m := &Memory{
		cfg:    cfg,
		logger: zap.NewNop(),
		terms:  terms,
		engine: inference.New(terms, cfg.Inference),
		rng:    rng,
		concepts: bag.New[term.ID, *Concept](bag.Config{
			Capacity:   cfg.ConceptCapacity,
			Levels:     cfg.Levels,
			ForgetRate: cfg.ForgetRate,
		}, rng),
		intake:   newIntakeQueue(cfg.IntakeCapacity),
		evidence: NewClock(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Config returns the configuration the memory was built with.
func (m *Memory) Config() Config { return m.cfg }

// Terms returns the term table. Parsers intern into it.
func (m *Memory) Terms() *term.Table { return m.terms }

// Cycle returns the number of completed cycles.
func (m *Memory) Cycle() int64 { return m.cycle }

// State returns the current cycle phase. Safe to call from any goroutine.
func (m *Memory) State() State { return State(m.state.Load()) }

func (m *Memory) setState(s State) { m.state.Store(int32(s)) }

// NewStamp allocates a stamp with a fresh evidence id for an input.
func (m *Memory) NewStamp() ir.Stamp {
	return ir.NewStamp(m.evidence.Next(), m.cycle)
}

// Evidence returns the last evidence id issued.
func (m *Memory) Evidence() int64 { return m.evidence.Current() }

// Intake validates t and appends it to the intake buffer. Malformed tasks
// are rejected with a MalformedInputError and never reach the cycle.
func (m *Memory) Intake(t *ir.Task) error {
	if err := m.validate(t); err != nil {
		return err
	}
	if m.intake.push(t) {
		m.logger.Warn("intake buffer full, dropped oldest task",
			zap.Int("capacity", m.cfg.IntakeCapacity))
	}
	return nil
}

func (m *Memory) validate(t *ir.Task) error {
	if t == nil {
		return &ir.MalformedInputError{Reason: "nil task"}
	}
	if !m.terms.Valid(t.Term()) {
		return &ir.MalformedInputError{Reason: fmt.Sprintf("term %d not in this memory", t.Term())}
	}
	if err := t.Validate(); err != nil {
		var me *ir.MalformedInputError
		if errors.As(err, &me) && me.Input == "" {
			me.Input = m.terms.Key(t.Term())
		}
		return err
	}
	if m.terms.Kind(t.Term()) == term.KindAtom {
		return &ir.MalformedInputError{Input: m.terms.Key(t.Term()), Reason: "sentence term must be a statement or compound"}
	}
	return nil
}

// IntakeLen returns the number of buffered tasks.
func (m *Memory) IntakeLen() int { return m.intake.len() }

// IntakeDropped returns how many tasks were dropped from a full buffer.
func (m *Memory) IntakeDropped() int64 { return m.intake.droppedCount() }

// ConceptFor returns the concept of id, or nil. It never creates one.
func (m *Memory) ConceptFor(id term.ID) *Concept {
	if m.current != nil && m.current.term == id {
		return m.current
	}
	c, ok := m.concepts.Peek(id)
	if !ok {
		return nil
	}
	return c
}

// Concepts returns every concept, highest priority first.
func (m *Memory) Concepts() []*Concept {
	out := m.concepts.Items()
	if m.current != nil {
		out = append(out, m.current)
	}
	return out
}

// ConceptCount returns the number of concepts.
func (m *Memory) ConceptCount() int {
	n := m.concepts.Len()
	if m.current != nil {
		n++
	}
	return n
}

// ConceptEvictions returns how many concepts have been forgotten.
func (m *Memory) ConceptEvictions() int64 { return m.concepts.Evictions() }

// TakeEmissions returns and clears the emissions produced since the last
// call.
func (m *Memory) TakeEmissions() []Emission {
	out := m.pending
	m.pending = nil
	return out
}

// conceptFor returns the concept of id, creating it if needed. A new
// concept starts with budget b; an existing one is activated by it.
func (m *Memory) conceptFor(id term.ID, b ir.Budget, r *CycleReport) *Concept {
	if c := m.ConceptFor(id); c != nil {
		if c != m.current {
			m.concepts.Activate(id, b)
		} else {
			c.SetBudget(calculus.Activate(c.Budget(), b))
		}
		return c
	}
	c := newConcept(id, b, m.cfg, m.rng)
	if evicted, ok := m.concepts.Put(c); ok {
		r.Evictions++
		m.logger.Debug("concept evicted",
			zap.String("term", m.terms.Key(evicted.term)),
			zap.Int64("cycle", m.cycle))
	}
	return c
}

func (m *Memory) emit(e Emission) {
	m.pending = append(m.pending, e)
}
