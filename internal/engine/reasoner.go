package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/narsese"
)

// Reasoner runs a memory against its input and output channels.
type Reasoner struct {
	mu      sync.Mutex
	id      string
	mem     *memory.Memory
	parser  *narsese.Parser
	logger  *zap.Logger
	inputs  []InputChannel
	outputs []OutputChannel
	done    map[InputChannel]bool
	wake    chan struct{} // signaled by Input

	budget  *CycleBudget
	limiter *rate.Limiter
	ids     IDGenerator

	settle int64 // quiet cycles Run allows once inputs are exhausted
	quiet  int64 // cycles since input arrived or memory stored a task
}

// DefaultSettleCycles is how long Run keeps reasoning over exhausted
// inputs while memory learns nothing new.
const DefaultSettleCycles = 200

// Option configures a Reasoner.
type Option func(*Reasoner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reasoner) {
		r.logger = l
	}
}

// WithMaxCycles caps the number of cycles. Without it the reasoner runs
// until its context ends or its inputs are exhausted and memory settles.
func WithMaxCycles(n int64) Option {
	return func(r *Reasoner) {
		r.budget = NewCycleBudget(n)
	}
}

// WithRateLimit throttles Run to the limiter's rate.
func WithRateLimit(l *rate.Limiter) Option {
	return func(r *Reasoner) {
		r.limiter = l
	}
}

// WithSettleCycles sets how many cycles in a row Run keeps going after
// every input is exhausted without memory storing a new task. Zero stops
// as soon as every input is exhausted.
func WithSettleCycles(n int64) Option {
	return func(r *Reasoner) {
		r.settle = n
	}
}

// WithIDGenerator sets how the instance id is made. Default: UUIDv7.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Reasoner) {
		r.ids = g
	}
}

// WithMemory runs an existing memory, such as one restored from a
// snapshot, instead of a new one.
func WithMemory(m *memory.Memory) Option {
	return func(r *Reasoner) {
		r.mem = m
	}
}

// New creates a reasoner with an empty memory built from cfg.
func New(cfg memory.Config, opts ...Option) (*Reasoner, error) {
	r := &Reasoner{
		logger: zap.NewNop(),
		ids:    UUIDv7Generator{},
		done:   make(map[InputChannel]bool),
		wake:   make(chan struct{}, 1),
		settle: DefaultSettleCycles,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.id = r.ids.Generate()
	r.logger = r.logger.With(zap.String("reasoner", r.id))
	if r.mem == nil {
		m, err := memory.New(cfg, memory.WithLogger(r.logger))
		if err != nil {
			return nil, err
		}
		r.mem = m
	}
	r.parser = narsese.NewParser(r.mem.Terms(), r.mem)
	return r, nil
}

// ID returns the instance id.
func (r *Reasoner) ID() string {
	return r.id
}

// AddInput registers an input channel. Channels are polled in the order
// they were added.
func (r *Reasoner) AddInput(in InputChannel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, in)
}

// RemoveInput deregisters an input channel.
func (r *Reasoner) RemoveInput(in InputChannel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = slices.DeleteFunc(r.inputs, func(c InputChannel) bool { return c == in })
	delete(r.done, in)
}

// AddOutput registers an output channel.
func (r *Reasoner) AddOutput(out OutputChannel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, out)
}

// RemoveOutput deregisters an output channel.
func (r *Reasoner) RemoveOutput(out OutputChannel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = slices.DeleteFunc(r.outputs, func(c OutputChannel) bool { return c == out })
}

// Input parses one line and hands it to memory intake at once. Unlike
// lines from input channels, a malformed line is returned as an error
// (an *ir.MalformedInputError) instead of being reported to outputs. An
// idle Run wakes up for the new task.
func (r *Reasoner) Input(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.input(line); err != nil {
		return err
	}
	r.quiet = 0
	select {
	case r.wake <- struct{}{}:
	default:
	}
	return nil
}

func (r *Reasoner) input(line string) error {
	task, err := r.parser.ParseTask(line)
	if err != nil {
		return err
	}
	return r.mem.Intake(task)
}

// Inspect runs fn with the memory between cycles. fn must not keep the
// memory after it returns.
func (r *Reasoner) Inspect(fn func(m *memory.Memory)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.mem)
}

// Snapshot captures the memory between cycles.
func (r *Reasoner) Snapshot() memory.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mem.Snapshot()
}

// Step runs one cycle. It returns a BudgetExhaustedError without running
// anything once the cycle budget is spent.
func (r *Reasoner) Step(ctx context.Context) (memory.CycleReport, error) {
	report, _, err := r.step(ctx)
	return report, err
}

// step runs one cycle and reports whether every input is exhausted and
// memory has settled afterwards. Memory has settled when intake is empty
// and nothing was selected, or when no task was stored for the settle
// window.
func (r *Reasoner) step(ctx context.Context) (memory.CycleReport, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return memory.CycleReport{}, false, err
	}
	if r.budget != nil {
		if err := r.budget.Check(r.id); err != nil {
			return memory.CycleReport{}, false, err
		}
	}

	cycle := r.mem.Cycle() + 1
	arrived := false
	var rejected []Event
	for _, in := range r.inputs {
		if r.done[in] {
			continue
		}
		lines, done := in.Poll(cycle)
		if done {
			r.done[in] = true
		}
		if len(lines) > 0 {
			arrived = true
		}
		for _, line := range lines {
			if err := r.input(line); err != nil {
				r.logger.Warn("input rejected", zap.String("input", line), zap.Error(err))
				rejected = append(rejected, Event{Kind: KindRejected, Cycle: cycle, Input: line, Error: err.Error()})
			}
		}
	}

	report := r.mem.ProcessCycle()
	if report.CircularSkips > 0 || report.Evictions > 0 {
		r.logger.Debug("cycle",
			zap.Int64("cycle", report.Cycle),
			zap.Int("circular_skips", report.CircularSkips),
			zap.Int("evictions", report.Evictions))
	}

	events := rejected
	for _, em := range r.mem.TakeEmissions() {
		events = append(events, r.render(em))
	}
	for _, ev := range events {
		for _, out := range r.outputs {
			if err := out.Emit(ev); err != nil {
				r.logger.Error("output failed", zap.Error(err), zap.Int64("cycle", ev.Cycle))
			}
		}
	}

	if arrived || report.Stored > 0 {
		r.quiet = 0
	} else {
		r.quiet++
	}
	exhausted := (r.mem.IntakeLen() == 0 && report.Idle()) || r.quiet >= r.settle
	for _, in := range r.inputs {
		if !r.done[in] {
			exhausted = false
		}
	}
	return report, exhausted, nil
}

func (r *Reasoner) render(em memory.Emission) Event {
	terms := r.mem.Terms()
	ev := Event{
		Kind:     string(em.Kind),
		Cycle:    em.Cycle,
		Sentence: narsese.Format(terms, em.Sentence),
		Evidence: append([]int64(nil), em.Sentence.Stamp.Evidence...),
	}
	if em.Sentence.Truth != nil {
		t := *em.Sentence.Truth
		ev.Truth = &t
	}
	if em.Question != nil {
		ev.Question = narsese.Format(terms, *em.Question)
	}
	return ev
}

// Run cycles until ctx ends (returning its error), the cycle budget is
// spent, or every input is exhausted and memory has settled (both
// returning nil). Memory settles when it has nothing to select, or when
// the settle window passes without a new task being stored. When a cycle finds nothing to do and all live inputs can signal
// new lines, Run sleeps until one does.
func (r *Reasoner) Run(ctx context.Context) error {
	r.logger.Info("reasoner starting")
	for {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return r.stopped(ctx)
				}
				return fmt.Errorf("rate limit: %w", err)
			}
		}
		report, exhausted, err := r.step(ctx)
		switch {
		case IsBudgetExhausted(err):
			r.logger.Info("reasoner stopping: cycle budget exhausted", zap.Error(err))
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return r.stopped(ctx)
		case err != nil:
			return err
		case exhausted:
			r.logger.Info("reasoner stopping: input exhausted", zap.Int64("cycle", report.Cycle))
			return nil
		}
		if report.Idle() {
			if err := r.idle(ctx); err != nil {
				return r.stopped(ctx)
			}
		}
	}
}

func (r *Reasoner) stopped(ctx context.Context) error {
	r.logger.Info("reasoner stopping: context done")
	return ctx.Err()
}

// idle blocks until an input signals, Input is called, or ctx ends, when
// there is nothing to reason about and every live input can signal. Otherwise it returns at
// once so inputs that count cycles keep advancing.
func (r *Reasoner) idle(ctx context.Context) error {
	r.mu.Lock()
	wake := []<-chan struct{}{r.wake}
	ready := r.mem.IntakeLen() == 0
	for _, in := range r.inputs {
		if r.done[in] {
			continue
		}
		w, ok := in.(waiter)
		if !ok {
			ready = false
			break
		}
		wake = append(wake, w.Wait())
	}
	r.mu.Unlock()

	if !ready {
		return ctx.Err()
	}
	cases := make(chan struct{}, 1)
	stop := make(chan struct{})
	defer close(stop)
	for _, ch := range wake {
		go func(ch <-chan struct{}) {
			select {
			case <-ch:
				select {
				case cases <- struct{}{}:
				default:
				}
			case <-stop:
			}
		}(ch)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-cases:
		return nil
	}
}
