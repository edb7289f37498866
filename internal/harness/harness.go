package harness

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/nars/internal/engine"
	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/testutil"
)

// Harness runs scenarios. The zero value is not usable; call New.
type Harness struct {
	logger   *zap.Logger
	parallel int
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger handed to every reasoner.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithParallelism bounds how many scenarios RunAll runs at once. Zero or
// less means no bound.
func WithParallelism(n int) Option {
	return func(h *Harness) {
		h.parallel = n
	}
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes one scenario on a fresh reasoner and evaluates its
// assertions. The error is reserved for failures to run at all; failed
// assertions are reported in the result.
//
// Execution flow:
// 1. Create a reasoner with the scenario's config and a fixed id
// 2. Feed the input lines through a batch reader
// 3. Step exactly scenario.Cycles cycles
// 4. Evaluate assertions against the trace and final memory
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg := scenario.Config.Apply(memory.DefaultConfig())
	r, err := engine.New(cfg,
		engine.WithLogger(h.logger.With(zap.String("scenario", scenario.Name))),
		engine.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.Name)),
		engine.WithMaxCycles(scenario.Cycles),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoner: %w", err)
	}

	collector := engine.NewCollector(0)
	r.AddInput(engine.NewReaderInput(strings.NewReader(strings.Join(scenario.Input, "\n"))))
	r.AddOutput(collector)

	result := NewResult(scenario.Name)
	for result.Cycles < scenario.Cycles {
		if _, err := r.Step(ctx); err != nil {
			return nil, fmt.Errorf("cycle %d: %w", result.Cycles+1, err)
		}
		result.Cycles++
	}

	for _, ev := range collector.Events() {
		result.Trace = append(result.Trace, traceEvent(ev))
	}

	var failures []string
	r.Inspect(func(m *memory.Memory) {
		failures = EvaluateAssertions(result.Trace, scenario.Assertions, m)
	})
	for _, msg := range failures {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		zap.String("scenario", scenario.Name),
		zap.Bool("pass", result.Pass),
		zap.Int("events", len(result.Trace)))
	return result, nil
}

// RunAll runs scenarios concurrently, each on its own reasoner. Results are
// in scenario order. The first run error cancels the rest.
func (h *Harness) RunAll(ctx context.Context, scenarios []*Scenario) ([]*Result, error) {
	results := make([]*Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	if h.parallel > 0 {
		g.SetLimit(h.parallel)
	}
	for i, s := range scenarios {
		g.Go(func() error {
			res, err := h.Run(ctx, s)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
