package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/roach88/nars/internal/config"
	"github.com/roach88/nars/internal/engine"
	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Cycles   int64
	Database string
	Save     bool
	Label    string
	Restore  string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Reason over a batch of narsese",
		Long: `Feed a narsese file (or stdin) to a reasoner and print what it answers
and derives.

Lines are judgments, questions or goals. Lines starting with //, ' or * are
comments. A line holding only a number N lets the reasoner work N cycles
before the next lines are read.

The reasoner stops when the cycle limit is reached, or once the input is
exhausted and memory has stored nothing new for run.settleCycles cycles
(200 by default).

Examples:
  nars run animals.nal --cycles 500
  nars run animals.nal --save --label animals --db ./nars.db
  echo '<raven --> animal>?' | nars run --restore <snapshot-id>`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := "-"
			if len(args) == 1 {
				file = args[0]
			}
			return runReasoner(opts, file, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Cycles, "cycles", 0, "cycle limit (overrides run.maxCycles; 0 means none)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "snapshot database (overrides store.path)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save a snapshot when the run ends")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label for the saved snapshot")
	cmd.Flags().StringVar(&opts.Restore, "restore", "", "start from a saved snapshot")

	return cmd
}

func runReasoner(opts *RunOptions, file string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("cycles") {
		cfg.Run.MaxCycles = opts.Cycles
	}
	logger := opts.logger()

	var input io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open input", err)
		}
		defer f.Close()
		input = f
	}

	var st *store.Store
	if opts.Save || opts.Restore != "" {
		st, err = openStore(cfg, opts.Database, logger)
		if err != nil {
			return err
		}
		defer closeStore(st, logger)
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	engineOpts := reasonerOptions(cfg, logger)
	if opts.Restore != "" {
		m, err := restoreMemory(ctx, st, cfg, opts.Restore, logger)
		if err != nil {
			return err
		}
		engineOpts = append(engineOpts, engine.WithMemory(m))
	}
	r, err := engine.New(cfg.MemoryConfig(), engineOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create reasoner", err)
	}

	in := engine.NewReaderInput(input)
	r.AddInput(in)
	r.AddOutput(engine.NewWriterOutput(cmd.OutOrStdout(), opts.Format))

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "reasoner error", err)
	}
	if err := in.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	if opts.Save {
		// The run context may be cancelled by now; the snapshot is still
		// worth keeping.
		id, err := saveSnapshot(context.Background(), st, r, opts.Label)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to save snapshot", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved snapshot %s\n", id)
	}
	return nil
}

// reasonerOptions maps the run section of the config to engine options.
func reasonerOptions(cfg *config.Config, logger *zap.Logger) []engine.Option {
	opts := []engine.Option{engine.WithLogger(logger), engine.WithSettleCycles(cfg.Run.SettleCycles)}
	if cfg.Run.MaxCycles > 0 {
		opts = append(opts, engine.WithMaxCycles(cfg.Run.MaxCycles))
	}
	if cfg.Run.CyclesPerSecond > 0 {
		opts = append(opts, engine.WithRateLimit(rate.NewLimiter(rate.Limit(cfg.Run.CyclesPerSecond), 1)))
	}
	return opts
}

// signalContext is cmd's context, cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func openStore(cfg *config.Config, override string, logger *zap.Logger) (*store.Store, error) {
	path := cfg.Store.Path
	if override != "" {
		path = override
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	logger.Debug("database ready", zap.String("path", path))
	return st, nil
}

func closeStore(st *store.Store, logger *zap.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing database", zap.Error(err))
	}
}

func restoreMemory(ctx context.Context, st *store.Store, cfg *config.Config, id string, logger *zap.Logger) (*memory.Memory, error) {
	rec, err := st.Load(ctx, id)
	if store.IsNotFound(err) {
		return nil, WrapExitError(ExitCommandError, "unknown snapshot", err)
	}
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to load snapshot", err)
	}
	m, err := memory.Restore(cfg.MemoryConfig(), rec.Snapshot, memory.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to restore snapshot", err)
	}
	logger.Info("memory restored",
		zap.String("snapshot", id),
		zap.Int64("cycle", rec.Snapshot.Cycle),
		zap.Int("concepts", len(rec.Snapshot.Concepts)))
	return m, nil
}

func saveSnapshot(ctx context.Context, st *store.Store, r *engine.Reasoner, label string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	rec := store.Record{
		ID:       id.String(),
		Reasoner: r.ID(),
		Label:    label,
		Snapshot: r.Snapshot(),
	}
	if err := st.Save(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}
