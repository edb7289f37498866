package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/nars/internal/config"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // CUE config file; empty means defaults

	// Logger is built from Verbose before any subcommand runs. Tests that
	// run a subcommand directly may leave it nil.
	Logger *zap.Logger

	// Env looks up NARS_* overrides. Nil means the process environment.
	Env func(string) (string, bool)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the nars CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nars",
		Short: "nars - a non-axiomatic reasoner",
		Long: `nars runs a non-axiomatic reasoning system: it takes narsese judgments,
questions and goals, derives new beliefs under bounded memory, and
answers questions with the best belief it holds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Logger == nil {
				logger, err := newLogger(opts.Verbose)
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				opts.Logger = logger
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "CUE config file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// newLogger builds the production logger on stderr, at debug level when
// verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// logger returns the configured logger or a no-op one.
func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// loadConfig reads .env, the config file and NARS_* overrides.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load .env", err)
	}
	env := o.Env
	if env == nil {
		env = os.LookupEnv
	}
	cfg, err := config.LoadWithEnv(o.Config, env)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
