package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/nars/internal/engine"
	"github.com/roach88/nars/internal/server"
	"github.com/roach88/nars/internal/store"
)

const (
	shutdownTimeout = 10 * time.Second
	serveEventLimit = 10000
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr     string
	Database string
	Save     bool
	Label    string
	Restore  string

	// Ready is called with the bound address once the listener is open.
	Ready func(addr string)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a reasoner behind an HTTP API",
		Long: `Run a long-lived reasoner and expose it over HTTP.

Endpoints:
  GET  /api/health           reasoner status
  POST /api/input            narsese lines (text body or {"lines": [...]})
  GET  /api/output?after=N   events emitted since N
  GET  /api/concepts/{term}  beliefs and links of one concept

The reasoner sleeps while it has nothing to do and wakes on input. On
SIGINT or SIGTERM the server drains for up to 10s.

Examples:
  nars serve --addr :8080
  nars serve --restore <snapshot-id> --save --db ./nars.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.Database, "db", "", "snapshot database (overrides store.path)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save a snapshot on shutdown")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label for the saved snapshot")
	cmd.Flags().StringVar(&opts.Restore, "restore", "", "start from a saved snapshot")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger()

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

	// An open input keeps Run alive while the API has nothing to say.
	keepAlive := engine.NewTextInput()
	r.AddInput(keepAlive)
	out := engine.NewCollector(serveEventLimit)
	r.AddOutput(out)

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}
	srv := &http.Server{
		Handler:           server.New(r, out, logger, Version),
		ReadHeaderTimeout: 10 * time.Second,
	}
	addr := ln.Addr().String()
	logger.Info("server starting", zap.String("addr", addr), zap.String("reasoner", r.ID()))
	if opts.Ready != nil {
		opts.Ready(addr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("reasoner: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		keepAlive.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "serve failed", err)
	}
	logger.Info("server stopped")

	if opts.Save {
		id, err := saveSnapshot(context.Background(), st, r, opts.Label)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to save snapshot", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved snapshot %s\n", id)
	}
	return nil
}
