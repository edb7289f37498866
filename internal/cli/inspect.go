package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/narsese"
	"github.com/roach88/nars/internal/store"
	"github.com/roach88/nars/internal/term"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Database string
	Reasoner string
	Term     string
}

// SnapshotList is the result of inspect without a snapshot id.
type SnapshotList struct {
	Snapshots []store.Summary `json:"snapshots"`
}

func (l SnapshotList) Text() string {
	if len(l.Snapshots) == 0 {
		return "No snapshots found.\n"
	}
	var b strings.Builder
	for _, s := range l.Snapshots {
		fmt.Fprintf(&b, "%s  reasoner=%s cycle=%d concepts=%d", s.ID, s.Reasoner, s.Cycle, s.Concepts)
		if s.Label != "" {
			fmt.Fprintf(&b, " label=%q", s.Label)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// SnapshotInfo summarises one snapshot.
type SnapshotInfo struct {
	ID       string `json:"id"`
	Reasoner string `json:"reasoner"`
	Label    string `json:"label,omitempty"`
	Cycle    int64  `json:"cycle"`
	Evidence int64  `json:"evidence"`
	Terms    int    `json:"terms"`
	Concepts int    `json:"concepts"`
	Intake   int    `json:"intake"`
}

func (s SnapshotInfo) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot: %s\n", s.ID)
	fmt.Fprintf(&b, "Reasoner: %s\n", s.Reasoner)
	if s.Label != "" {
		fmt.Fprintf(&b, "Label:    %s\n", s.Label)
	}
	fmt.Fprintf(&b, "Cycle:    %d\n", s.Cycle)
	fmt.Fprintf(&b, "Evidence: %d\n", s.Evidence)
	fmt.Fprintf(&b, "Terms:    %d\n", s.Terms)
	fmt.Fprintf(&b, "Concepts: %d\n", s.Concepts)
	fmt.Fprintf(&b, "Intake:   %d\n", s.Intake)
	return b.String()
}

// ConceptInfo is one stored concept rendered as narsese.
type ConceptInfo struct {
	Term      string   `json:"term"`
	Priority  float64  `json:"priority"`
	Beliefs   []string `json:"beliefs"`
	Desires   []string `json:"desires,omitempty"`
	Questions []string `json:"questions,omitempty"`
	TermLinks []string `json:"term_links,omitempty"`
	TaskLinks int      `json:"task_links"`
}

func (c ConceptInfo) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Concept: %s (priority %.2f)\n", c.Term, c.Priority)
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", title)
		for _, l := range lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	section("Beliefs", c.Beliefs)
	section("Desires", c.Desires)
	section("Questions", c.Questions)
	section("Term links", c.TermLinks)
	fmt.Fprintf(&b, "Task links: %d\n", c.TaskLinks)
	return b.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [snapshot-id]",
		Short: "Inspect saved memory snapshots",
		Long: `List saved snapshots, summarise one, or show one of its concepts.

The id "latest" names the most recent snapshot (of --reasoner, when set).

Examples:
  nars inspect
  nars inspect --reasoner <reasoner-id>
  nars inspect latest
  nars inspect <snapshot-id> --term "<raven --> bird>"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runInspect(opts, id, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "snapshot database (overrides store.path)")
	cmd.Flags().StringVar(&opts.Reasoner, "reasoner", "", "only snapshots of this reasoner")
	cmd.Flags().StringVar(&opts.Term, "term", "", "show the concept for this term")

	return cmd
}

func runInspect(opts *InspectOptions, id string, cmd *cobra.Command) error {
	if opts.Term != "" && id == "" {
		return NewExitError(ExitCommandError, "--term requires a snapshot id")
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger()
	st, err := openStore(cfg, opts.Database, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	if id == "" {
		list, err := st.List(ctx, opts.Reasoner)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to list snapshots", err)
		}
		return out.Success(SnapshotList{Snapshots: list})
	}

	if id == "latest" {
		id, err = st.Latest(ctx, opts.Reasoner)
		if err != nil {
			return notFoundOr(err, "failed to find latest snapshot")
		}
	}

	if opts.Term == "" {
		rec, err := st.Load(ctx, id)
		if err != nil {
			return notFoundOr(err, "failed to load snapshot")
		}
		snap := rec.Snapshot
		return out.Success(SnapshotInfo{
			ID:       rec.ID,
			Reasoner: rec.Reasoner,
			Label:    rec.Label,
			Cycle:    snap.Cycle,
			Evidence: snap.Evidence,
			Terms:    len(snap.Terms),
			Concepts: len(snap.Concepts),
			Intake:   len(snap.Intake),
		})
	}

	key, err := narsese.Canonical(opts.Term)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid term", err)
	}
	state, err := st.Concept(ctx, id, key)
	if err != nil {
		return notFoundOr(err, "failed to read concept")
	}
	entries, err := st.Terms(ctx, id)
	if err != nil {
		return notFoundOr(err, "failed to read terms")
	}
	terms := term.NewTable()
	if err := terms.Restore(entries); err != nil {
		return WrapExitError(ExitFailure, "corrupt term table", err)
	}
	return out.Success(conceptInfo(terms, state))
}

// notFoundOr maps a missing snapshot or concept to a command error.
func notFoundOr(err error, msg string) error {
	if store.IsNotFound(err) {
		return WrapExitError(ExitCommandError, "not found", err)
	}
	return WrapExitError(ExitFailure, msg, err)
}

func conceptInfo(terms *term.Table, c memory.ConceptState) ConceptInfo {
	info := ConceptInfo{
		Term:      terms.Key(c.Term),
		Priority:  c.Budget.Priority,
		Beliefs:   []string{},
		TaskLinks: len(c.TaskLinks),
	}
	for _, s := range c.Beliefs {
		info.Beliefs = append(info.Beliefs, narsese.FormatStamped(terms, s))
	}
	for _, s := range c.Desires {
		info.Desires = append(info.Desires, narsese.FormatStamped(terms, s))
	}
	for _, q := range c.Questions {
		info.Questions = append(info.Questions, narsese.Format(terms, q.Sentence))
	}
	for _, l := range c.TermLinks {
		info.TermLinks = append(info.TermLinks, fmt.Sprintf("%s %s", l.Type, terms.Key(l.Target)))
	}
	return info
}
