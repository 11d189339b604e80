package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphcalc/internal/ir"
	"github.com/roach88/graphcalc/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Session  string // optional - list sessions when empty
}

// SessionSummary describes one recorded session.
type SessionSummary struct {
	ID           string `json:"id"`
	Label        string `json:"label,omitempty"`
	Calculations int    `json:"calculations"`
	Checksum     uint32 `json:"checksum"`
}

// HistoryEntry is one recorded calculation.
type HistoryEntry struct {
	Seq         int64  `json:"seq"`
	Input       string `json:"input"`
	Exact       string `json:"exact"`
	Approximate string `json:"approximate"`
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Sessions     []SessionSummary `json:"sessions,omitempty"`
	Session      string           `json:"session,omitempty"`
	Calculations []HistoryEntry   `json:"calculations,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sessions and calculations",
		Long: `List the sessions recorded in a database, or the calculations of one
session in order.

Examples:
  graphcalc history --db ./calc.db
  graphcalc history --db ./calc.db --session s1
  graphcalc history --db ./calc.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "list calculations of this session")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.Session != "" {
		return historyOfSession(ctx, opts, st, cmd)
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	result := HistoryResult{Sessions: make([]SessionSummary, 0, len(sessions))}
	for _, sess := range sessions {
		summary, err := summarize(ctx, st, sess)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read session %s", sess.ID), err)
		}
		result.Sessions = append(result.Sessions, summary)
	}

	if opts.Format == "json" {
		return opts.Formatter(cmd).Success(result)
	}

	w := cmd.OutOrStdout()
	if len(result.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return nil
	}
	for _, s := range result.Sessions {
		fmt.Fprintf(w, "%s  %d calculation(s)  checksum=%08x", s.ID, s.Calculations, s.Checksum)
		if s.Label != "" {
			fmt.Fprintf(w, "  %q", s.Label)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func summarize(ctx context.Context, st *store.Store, sess ir.Session) (SessionSummary, error) {
	calcs, err := st.ListCalculations(ctx, sess.ID)
	if err != nil {
		return SessionSummary{}, err
	}
	sum, err := st.Checksum(ctx, sess.ID)
	if err != nil {
		return SessionSummary{}, err
	}
	return SessionSummary{
		ID:           sess.ID,
		Label:        sess.Label,
		Calculations: len(calcs),
		Checksum:     sum,
	}, nil
}

func historyOfSession(ctx context.Context, opts *HistoryOptions, st *store.Store, cmd *cobra.Command) error {
	if _, err := st.ReadSession(ctx, opts.Session); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", opts.Session))
		}
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	calcs, err := st.ListCalculations(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list calculations", err)
	}

	result := HistoryResult{
		Session:      opts.Session,
		Calculations: make([]HistoryEntry, 0, len(calcs)),
	}
	for _, c := range calcs {
		result.Calculations = append(result.Calculations, HistoryEntry{
			Seq:         c.Seq,
			Input:       c.Input,
			Exact:       c.Exact,
			Approximate: c.Approximate,
		})
	}

	if opts.Format == "json" {
		return opts.Formatter(cmd).Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Session %s: %d calculation(s)\n", result.Session, len(result.Calculations))
	for _, c := range result.Calculations {
		fmt.Fprintf(w, "%4d  %s = %s ≈ %s\n", c.Seq, c.Input, c.Exact, c.Approximate)
	}
	return nil
}
