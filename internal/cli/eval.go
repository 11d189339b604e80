package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/graphcalc/internal/calculation"
	"github.com/roach88/graphcalc/internal/store"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Database string
	Session  string // optional - a fresh session is generated when empty
	Label    string
	Bindings []string // name=expression

	// Generator allows overriding the session generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Generator calculation.SessionGenerator
}

// EvalResult is the JSON payload of the eval command.
type EvalResult struct {
	Session     string      `json:"session"`
	Seq         int64       `json:"seq"`
	Input       string      `json:"input"`
	Exact       string      `json:"exact"`
	Approximate string      `json:"approximate"`
	Undefined   bool        `json:"undefined"`
	Recorded    bool        `json:"recorded"`
	Trace       []TraceStep `json:"trace,omitempty"`
}

// TraceStep is one rewrite reported by eval --verbose.
type TraceStep struct {
	Seq    int64  `json:"seq"`
	Kind   string `json:"kind"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Reduce and approximate an expression",
		Long: `Parse an expression, reduce it exactly and approximate the result.

Symbols can be bound with --let. With --db the calculation is recorded
in the given session so it can be listed with history and checked with
replay.

Exit codes:
  0 - Expression evaluated
  1 - Expression rejected (syntax error, step quota, pool exhausted)
  2 - Command error (bad preferences, database error, etc.)

Examples:
  graphcalc eval "rem(-7,3)"
  graphcalc eval "x*4" --let x=2+3
  graphcalc eval "1/3" --db ./calc.db --session s1
  graphcalc eval "sin(30)" --config ./degrees.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the calculation in this SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to record into")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label for a newly created session")
	cmd.Flags().StringArrayVar(&opts.Bindings, "let", nil, "bind a symbol (name=expression), repeatable")

	return cmd
}

func runEval(opts *EvalOptions, input string, cmd *cobra.Command) error {
	ctx := context.Background()
	out := opts.Formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	p, err := opts.Preferences()
	if err != nil {
		return err
	}

	calcOpts := []calculation.Option{
		calculation.WithPreferences(p),
		calculation.WithLogger(logger),
	}
	if opts.Session != "" {
		calcOpts = append(calcOpts, calculation.WithSession(opts.Session))
	}
	if opts.Label != "" {
		calcOpts = append(calcOpts, calculation.WithSessionLabel(opts.Label))
	}
	if opts.Generator != nil {
		calcOpts = append(calcOpts, calculation.WithSessionGenerator(opts.Generator))
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		calcOpts = append(calcOpts, calculation.WithStore(st))
	}

	calc := calculation.New(opts.Arena(logger), calcOpts...)
	defer calc.Close()

	for _, binding := range opts.Bindings {
		name, value, ok := strings.Cut(binding, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid binding %q: want name=expression", binding))
		}
		if err := calc.Bind(name, value); err != nil {
			return reportEvalError(out, value, err)
		}
		out.VerboseLog("bound %s = %s", name, value)
	}

	res, err := calc.Evaluate(ctx, input)
	if err != nil {
		if opts.Database != "" && ErrorCode(err) == CodeInternal {
			return WrapExitError(ExitCommandError, "failed to record calculation", err)
		}
		return reportEvalError(out, input, err)
	}

	result := EvalResult{
		Session:     res.SessionID,
		Seq:         res.Seq,
		Input:       res.Input,
		Exact:       res.Exact,
		Approximate: res.Approximate,
		Undefined:   res.Undefined,
		Recorded:    opts.Database != "",
	}
	if opts.Verbose {
		for _, s := range res.Steps {
			result.Trace = append(result.Trace, TraceStep{
				Seq:    s.Seq,
				Kind:   s.Kind.String(),
				Before: s.Before,
				After:  s.After,
			})
		}
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	return outputEvalText(cmd, result)
}

// reportEvalError prints a rejected input and returns ExitFailure.
func reportEvalError(out *OutputFormatter, input string, err error) error {
	if fmtErr := out.Error(ErrorCode(err), err.Error(), map[string]string{"input": input}); fmtErr != nil {
		return fmtErr
	}
	return WrapExitError(ExitFailure, "evaluation failed", err)
}

func outputEvalText(cmd *cobra.Command, result EvalResult) error {
	w := cmd.OutOrStdout()

	for _, s := range result.Trace {
		fmt.Fprintf(w, "  [%d] %s: %s -> %s\n", s.Seq, s.Kind, s.Before, s.After)
	}
	fmt.Fprintf(w, "Exact:       %s\n", result.Exact)
	fmt.Fprintf(w, "Approximate: %s\n", result.Approximate)
	if result.Recorded {
		fmt.Fprintf(w, "Recorded:    %s #%d\n", result.Session, result.Seq)
	}
	return nil
}
