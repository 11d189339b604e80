package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/numfmt"
	"github.com/roach88/graphcalc/internal/sequence"
)

// maxTerms bounds the index range of one sequence command.
const maxTerms = 1000

// SequenceOptions holds flags for the sequence command.
type SequenceOptions struct {
	*RootOptions
	Definitions []string // expressions in n, one per sequence
	From        int64
	To          int64
}

// SequenceTerm is one term in the sequence command output.
type SequenceTerm struct {
	N           int64  `json:"n"`
	Exact       string `json:"exact"`
	Approximate string `json:"approximate"`
}

// SequenceListing holds the terms of one sequence.
type SequenceListing struct {
	Name       string         `json:"name"`
	Color      string         `json:"color"`
	Definition string         `json:"definition"`
	Terms      []SequenceTerm `json:"terms"`
}

// SequenceResult is the JSON payload of the sequence command.
type SequenceResult struct {
	Sequences []SequenceListing `json:"sequences"`
	Checksum  uint32            `json:"checksum"`
}

// NewSequenceCommand creates the sequence command.
func NewSequenceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SequenceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "List the terms of explicit sequences",
		Long: `Evaluate explicit sequences in n over an index range.

Each --def adds a sequence, named u, v and w in order. Every term is
reduced exactly with n bound to the index and then approximated.

Exit codes:
  0 - All terms evaluated
  1 - A definition was rejected (syntax error, step quota, pool exhausted)
  2 - Command error (bad range, too many sequences, etc.)

Examples:
  graphcalc sequence --def "n^2" --from 0 --to 5
  graphcalc sequence --def "1/n" --def "2*n+1" --from 1 --to 4
  graphcalc sequence --def "rem(n,3)" --to 9 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSequence(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Definitions, "def", nil, "sequence definition in n, repeatable (required)")
	_ = cmd.MarkFlagRequired("def")
	cmd.Flags().Int64Var(&opts.From, "from", 0, "first index")
	cmd.Flags().Int64Var(&opts.To, "to", 5, "last index")

	return cmd
}

func runSequence(opts *SequenceOptions, cmd *cobra.Command) error {
	out := opts.Formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	if opts.To < opts.From {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid range: --to %d is before --from %d", opts.To, opts.From))
	}
	if opts.To-opts.From >= maxTerms {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid range: at most %d terms", maxTerms))
	}

	p, err := opts.Preferences()
	if err != nil {
		return err
	}

	store := sequence.NewStore()
	for _, def := range opts.Definitions {
		if _, err := store.Add(def); err != nil {
			if errors.Is(err, sequence.ErrFull) {
				return NewExitError(ExitCommandError, fmt.Sprintf("at most %d sequences", sequence.MaxSequences))
			}
			return WrapExitError(ExitCommandError, "failed to add sequence", err)
		}
	}

	a := opts.Arena(logger)
	result := SequenceResult{Checksum: store.Checksum()}
	for _, seq := range store.Defined() {
		terms, err := seq.Terms(a, opts.From, opts.To, p, engine.WithLogger(logger))
		if err != nil {
			return reportEvalError(out, seq.Definition, err)
		}
		listing := SequenceListing{
			Name:       seq.Name,
			Color:      string(seq.Color),
			Definition: seq.Definition,
			Terms:      make([]SequenceTerm, 0, len(terms)),
		}
		for _, t := range terms {
			listing.Terms = append(listing.Terms, SequenceTerm{
				N:           t.N,
				Exact:       t.Exact,
				Approximate: numfmt.FormatFloat(t.Value, p.FloatMode, p.SignificantDigits),
			})
		}
		result.Sequences = append(result.Sequences, listing)
		out.VerboseLog("%s: %d term(s), arena in use %d", seq.Name, len(terms), a.Used())
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	return outputSequenceText(cmd, result)
}

func outputSequenceText(cmd *cobra.Command, result SequenceResult) error {
	w := cmd.OutOrStdout()
	for _, s := range result.Sequences {
		fmt.Fprintf(w, "%s(n) = %s\n", s.Name, s.Definition)
		for _, t := range s.Terms {
			if t.Exact == t.Approximate {
				fmt.Fprintf(w, "  %s(%d) = %s\n", s.Name, t.N, t.Exact)
			} else {
				fmt.Fprintf(w, "  %s(%d) = %s ≈ %s\n", s.Name, t.N, t.Exact, t.Approximate)
			}
		}
	}
	fmt.Fprintf(w, "checksum=%08x\n", result.Checksum)
	return nil
}
