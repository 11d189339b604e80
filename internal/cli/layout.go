package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/expr"
	"github.com/roach88/graphcalc/internal/layout"
	"github.com/roach88/graphcalc/internal/parser"
)

// LayoutOptions holds flags for the layout command.
type LayoutOptions struct {
	*RootOptions
	Raw bool // skip reduction
}

// LayoutResult is the JSON payload of the layout command.
type LayoutResult struct {
	Input  string   `json:"input"`
	Linear string   `json:"linear"`
	Lines  []string `json:"lines"`
}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LayoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "layout <expression>",
		Short: "Draw an expression in two dimensions",
		Long: `Draw the reduced expression as monospace text, with stacked
fractions, raised exponents and matrix grids.

Use --raw to draw the expression as parsed, without reducing it.

Examples:
  graphcalc layout "1/2+x^2"
  graphcalc layout "[[1,2][3,4]]" --raw`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "draw the parsed expression without reducing it")

	return cmd
}

func runLayout(opts *LayoutOptions, input string, cmd *cobra.Command) error {
	out := opts.Formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	p, err := opts.Preferences()
	if err != nil {
		return err
	}

	a := opts.Arena(logger)
	root, err := parser.Parse(expr.NewBuilder(a), input)
	if err != nil {
		return reportEvalError(out, input, err)
	}

	if !opts.Raw {
		reducer := engine.New(a, engine.WithLogger(logger))
		reduced, err := reducer.Reduce(root, expr.EmptyContext{}, p)
		if err != nil {
			return reportEvalError(out, input, err)
		}
		root = reduced
	}
	defer root.Release()

	node := expr.CreateLayout(root, p.FloatMode, p.SignificantDigits)
	result := LayoutResult{
		Input:  input,
		Linear: layout.Linear(node),
		Lines:  layout.Render(node),
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(result.Lines, "\n"))
	return nil
}
