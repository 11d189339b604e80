package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/graphcalc/internal/layout"
	"github.com/roach88/graphcalc/internal/numfmt"
	"github.com/roach88/graphcalc/internal/regression"
)

// RegressionOptions holds flags for the regression command.
type RegressionOptions struct {
	*RootOptions
	Points []string // "x,y"
	At     []float64
}

// RegressionPrediction is the fitted model evaluated at one x.
type RegressionPrediction struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// RegressionResult is the JSON payload of the regression command.
type RegressionResult struct {
	Model        string                 `json:"model"`
	Lines        []string               `json:"lines"`
	Coefficients map[string]string      `json:"coefficients"`
	Predictions  []RegressionPrediction `json:"predictions,omitempty"`
}

// Coefficient names of the cubic model, in order.
var cubicCoefficients = []string{"a", "b", "c", "d"}

// NewRegressionCommand creates the regression command.
func NewRegressionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegressionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "regression",
		Short: "Fit a cubic model to data points",
		Long: `Fit y = a×x^3+b×x^2+c×x+d to the given points by least squares.

At least four points with four distinct x values are needed. Use --at to
evaluate the fitted model.

Exit codes:
  0 - Model fitted
  1 - The points do not determine the model
  2 - Command error (malformed point, etc.)

Examples:
  graphcalc regression --point -1,-10 --point 0,-4 --point 1,-2 --point 2,2
  graphcalc regression --point 0,0 --point 1,1 --point 2,8 --point 3,27 --at 4 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegression(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Points, "point", nil, "data point x,y, repeatable (required)")
	_ = cmd.MarkFlagRequired("point")
	cmd.Flags().Float64SliceVar(&opts.At, "at", nil, "evaluate the fitted model at these x values")

	return cmd
}

func runRegression(opts *RegressionOptions, cmd *cobra.Command) error {
	out := opts.Formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	p, err := opts.Preferences()
	if err != nil {
		return err
	}

	points := make([]regression.Point, 0, len(opts.Points))
	for _, raw := range opts.Points {
		pt, err := parsePoint(raw)
		if err != nil {
			return NewExitError(ExitCommandError, err.Error())
		}
		points = append(points, pt)
	}

	model := regression.CubicModel{}
	coeffs, err := regression.Fit(model, points)
	if err != nil {
		if errors.Is(err, regression.ErrTooFewPoints) || errors.Is(err, regression.ErrSingular) {
			if fmtErr := out.Error("E_REGRESSION", err.Error(), nil); fmtErr != nil {
				return fmtErr
			}
			return WrapExitError(ExitFailure, "regression failed", err)
		}
		return WrapExitError(ExitCommandError, "regression failed", err)
	}

	node, err := model.Layout(opts.Arena(logger), p)
	if err != nil {
		return reportEvalError(out, "cubic model", err)
	}

	format := func(v float64) string { return numfmt.FormatFloat(v, p.FloatMode, p.SignificantDigits) }
	result := RegressionResult{
		Model:        layout.Linear(node),
		Lines:        layout.Render(node),
		Coefficients: make(map[string]string, len(coeffs)),
	}
	scale := 1.0
	for _, pt := range points {
		scale = math.Max(scale, math.Abs(pt.Y))
	}
	for i, c := range coeffs {
		// Rounding noise from the solve prints as zero.
		if math.Abs(c) < 1e-9*scale {
			c = 0
		}
		coeffs[i] = c
		result.Coefficients[cubicCoefficients[i]] = format(c)
	}
	for _, x := range opts.At {
		result.Predictions = append(result.Predictions, RegressionPrediction{
			X: format(x),
			Y: format(model.Evaluate(coeffs, x)),
		})
	}

	if opts.Format == "json" {
		return out.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, strings.Join(result.Lines, "\n"))
	for _, name := range cubicCoefficients {
		fmt.Fprintf(w, "%s = %s\n", name, result.Coefficients[name])
	}
	for _, pr := range result.Predictions {
		fmt.Fprintf(w, "y(%s) = %s\n", pr.X, pr.Y)
	}
	return nil
}

// parsePoint reads an "x,y" pair.
func parsePoint(raw string) (regression.Point, error) {
	xs, ys, ok := strings.Cut(raw, ",")
	if !ok {
		return regression.Point{}, fmt.Errorf("invalid point %q: want x,y", raw)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return regression.Point{}, fmt.Errorf("invalid point %q: %w", raw, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return regression.Point{}, fmt.Errorf("invalid point %q: %w", raw, err)
	}
	return regression.Point{X: x, Y: y}, nil
}
