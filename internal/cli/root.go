package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Config   string // Preferences YAML, empty for defaults
	PoolSize int    // Arena capacity in bytes
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the graphcalc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "graphcalc",
		Short: "graphcalc - exact expression calculator",
		Long: `An exact expression calculator with a bounded memory pool.

Expressions are parsed into trees, reduced with exact arithmetic and
approximated in floating point. Calculations can be recorded to SQLite
and replayed to verify that reduction is deterministic.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.PoolSize <= 0 {
				return fmt.Errorf("invalid pool size %d: must be positive", opts.PoolSize)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "preferences YAML file")
	cmd.PersistentFlags().IntVar(&opts.PoolSize, "pool-size", pool.DefaultCapacity, "memory pool capacity in bytes")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewLayoutCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewSequenceCommand(opts))
	cmd.AddCommand(NewRegressionCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Preferences loads the --config file, or the defaults when none is given.
func (o *RootOptions) Preferences() (prefs.Preferences, error) {
	if o.Config == "" {
		return prefs.Default(), nil
	}
	p, err := prefs.Load(o.Config)
	if err != nil {
		return prefs.Preferences{}, WrapExitError(ExitCommandError, "failed to load preferences", err)
	}
	return p, nil
}

// Logger returns a text logger on w. Debug records are kept only in
// verbose mode.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Capacity returns the --pool-size value, or the default when unset.
func (o *RootOptions) Capacity() int {
	if o.PoolSize <= 0 {
		return pool.DefaultCapacity
	}
	return o.PoolSize
}

// Arena returns a fresh pool sized by --pool-size.
func (o *RootOptions) Arena(logger *slog.Logger) *pool.Arena {
	return pool.New(o.Capacity(), pool.WithLogger(logger))
}

// Formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) Formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
