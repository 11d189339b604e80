package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/parser"
	"github.com/roach88/graphcalc/internal/pool"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // Rejected expression, failed scenario, replay mismatch
	ExitCommandError = 2 // Bad flags, unreadable preferences, database errors
)

// ExitError carries the process exit code of a failed command. main reads
// it with GetExitCode.
type ExitError struct {
	Code    int
	Message string
	Err     error // optional cause
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code carried by err, or ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter prints calculator results and rejected expressions as
// text or as one JSON document per command.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose notes; Writer when nil
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError describes a rejected expression or a failed check.
type CLIError struct {
	Code    string `json:"code"` // parser code such as "E202", or a runtime code
	Message string `json:"message"`
	Details any    `json:"details,omitempty"` // usually the offending input
}

// Success prints a command result.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error prints a rejection. Text output shows details only in verbose mode.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog prints a progress note, such as a symbol binding, in verbose
// mode. Notes go to ErrWriter so JSON on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Codes for errors that carry none of their own.
const (
	CodeOutOfCapacity = string(engine.ErrCodeOutOfCapacity)
	CodeInternal      = "INTERNAL"
)

// ErrorCode returns the machine-readable code of an evaluation error: the
// parser's code for syntax errors, the runtime code for reduction failures,
// and CodeOutOfCapacity when the pool ran out during construction.
func ErrorCode(err error) string {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	var rerr *engine.RuntimeError
	if errors.As(err, &rerr) {
		return string(rerr.Code)
	}
	if pool.IsCapacityError(err) {
		return CodeOutOfCapacity
	}
	return CodeInternal
}
