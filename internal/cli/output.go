package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/nicemap/internal/projection"
	"github.com/roach88/nicemap/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Map rendered, or ranking printed
	ExitFailure      = 1 // Report failure (empty ranking, coordinate outside projection domain)
	ExitCommandError = 2 // Command error (bad config, database unreachable, unwritable output)
)

// Error codes carried in CLI error responses.
const (
	ErrCodeConfig      = "E002" // Invalid configuration or flags
	ErrCodeRunFailed   = "E003" // Storage or output error
	ErrCodeEmptyResult = "E004" // No record for the period
	ErrCodeTransform   = "E005" // Coordinate outside projection domain
)

// ExitError represents an error with a specific exit code.
// Commands return it so main can exit with a meaningful status.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// classifyError maps a report error to its response code and exit code.
func classifyError(err error) (string, int) {
	switch {
	case errors.Is(err, store.ErrEmptyResult):
		return ErrCodeEmptyResult, ExitFailure
	case errors.Is(err, projection.ErrCoordinateTransform):
		return ErrCodeTransform, ExitFailure
	default:
		return ErrCodeRunFailed, ExitCommandError
	}
}

// errorDetails extracts structured context from err, if any.
func errorDetails(err error) interface{} {
	var te *projection.TransformError
	if errors.As(err, &te) {
		return map[string]interface{}{"index": te.Index, "x": te.X, "y": te.Y}
	}
	return nil
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	RunID     string // Copied into JSON responses once the run has started
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string      `json:"status"`           // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`   // success payload
	Error   *CLIError   `json:"error,omitempty"`  // error details
	RunID   string      `json:"run_id,omitempty"` // correlates with log lines
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data, RunID: f.RunID})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			RunID:  f.RunID,
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err through the formatter and returns the matching ExitError.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classifyError(err)
	_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), errorDetails(err))
	return WrapExitError(exit, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
