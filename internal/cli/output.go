package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful conversion
	ExitFailure      = 1 // Conversion failed mid-run (table I/O error)
	ExitCommandError = 2 // Command error (bad flags, unreadable export root, bad config)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error // underlying error (optional)
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

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Formatter handles JSON vs text output for command summaries. SQL output
// never goes through the formatter; diagnostics go to ErrWriter so they
// cannot corrupt a SQL stream on stdout.
type Formatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
	TraceID   string
}

// NewTraceID returns a sortable unique id correlating one command run.
func NewTraceID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Response is the standard JSON envelope for command summaries.
type Response struct {
	Status  string   `json:"status"` // "ok" or "error"
	Data    any      `json:"data,omitempty"`
	Error   *RespErr `json:"error,omitempty"`
	TraceID string   `json:"trace_id,omitempty"`
}

// RespErr is the error structure for JSON responses.
type RespErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs a successful summary in the configured format. Text mode
// expects data to implement fmt.Stringer or be a plain string.
func (f *Formatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status:  "ok",
			Data:    data,
			TraceID: f.TraceID,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *Formatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status:  "error",
			Error:   &RespErr{Code: code, Message: message, Details: details},
			TraceID: f.TraceID,
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes a diagnostic line to ErrWriter when verbose is on.
func (f *Formatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
