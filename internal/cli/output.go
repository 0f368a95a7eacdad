package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // inputs were read but do not build: bad configuration, unknown variant, unmixable pair
	ExitCommandError = 2 // usage errors, unreadable database, unwritable destination
)

// ExitError is returned by a command after it has reported its failure
// through the OutputFormatter.
type ExitError struct {
	Code    int    // process exit code
	ErrCode string // E0xx/E1xx code shown to the user
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %v", e.ErrCode, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError attaches an exit code and error code to err.
func WrapExitError(code int, errCode string, err error) *ExitError {
	return &ExitError{Code: code, ErrCode: errCode, Err: err}
}

// Reported reports whether err was already written out by a command.
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// GetExitCode maps an error returned by the root command to a process exit
// code. Errors that no command reported come from cobra itself (unknown
// command, bad flags or arguments) and are usage errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // progress and logs, kept off Writer so JSON stays parseable
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes data as JSON, or hands the writer to text for the human
// rendering.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Error writes a failure. In text mode details are only shown with
// --verbose.
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

// Progressf writes a progress line to ErrWriter when --verbose is set.
func (f *OutputFormatter) Progressf(format string, args ...any) {
	if f.Verbose && f.ErrWriter != nil {
		fmt.Fprintf(f.ErrWriter, format+"\n", args...)
	}
}
