// Package types holds the error kinds shared by the scaffolding packages.
package types

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrCancelled is returned when the user aborts an interactive selection.
	ErrCancelled = errors.New("operation cancelled")

	ErrMissingTemplateFile   = errors.New("template file not found")
	ErrMalformedJSONTemplate = errors.New("malformed JSON template")
	ErrEmptyCommand          = errors.New("empty command")
)

// StepError represents a child process that exited non-zero or could not be launched.
type StepError struct {
	Index       int    // 1-based position of the step in its sequence
	Description string // Step description shown to the user
	Command     string // Command line after substitution and normalization
	ExitCode    int    // Exit status of the child; 1 when unavailable
	Err         error  // Underlying exec error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %s: %v", e.Index, e.Description, e.Command, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError creates a new StepError. A non-positive exit code is replaced by 1.
func NewStepError(index int, description, command string, exitCode int, err error) *StepError {
	if exitCode <= 0 {
		exitCode = 1
	}
	return &StepError{
		Index:       index,
		Description: description,
		Command:     command,
		ExitCode:    exitCode,
		Err:         err,
	}
}

// TemplateError represents a bundled template file that could not be materialized.
type TemplateError struct {
	Template string
	Source   string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %s: %v", e.Template, e.Source, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code.
// Cancellation is a clean exit; a failed step forwards the child's status.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrCancelled) {
		return 0
	}

	var serr *StepError
	if errors.As(err, &serr) {
		return serr.ExitCode
	}

	return 1
}
