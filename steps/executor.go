package steps

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// ProcessExecutor runs invocations with os/exec, wiring the child to the
// given streams so interactive scaffolders can prompt the user.
type ProcessExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewProcessExecutor returns an executor attached to the process's own
// standard streams.
func NewProcessExecutor() *ProcessExecutor {
	return &ProcessExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Execute starts the process and waits for it to exit.
func (e *ProcessExecutor) Execute(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	return cmd.Run()
}
