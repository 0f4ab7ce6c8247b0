// Package steps runs ordered scaffolding commands as child processes.
package steps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/juanfont/create-starter-kit/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Placeholder is replaced with the target directory name in step commands.
const Placeholder = "TARGET_DIR"

// WorkingDir selects where a step runs.
type WorkingDir string

const (
	// Root steps run in the invocation directory, where scaffolders create
	// the project folder.
	Root WorkingDir = "root"
	// Target steps run inside the created project directory.
	Target WorkingDir = "target"
)

// Valid reports whether w is a known working directory. Empty means Root.
func (w WorkingDir) Valid() bool {
	return w == "" || w == Root || w == Target
}

// Step is a single command in a scaffolding sequence.
type Step struct {
	Command     string     `yaml:"command"`
	Description string     `yaml:"description"`
	WorkingDir  WorkingDir `yaml:"working_dir"`
}

// Invocation is a fully resolved process launch.
type Invocation struct {
	Name string
	Args []string
	Dir  string
}

func (i Invocation) String() string {
	return strings.TrimSpace(i.Name + " " + strings.Join(i.Args, " "))
}

// Executor launches a process and blocks until it exits.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) error
}

// Runner executes step sequences, stopping at the first failure.
type Runner struct {
	exec   Executor
	logger zerolog.Logger
}

// NewRunner creates a Runner. A nil executor uses ProcessExecutor.
func NewRunner(executor Executor) *Runner {
	if executor == nil {
		executor = NewProcessExecutor()
	}
	return &Runner{
		exec:   executor,
		logger: log.Logger,
	}
}

// WithLogger returns a copy of the runner that logs to logger.
func (r *Runner) WithLogger(logger zerolog.Logger) *Runner {
	cp := *r
	cp.logger = logger
	return &cp
}

// Substitute replaces every placeholder in command with targetDir.
func Substitute(command, targetDir string) string {
	return strings.ReplaceAll(command, Placeholder, targetDir)
}

// Resolve turns a step into an invocation: the working directory is chosen,
// the placeholder substituted and the command normalized for pm.
func Resolve(step Step, targetDir, projectDir, cwd string, pm pkgmanager.Identity) (Invocation, error) {
	dir := cwd
	if step.WorkingDir == Target {
		dir = projectDir
	}

	command := pkgmanager.Normalize(Substitute(step.Command, targetDir), pm)
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Invocation{}, types.ErrEmptyCommand
	}

	return Invocation{
		Name: fields[0],
		Args: fields[1:],
		Dir:  dir,
	}, nil
}

// Run executes steps in order. The first step that fails to launch or exits
// non-zero aborts the sequence with a *types.StepError; nothing is rolled back.
func (r *Runner) Run(ctx context.Context, steps []Step, targetDir, projectDir, cwd string, pm pkgmanager.Identity) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		inv, err := Resolve(step, targetDir, projectDir, cwd, pm)
		if err != nil {
			return types.NewStepError(i+1, step.Description, step.Command, 1, err)
		}

		r.logger.Info().Msg(step.Description)
		r.logger.Debug().
			Int("step", i+1).
			Str("command", inv.String()).
			Str("dir", inv.Dir).
			Msg("Running step")

		if err := r.exec.Execute(ctx, inv); err != nil {
			code := exitCode(err)
			r.logger.Error().
				Err(err).
				Int("exit_code", code).
				Msgf("Failed to execute: %s", inv)
			return types.NewStepError(i+1, step.Description, inv.String(), code, err)
		}
	}
	return nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// Describe summarises a step sequence for display.
func Describe(steps []Step) string {
	return fmt.Sprintf("Multi-step setup: %d commands", len(steps))
}
