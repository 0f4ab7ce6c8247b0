// Package scaffold creates projects from framework variants.
package scaffold

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/juanfont/create-starter-kit/frameworks"
	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/juanfont/create-starter-kit/steps"
	"github.com/juanfont/create-starter-kit/templates"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Request describes one project to generate.
type Request struct {
	Variant     *frameworks.Variant
	TargetDir   string // directory name as given by the user
	PackageName string
	Cwd         string
}

// Root returns the absolute project directory.
func (r Request) Root() string {
	if filepath.IsAbs(r.TargetDir) {
		return filepath.Clean(r.TargetDir)
	}
	return filepath.Join(r.Cwd, r.TargetDir)
}

// Generator creates projects.
type Generator struct {
	templates fs.FS
	fs        afero.Fs
	runner    *steps.Runner
	pm        pkgmanager.Identity
}

// NewGenerator creates a Generator that reads bundled templates from src,
// writes through dst and runs commands with runner for pm.
func NewGenerator(src fs.FS, dst afero.Fs, runner *steps.Runner, pm pkgmanager.Identity) *Generator {
	return &Generator{
		templates: src,
		fs:        dst,
		runner:    runner,
		pm:        pm,
	}
}

// Generate creates the project described by req and returns the message to
// show the user on success.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	v := req.Variant
	root := req.Root()

	log.Debug().
		Str("variant", v.Name).
		Str("kind", v.Kind().String()).
		Str("root", root).
		Str("package_manager", g.pm.String()).
		Msg("Generating project")

	switch v.Kind() {
	case frameworks.KindSteps:
		log.Info().Msgf("Setting up %s project...", v.Label())
		if err := g.runner.Run(ctx, v.Steps, req.TargetDir, root, req.Cwd, g.pm); err != nil {
			return "", err
		}
		m := templates.NewMaterializer(g.templates, g.fs)
		if err := m.Materialize(v.Name, v.Files, root); err != nil {
			return "", fmt.Errorf("adding %s files: %w", v.Name, err)
		}
		return SuccessMessage(req.TargetDir, g.pm), nil

	case frameworks.KindCommand:
		step := steps.Step{
			Command:     v.Command,
			Description: fmt.Sprintf("Running %s", v.Hint(g.pm)),
			WorkingDir:  steps.Root,
		}
		if err := g.runner.Run(ctx, []steps.Step{step}, req.TargetDir, root, req.Cwd, g.pm); err != nil {
			return "", err
		}
		return "", nil

	default:
		log.Info().Msgf("Scaffolding project in %s...", root)
		if err := CopyTemplate(g.templates, g.fs, v.Name, root, req.PackageName); err != nil {
			return "", err
		}
		return DoneMessage(root, req.Cwd, g.pm), nil
	}
}
