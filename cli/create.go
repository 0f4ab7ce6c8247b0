package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/juanfont/create-starter-kit/frameworks"
	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/juanfont/create-starter-kit/scaffold"
	"github.com/juanfont/create-starter-kit/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Overwrite choices for a non-empty target directory.
const (
	overwriteNo     = "no"
	overwriteYes    = "yes"
	overwriteIgnore = "ignore"
)

// createOptions are the command-line inputs of a create run.
type createOptions struct {
	targetDir string
	template  string
	overwrite bool
}

// creator runs the interactive project creation flow.
type creator struct {
	registry         *frameworks.Registry
	prompter         Prompter
	fs               afero.Fs
	generator        *scaffold.Generator
	pm               pkgmanager.Identity
	cwd              string
	defaultTargetDir string
	out              io.Writer
}

func (c *creator) run(ctx context.Context, opts createOptions) error {
	targetDir, err := c.resolveTargetDir(opts.targetDir)
	if err != nil {
		return err
	}

	root := scaffold.Request{TargetDir: targetDir, Cwd: c.cwd}.Root()
	if err := c.prepareDir(targetDir, root, opts.overwrite); err != nil {
		return err
	}

	packageName, err := c.resolvePackageName(root)
	if err != nil {
		return err
	}

	variant, err := c.resolveVariant(opts.template)
	if err != nil {
		return err
	}

	log.Debug().
		Str("target_dir", targetDir).
		Str("package_name", packageName).
		Str("template", variant.Name).
		Str("package_manager", c.pm.String()).
		Msg("Creating project")

	msg, err := c.generator.Generate(ctx, scaffold.Request{
		Variant:     variant,
		TargetDir:   targetDir,
		PackageName: packageName,
		Cwd:         c.cwd,
	})
	if err != nil {
		return err
	}

	if msg != "" {
		fmt.Fprintf(c.out, "\n%s\n", msg)
	}
	return nil
}

func (c *creator) resolveTargetDir(arg string) (string, error) {
	if dir := scaffold.FormatTargetDir(arg); dir != "" {
		return dir, nil
	}

	defaultDir := c.defaultTargetDir
	if defaultDir == "" {
		defaultDir = scaffold.DefaultTargetDir
	}

	answer, err := c.prompter.Input("Project name:", defaultDir, func(v string) error {
		if scaffold.FormatTargetDir(v) == "" {
			return errors.New("invalid project name")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return scaffold.FormatTargetDir(answer), nil
}

func (c *creator) prepareDir(targetDir, root string, overwrite bool) error {
	exists, err := scaffold.Exists(c.fs, root)
	if err != nil {
		return fmt.Errorf("checking target directory: %w", err)
	}
	if !exists {
		return nil
	}

	choice := overwriteYes
	if !overwrite {
		subject := fmt.Sprintf("Target directory %q", targetDir)
		if targetDir == "." {
			subject = "Current directory"
		}
		choice, err = c.prompter.Select(subject+" is not empty. Please choose how to proceed:", []Option{
			{Label: "Cancel operation", Value: overwriteNo},
			{Label: "Remove existing files and continue", Value: overwriteYes},
			{Label: "Ignore files and continue", Value: overwriteIgnore},
		})
		if err != nil {
			return err
		}
	}

	switch choice {
	case overwriteYes:
		log.Debug().Str("dir", root).Msg("Emptying target directory")
		if err := scaffold.EmptyDir(c.fs, root); err != nil {
			return fmt.Errorf("emptying %s: %w", targetDir, err)
		}
	case overwriteNo:
		return types.ErrCancelled
	}
	return nil
}

func (c *creator) resolvePackageName(root string) (string, error) {
	name := filepath.Base(root)
	if scaffold.IsValidPackageName(name) {
		return name, nil
	}

	return c.prompter.Input("Package name:", scaffold.ToValidPackageName(name), func(v string) error {
		if !scaffold.IsValidPackageName(v) {
			return errors.New("invalid package.json name")
		}
		return nil
	})
}

func (c *creator) resolveVariant(template string) (*frameworks.Variant, error) {
	if template != "" {
		if v, ok := c.registry.Lookup(template); ok {
			return v, nil
		}
	}

	message := "Select a framework:"
	if template != "" {
		message = fmt.Sprintf("%q isn't a valid template. Please choose from below: ", template)
	}

	var frameworkOptions []Option
	for _, f := range c.registry.Frameworks() {
		frameworkOptions = append(frameworkOptions, Option{Label: f.Label(), Value: f.Name})
	}
	frameworkName, err := c.prompter.Select(message, frameworkOptions)
	if err != nil {
		return nil, err
	}

	var framework *frameworks.Framework
	for _, f := range c.registry.Frameworks() {
		if f.Name == frameworkName {
			framework = f
			break
		}
	}
	if framework == nil {
		return nil, fmt.Errorf("unknown framework %q", frameworkName)
	}

	var variantOptions []Option
	for _, v := range framework.Variants {
		variantOptions = append(variantOptions, Option{
			Label: v.Label(),
			Value: v.Name,
			Hint:  v.Hint(c.pm),
		})
	}
	variantName, err := c.prompter.Select("Select a variant:", variantOptions)
	if err != nil {
		return nil, err
	}

	v, ok := c.registry.Lookup(variantName)
	if !ok {
		return nil, fmt.Errorf("unknown template %q", variantName)
	}
	return v, nil
}
