// Package templates copies bundled template files into generated projects.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/juanfont/create-starter-kit/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

//go:embed all:bundled
var bundled embed.FS

// Bundled returns the embedded templates root. Each template is a directory
// named after its variant.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "bundled")
	if err != nil {
		panic(err)
	}
	return sub
}

// FileMapping copies one template source file to a path in the project.
type FileMapping struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	JSON        bool   `yaml:"json"`
}

// Materializer writes template files from a source tree into a project.
type Materializer struct {
	src fs.FS
	dst afero.Fs
}

// NewMaterializer creates a Materializer reading templates from src and
// writing through dst.
func NewMaterializer(src fs.FS, dst afero.Fs) *Materializer {
	return &Materializer{src: src, dst: dst}
}

// Materialize copies files of templateName into targetRoot in list order.
// It stops at the first failure; files already written are left in place.
func (m *Materializer) Materialize(templateName string, files []FileMapping, targetRoot string) error {
	for _, file := range files {
		if err := m.materialize(templateName, file, targetRoot); err != nil {
			return err
		}
	}
	return nil
}

func (m *Materializer) materialize(templateName string, file FileMapping, targetRoot string) error {
	content, err := fs.ReadFile(m.src, path.Join(templateName, file.Source))
	if err != nil {
		return &types.TemplateError{
			Template: templateName,
			Source:   file.Source,
			Err:      fmt.Errorf("%w: %w", types.ErrMissingTemplateFile, err),
		}
	}

	if file.JSON {
		content, err = IndentJSON(content)
		if err != nil {
			return &types.TemplateError{
				Template: templateName,
				Source:   file.Source,
				Err:      fmt.Errorf("%w: %w", types.ErrMalformedJSONTemplate, err),
			}
		}
	}

	target := filepath.Join(targetRoot, filepath.FromSlash(file.Destination))
	if err := m.dst.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", file.Destination, err)
	}
	if err := afero.WriteFile(m.dst, target, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", file.Destination, err)
	}

	log.Debug().
		Str("template", templateName).
		Str("source", file.Source).
		Str("destination", target).
		Msg("Template file written")

	return nil
}
