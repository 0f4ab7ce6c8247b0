package scaffold

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/juanfont/create-starter-kit/templates"
	"github.com/juanfont/create-starter-kit/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// renameFiles maps bundled names that cannot be shipped as-is.
var renameFiles = map[string]string{
	"_gitignore": ".gitignore",
	"_eslintrc":  ".eslintrc.js",
	"_npmrc":     ".npmrc",
}

const packageJSON = "package.json"

// CopyTemplate copies the bundled tree of templateName into root and writes
// its package.json with the name replaced by packageName.
func CopyTemplate(src fs.FS, dst afero.Fs, templateName, root, packageName string) error {
	if err := dst.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	if _, err := fs.Stat(src, templateName); err != nil {
		return &types.TemplateError{
			Template: templateName,
			Source:   ".",
			Err:      fmt.Errorf("%w: %w", types.ErrMissingTemplateFile, err),
		}
	}

	err := fs.WalkDir(src, templateName, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return templateFileError(templateName, p, err)
		}

		rel := p[len(templateName):]
		if rel == "" {
			return nil
		}
		rel = rel[1:]
		if rel == packageJSON {
			return nil
		}

		target := filepath.Join(root, filepath.FromSlash(renamed(rel)))
		if d.IsDir() {
			return dst.MkdirAll(target, 0o755)
		}

		content, err := fs.ReadFile(src, p)
		if err != nil {
			return templateFileError(templateName, p, err)
		}
		log.Debug().Str("file", target).Msg("Copying template file")
		return afero.WriteFile(dst, target, content, 0o644)
	})
	if err != nil {
		var terr *types.TemplateError
		if errors.As(err, &terr) {
			return terr
		}
		return fmt.Errorf("copying template %s: %w", templateName, err)
	}

	return writePackageJSON(src, dst, templateName, root, packageName)
}

func templateFileError(templateName, p string, err error) error {
	source := strings.TrimPrefix(strings.TrimPrefix(p, templateName), "/")
	if source == "" {
		source = "."
	}
	return &types.TemplateError{
		Template: templateName,
		Source:   source,
		Err:      fmt.Errorf("%w: %w", types.ErrMissingTemplateFile, err),
	}
}

func renamed(rel string) string {
	dir, base := path.Split(rel)
	if to, ok := renameFiles[base]; ok {
		return dir + to
	}
	return rel
}

func writePackageJSON(src fs.FS, dst afero.Fs, templateName, root, packageName string) error {
	content, err := fs.ReadFile(src, path.Join(templateName, packageJSON))
	if err != nil {
		return &types.TemplateError{
			Template: templateName,
			Source:   packageJSON,
			Err:      fmt.Errorf("%w: %w", types.ErrMissingTemplateFile, err),
		}
	}

	content, err = SetPackageName(content, packageName)
	if err != nil {
		return &types.TemplateError{
			Template: templateName,
			Source:   packageJSON,
			Err:      fmt.Errorf("%w: %w", types.ErrMalformedJSONTemplate, err),
		}
	}

	return afero.WriteFile(dst, filepath.Join(root, packageJSON), content, 0o644)
}

// SetPackageName replaces the name field of a package.json document, keeping
// the order of the other keys, and returns it indented with a trailing newline.
func SetPackageName(content []byte, name string) ([]byte, error) {
	quoted, err := json.Marshal(name)
	if err != nil {
		return nil, err
	}

	content, err = jsonparser.Set(content, quoted, "name")
	if err != nil {
		return nil, err
	}

	content, err = templates.IndentJSON(content)
	if err != nil {
		return nil, err
	}
	return append(content, '\n'), nil
}
