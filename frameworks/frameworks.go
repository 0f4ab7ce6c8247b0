// Package frameworks loads and validates the catalogue of framework variants.
package frameworks

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/juanfont/create-starter-kit/steps"
	"github.com/juanfont/create-starter-kit/templates"
	"gopkg.in/yaml.v3"
)

//go:embed frameworks.yaml
var defaultCatalogue []byte

// Kind is how a variant creates its project.
type Kind int

const (
	// KindTemplate copies the bundled template tree.
	KindTemplate Kind = iota
	// KindCommand runs a single scaffolder command.
	KindCommand
	// KindSteps runs a step sequence, then copies extra files.
	KindSteps
)

func (k Kind) String() string {
	switch k {
	case KindTemplate:
		return "template"
	case KindCommand:
		return "command"
	case KindSteps:
		return "steps"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Variant is one selectable project template.
type Variant struct {
	Name    string                  `yaml:"name"`
	Display string                  `yaml:"display"`
	Steps   []steps.Step            `yaml:"steps"`
	Command string                  `yaml:"command"`
	Files   []templates.FileMapping `yaml:"files"`

	kind Kind
}

// Kind returns the variant kind determined at load time.
func (v *Variant) Kind() Kind {
	return v.kind
}

// Label returns the display name, falling back to the name.
func (v *Variant) Label() string {
	if v.Display != "" {
		return v.Display
	}
	return v.Name
}

// Hint describes what selecting the variant will run.
func (v *Variant) Hint(pm pkgmanager.Identity) string {
	switch v.kind {
	case KindCommand:
		return strings.TrimSuffix(pkgmanager.Normalize(v.Command, pm), " "+steps.Placeholder)
	case KindSteps:
		return steps.Describe(v.Steps)
	}
	return ""
}

// Framework groups related variants.
type Framework struct {
	Name     string     `yaml:"name"`
	Display  string     `yaml:"display"`
	Variants []*Variant `yaml:"variants"`
}

// Label returns the display name, falling back to the name.
func (f *Framework) Label() string {
	if f.Display != "" {
		return f.Display
	}
	return f.Name
}

// Registry is a validated catalogue of frameworks.
type Registry struct {
	frameworks []*Framework
	variants   map[string]*Variant
}

type catalogue struct {
	Frameworks []*Framework `yaml:"frameworks"`
}

// Load decodes and validates a YAML catalogue. All validation problems are
// reported together.
func Load(data []byte) (*Registry, error) {
	var c catalogue
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding frameworks: %w", err)
	}

	if err := validate(c.Frameworks); err != nil {
		return nil, err
	}

	r := &Registry{
		frameworks: c.Frameworks,
		variants:   make(map[string]*Variant),
	}
	for _, f := range c.Frameworks {
		for _, v := range f.Variants {
			v.kind = kindOf(v)
			r.variants[v.Name] = v
		}
	}
	return r, nil
}

// Default returns the embedded catalogue.
func Default() *Registry {
	r, err := Load(defaultCatalogue)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded frameworks.yaml: %v", err))
	}
	return r
}

func kindOf(v *Variant) Kind {
	switch {
	case len(v.Steps) > 0:
		return KindSteps
	case v.Command != "":
		return KindCommand
	}
	return KindTemplate
}

var errNoFrameworks = errors.New("no frameworks defined")

func validate(frameworks []*Framework) error {
	if len(frameworks) == 0 {
		return errNoFrameworks
	}

	var result *multierror.Error
	frameworkNames := make(map[string]bool)
	variantNames := make(map[string]bool)

	for i, f := range frameworks {
		if f == nil {
			result = multierror.Append(result, fmt.Errorf("framework %d: empty entry", i+1))
			continue
		}
		if f.Name == "" {
			result = multierror.Append(result, fmt.Errorf("framework %d: missing name", i+1))
		} else if frameworkNames[f.Name] {
			result = multierror.Append(result, fmt.Errorf("framework %s: duplicate name", f.Name))
		}
		frameworkNames[f.Name] = true

		if len(f.Variants) == 0 {
			result = multierror.Append(result, fmt.Errorf("framework %s: no variants", f.Name))
		}

		for j, v := range f.Variants {
			if v == nil {
				result = multierror.Append(result, fmt.Errorf("framework %s: variant %d: empty entry", f.Name, j+1))
				continue
			}
			if v.Name == "" {
				result = multierror.Append(result, fmt.Errorf("framework %s: variant %d: missing name", f.Name, j+1))
				continue
			}
			if variantNames[v.Name] {
				result = multierror.Append(result, fmt.Errorf("variant %s: duplicate name", v.Name))
			}
			variantNames[v.Name] = true

			if err := validateVariant(v); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	return result.ErrorOrNil()
}

func validateVariant(v *Variant) error {
	var result *multierror.Error

	if len(v.Steps) > 0 && v.Command != "" {
		result = multierror.Append(result, fmt.Errorf("variant %s: steps and command are mutually exclusive", v.Name))
	}
	if len(v.Files) > 0 && len(v.Steps) == 0 {
		result = multierror.Append(result, fmt.Errorf("variant %s: files require steps", v.Name))
	}

	for i, s := range v.Steps {
		if strings.TrimSpace(s.Command) == "" {
			result = multierror.Append(result, fmt.Errorf("variant %s: step %d: missing command", v.Name, i+1))
		}
		if !s.WorkingDir.Valid() {
			result = multierror.Append(result, fmt.Errorf("variant %s: step %d: invalid working_dir %q", v.Name, i+1, s.WorkingDir))
		}
	}

	destinations := make(map[string]bool)
	for i, f := range v.Files {
		if f.Source == "" || f.Destination == "" {
			result = multierror.Append(result, fmt.Errorf("variant %s: file %d: source and destination are required", v.Name, i+1))
			continue
		}
		if destinations[f.Destination] {
			result = multierror.Append(result, fmt.Errorf("variant %s: duplicate destination %s", v.Name, f.Destination))
		}
		destinations[f.Destination] = true
	}

	return result.ErrorOrNil()
}

// Frameworks returns the frameworks in catalogue order.
func (r *Registry) Frameworks() []*Framework {
	return r.frameworks
}

// Lookup finds a variant by name.
func (r *Registry) Lookup(name string) (*Variant, bool) {
	v, ok := r.variants[name]
	return v, ok
}

// Names returns every variant name in catalogue order.
func (r *Registry) Names() []string {
	var names []string
	for _, f := range r.frameworks {
		for _, v := range f.Variants {
			names = append(names, v.Name)
		}
	}
	return names
}
