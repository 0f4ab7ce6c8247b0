// Package pkgmanager detects the package manager the user runs and rewrites
// scaffolding commands for it.
package pkgmanager

import (
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// Supported package managers.
const (
	NPM  = "npm"
	Yarn = "yarn"
	PNPM = "pnpm"
	Bun  = "bun"
)

// UserAgentEnv is the environment variable npm-compatible clients set when
// running a package binary.
const UserAgentEnv = "npm_config_user_agent"

// Identity is the package manager a run is targeting.
type Identity struct {
	Name    string
	Version string
}

// Default is used when no user agent is available.
var Default = Identity{Name: NPM}

func (id Identity) String() string {
	if id.Version == "" {
		return id.Name
	}
	return id.Name + "@" + id.Version
}

// IsYarnClassic reports whether the identity is yarn 1.x.
func (id Identity) IsYarnClassic() bool {
	if id.Name != Yarn {
		return false
	}
	v, err := semver.ParseTolerant(id.Version)
	if err != nil {
		return strings.HasPrefix(id.Version, "1.")
	}
	return v.Major == 1
}

// InstallCommand returns the command that installs a project's dependencies.
func (id Identity) InstallCommand() []string {
	if id.Name == Yarn {
		return []string{Yarn}
	}
	return []string{id.Name, "install"}
}

// RunScriptCommand returns the command that runs a package.json script.
func (id Identity) RunScriptCommand(script string) []string {
	if id.Name == Yarn {
		return []string{Yarn, script}
	}
	return []string{id.Name, "run", script}
}

func isKnown(name string) bool {
	switch name {
	case NPM, Yarn, PNPM, Bun:
		return true
	}
	return false
}

// FromUserAgent parses a user agent of the form "<name>/<version> ...".
// An empty or unrecognised agent yields Default.
func FromUserAgent(ua string) Identity {
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return Default
	}

	name, version, _ := strings.Cut(fields[0], "/")
	if !isKnown(name) {
		return Default
	}

	return Identity{Name: name, Version: version}
}

// Parse parses an explicit identity such as "pnpm", "yarn@1.22.19" or
// "bun/1.1.0".
func Parse(spec string) (Identity, error) {
	spec = strings.TrimSpace(spec)
	name, version, ok := strings.Cut(spec, "@")
	if !ok {
		name, version, _ = strings.Cut(spec, "/")
	}

	name = strings.ToLower(name)
	if !isKnown(name) {
		return Identity{}, fmt.Errorf("unsupported package manager %q (expected npm, yarn, pnpm or bun)", spec)
	}

	return Identity{Name: name, Version: version}, nil
}
