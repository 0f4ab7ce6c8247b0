package pkgmanager

import "strings"

// rule rewrites one canonical command prefix.
type rule struct {
	prefix  string
	rewrite func(id Identity) string
}

// rules are evaluated in order and the first matching prefix wins, so
// "npm create -- " must come before "npm create ".
var rules = []rule{
	{prefix: "npm create -- ", rewrite: rewriteNpmCreate("npm create -- ")},
	{prefix: "npm create ", rewrite: rewriteNpmCreate("npm create ")},
	{prefix: "npm exec", rewrite: rewriteNpmExec},
	{prefix: "pnpx ", rewrite: rewriteDlx("pnpx ")},
	{prefix: "pnpm dlx ", rewrite: rewriteDlx("pnpm dlx ")},
	{prefix: "pnpm add ", rewrite: rewritePnpmAdd},
	{prefix: "pnpm create ", rewrite: rewritePnpmCreate},
}

// bun create uses its own template set; bun x runs the create-* package directly.
func rewriteNpmCreate(original string) func(Identity) string {
	return func(id Identity) string {
		switch id.Name {
		case Yarn:
			return "yarn create "
		case PNPM:
			return "pnpm create "
		case Bun:
			return "bun x create-"
		}
		return original
	}
}

func rewriteNpmExec(id Identity) string {
	switch {
	case id.Name == PNPM:
		return "pnpm dlx"
	case id.Name == Yarn && !id.IsYarnClassic():
		return "yarn dlx"
	case id.Name == Bun:
		return "bun x"
	}
	return "npm exec"
}

func rewriteDlx(original string) func(Identity) string {
	return func(id Identity) string {
		switch id.Name {
		case NPM:
			return "npx "
		case Yarn:
			if id.IsYarnClassic() {
				return "npx "
			}
			return "yarn dlx "
		case Bun:
			return "bunx "
		}
		return original
	}
}

func rewritePnpmAdd(id Identity) string {
	switch id.Name {
	case NPM:
		return "npm install "
	case Yarn:
		return "yarn add "
	case Bun:
		return "bun add "
	}
	return "pnpm add "
}

func rewritePnpmCreate(id Identity) string {
	switch id.Name {
	case NPM:
		return "npm create "
	case Yarn:
		return "yarn create "
	case Bun:
		return "bun create "
	}
	return "pnpm create "
}

// Normalize rewrites a command written against the canonical npm/pnpm syntax
// into the equivalent command for id. Only the leading prefix is rewritten.
// Commands without a known prefix are returned unchanged.
func Normalize(command string, id Identity) string {
	for _, r := range rules {
		if strings.HasPrefix(command, r.prefix) {
			command = r.rewrite(id) + strings.TrimPrefix(command, r.prefix)
			break
		}
	}

	// yarn 1.x rejects an explicit version tag on create.
	if id.IsYarnClassic() {
		command = strings.ReplaceAll(command, "@latest", "")
	}

	return command
}
