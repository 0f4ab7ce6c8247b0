package scaffold

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/juanfont/create-starter-kit/pkgmanager"
)

// SuccessMessage is shown after a multi-step variant finishes.
func SuccessMessage(targetDir string, pm pkgmanager.Identity) string {
	var b strings.Builder
	b.WriteString("✓ Project created successfully!\n\n")
	b.WriteString("Next steps:\n")
	fmt.Fprintf(&b, "  cd %s\n", quotePath(targetDir))
	fmt.Fprintf(&b, "  %s", strings.Join(pm.RunScriptCommand("dev"), " "))
	return b.String()
}

// DoneMessage is shown after a plain template has been copied. The cd line
// is omitted when the project was created in the current directory.
func DoneMessage(root, cwd string, pm pkgmanager.Identity) string {
	var b strings.Builder
	b.WriteString("Done. Now run:\n")

	if root != cwd {
		rel, err := filepath.Rel(cwd, root)
		if err != nil {
			rel = root
		}
		fmt.Fprintf(&b, "\n  cd %s", quotePath(rel))
	}

	fmt.Fprintf(&b, "\n  %s", strings.Join(pm.InstallCommand(), " "))
	fmt.Fprintf(&b, "\n  %s", strings.Join(pm.RunScriptCommand("dev"), " "))
	return b.String()
}

func quotePath(p string) string {
	if strings.Contains(p, " ") {
		return `"` + p + `"`
	}
	return p
}
