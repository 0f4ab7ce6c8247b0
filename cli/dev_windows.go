//go:build windows

package cli

import (
	"os/exec"
)

// setProcAttr is a no-op on Windows.
func setProcAttr(cmd *exec.Cmd) {}

// killProcess kills the dev server process on Windows
func killProcess(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
