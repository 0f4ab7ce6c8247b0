//go:build unix

package cli

import (
	"os/exec"
	"syscall"
)

// setProcAttr starts the dev server in its own process group so that
// bundlers spawned by the script are stopped with it.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcess terminates the dev server's process group.
func killProcess(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
}
