//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// PrepareGroup starts cmd as the leader of a new process group, so that
// KillProcessGroup also reaches anything it spawns (pandoc filters, LaTeX).
func PrepareGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; error ignored as Process.Kill provides fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
