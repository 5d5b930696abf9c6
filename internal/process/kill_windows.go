//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// PrepareGroup is a no-op on Windows; taskkill /T walks the process tree.
func PrepareGroup(_ *exec.Cmd) {}

// KillProcessGroup kills a process and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; error ignored as Process.Kill provides fallback
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
