// Package process supervises converter subprocesses.
package process

import (
	"os/exec"
	"time"
)

// Supervise configures cmd so that cancelling its context kills the whole
// process group, and bounds how long Wait keeps draining its I/O afterwards.
// Must be called before cmd.Start.
func Supervise(cmd *exec.Cmd, waitDelay time.Duration) {
	PrepareGroup(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay
}
