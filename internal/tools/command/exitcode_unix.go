//go:build !windows

package command

import (
	"os/exec"
	"syscall"
)

// exitCode returns the child's exit status, or the negated signal number
// when a signal terminated it.
func exitCode(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code != -1 {
		return code
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return -1
}
