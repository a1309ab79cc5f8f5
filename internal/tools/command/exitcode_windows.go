//go:build windows

package command

import "os/exec"

func exitCode(exitErr *exec.ExitError) int {
	return exitErr.ExitCode()
}
