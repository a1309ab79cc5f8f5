package command

import "runtime"

// DefaultShell returns the shell and flag used to run a command line on
// the current platform.
func DefaultShell() (shell, flag string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "/bin/sh", "-c"
}
