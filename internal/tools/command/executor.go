// Package command provides shell command execution with streamed output capture.
package command

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/d-kuro/localops-mcp/internal/errors"
	"github.com/d-kuro/localops-mcp/internal/tools"
)

// Result is the payload of the execute_command tool. Output holds stdout
// and stderr lines in arrival order; failures are reported as trailing
// "Error: ..." lines.
type Result struct {
	Command string   `json:"command"`
	Output  []string `json:"output"`
}

// Options configures how commands are launched.
type Options struct {
	// Shell is the interpreter binary. Empty selects the platform default.
	Shell string
	// ShellFlag precedes the command line, e.g. "-c" or "/C".
	ShellFlag string
	// WorkingDir is the directory commands run in. Empty inherits the
	// server's working directory.
	WorkingDir string
}

// ShellExecutor runs command lines through the platform shell.
//
// There is no timeout and no cancellation: a command that never exits
// blocks Execute forever.
type ShellExecutor struct {
	shell      string
	shellFlag  string
	workingDir string
}

// NewShellExecutor creates a new shell executor.
func NewShellExecutor(opts Options) *ShellExecutor {
	shell, flag := opts.Shell, opts.ShellFlag
	if shell == "" {
		shell, flag = DefaultShell()
	}

	return &ShellExecutor{
		shell:      shell,
		shellFlag:  flag,
		workingDir: opts.WorkingDir,
	}
}

// streamLine is a line read from one of the child's output streams.
type streamLine struct {
	stream string
	text   string
}

// Execute runs command and captures both output streams line by line.
// It returns once both streams are drained and the process has exited.
// Errors never escape: they become "Error: ..." output lines.
func (e *ShellExecutor) Execute(logger tools.Logger, command string) *Result {
	result := &Result{Command: command, Output: []string{}}

	cmd := e.buildCommand(command)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return result.fail(logger, errors.ExecutionWithCause("failed to open stdout", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return result.fail(logger, errors.ExecutionWithCause("failed to open stderr", err))
	}

	logger.Info("Executing command", "command", command)

	if err := cmd.Start(); err != nil {
		return result.fail(logger, errors.ExecutionWithCause("failed to start command", err))
	}

	lines := make(chan streamLine)
	var wg sync.WaitGroup
	wg.Add(2)
	go pump("stdout", stdout, lines, &wg)
	go pump("stderr", stderr, lines, &wg)
	go func() {
		wg.Wait()
		close(lines)
	}()

	for line := range lines {
		logger.Info(line.text, "stream", line.stream)
		result.Output = append(result.Output, line.text)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitCode(exitErr)
			logger.Error("Command failed", "exit_code", code)
			result.Output = append(result.Output, fmt.Sprintf("Error: Command failed with exit code %d", code))
			return result
		}
		return result.fail(logger, err)
	}

	return result
}

func (e *ShellExecutor) buildCommand(command string) *exec.Cmd {
	var cmd *exec.Cmd
	if e.shellFlag == "" {
		cmd = exec.Command(e.shell, command)
	} else {
		cmd = exec.Command(e.shell, e.shellFlag, command)
	}

	if e.workingDir != "" {
		cmd.Dir = e.workingDir
	}
	return cmd
}

func (r *Result) fail(logger tools.Logger, err error) *Result {
	logger.Error("Error while executing the command", "error", err)
	r.Output = append(r.Output, "Error: "+err.Error())
	return r
}

// pump forwards every line of r to lines. A read error other than EOF is
// forwarded as an "Error: ..." line and ends the stream.
func pump(stream string, r io.Reader, lines chan<- streamLine, wg *sync.WaitGroup) {
	defer wg.Done()

	reader := bufio.NewReader(r)
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			lines <- streamLine{stream: stream, text: strings.TrimRight(text, "\r\n")}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				lines <- streamLine{stream: stream, text: "Error: " + err.Error()}
			}
			return
		}
	}
}
