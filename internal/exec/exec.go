// Package exec wraps command execution behind a small interface so callers
// that shell out (the git resolver) can be tested with a fake.
package exec

import (
	"bytes"
	"os/exec"
)

// ExecutionResult holds the outcome of a command execution.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor defines an interface for running external commands in a working
// directory. This allows for mocking in tests.
type Executor interface {
	RunInDir(dir, command string, args ...string) (*ExecutionResult, error)
}

// CommandExecutor is a concrete implementation of the Executor interface
// that runs actual commands on the host system.
type CommandExecutor struct{}

// NewCommandExecutor creates a new CommandExecutor.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// RunInDir executes the given command with dir as its working directory and
// returns its result. An empty dir runs in the current working directory.
func (e *CommandExecutor) RunInDir(dir, command string, args ...string) (*ExecutionResult, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	// cmd.Run() returns an error for non-zero exit codes, but the exit code
	// is reported explicitly in the result. Only other kinds of errors
	// (e.g., command not found) are returned.
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, err
		}
	}

	return result, nil
}
