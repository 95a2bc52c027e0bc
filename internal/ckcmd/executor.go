package ckcmd

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Executor abstracts process execution for testability. Run returns the exit
// code of a process that started; err is reserved for failures to start it.
type Executor interface {
	Run(ctx context.Context, command, dir string, stdout, stderr io.Writer) (exitCode int, err error)
}

type shellExecutor struct{}

// Run executes command through the host shell. The context is not bound to
// the process: a started conversion always runs to completion.
func (shellExecutor) Run(_ context.Context, command, dir string, stdout, stderr io.Writer) (int, error) {
	cmd := shellCommand(command)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
