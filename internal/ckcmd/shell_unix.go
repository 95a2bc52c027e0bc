//go:build !windows

package ckcmd

import "os/exec"

func shellCommand(command string) *exec.Cmd {
	return exec.Command("/bin/sh", "-c", command) //nolint:gosec
}
