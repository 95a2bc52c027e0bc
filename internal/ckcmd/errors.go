package ckcmd

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConversionFailed marks a ck-cmd invocation classified as failed.
var ErrConversionFailed = errors.New("ck-cmd conversion failed")

// ConversionError carries the captured stderr of a failed invocation.
type ConversionError struct {
	Operation Operation
	Command   string
	ExitCode  int
	Stderr    string
}

func (e *ConversionError) Error() string {
	op := string(e.Operation)
	if op == "" {
		op = "command"
	}
	msg := fmt.Sprintf("%s: %s exited with code %d", ErrConversionFailed, op, e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += "\n" + detail
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return ErrConversionFailed
}
