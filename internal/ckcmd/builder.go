package ckcmd

import (
	"strings"
)

// Build renders job as a ck-cmd command line for binary.
//
//	<binary> <operation> "<arg>"... --name="<value>"... -name "<value>"...
//
// Every argument and flag value is normalized to forward slashes and quoted.
// The binary is quoted only when it contains whitespace.
func Build(binary string, job Job) string {
	parts := make([]string, 0, 2+len(job.Args)+len(job.Flags))
	parts = append(parts, quoteBinary(NormalizeSeparators(binary)), string(job.Operation))
	for _, arg := range job.Args {
		parts = append(parts, quote(NormalizeSeparators(arg)))
	}
	for _, flag := range job.Flags {
		value := quote(NormalizeSeparators(flag.Value))
		switch flag.Style {
		case FlagShort:
			parts = append(parts, "-"+flag.Name+" "+value)
		default:
			parts = append(parts, "--"+flag.Name+"="+value)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeSeparators converts backslashes to forward slashes. ck-cmd
// requires forward slashes on every host.
func NormalizeSeparators(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

func quote(value string) string {
	return `"` + value + `"`
}

func quoteBinary(binary string) string {
	if strings.ContainsAny(binary, " \t") {
		return quote(binary)
	}
	return binary
}
