// Package ckcmd builds and runs ck-cmd invocations.
//
// Job constructors capture the exact positional and flag template each
// ck-cmd operation expects; Build renders a Job into a shell command string
// with forward-slash paths, each quoted individually. Runner executes the
// string through the host shell in the job's output directory, captures
// stdout and stderr in full, and classifies the outcome with Classify.
//
// Runs are blocking and have no timeout or retry. The context passed to Run
// is consulted before the process starts; a started process always runs to
// completion. Each invocation writes a log file chosen by the Runner's
// LogPolicy. The legacy fixed log path is serialized with a file lock so
// concurrent runners never interleave writes to it.
//
// Prefer this package over ad-hoc exec.Command usage so every call site
// shares the same quoting and failure classification.
package ckcmd
