package ckcmd

import "strings"

// failureMarker is matched as a plain substring anywhere in stderr, so
// harmless text that happens to contain the word also counts as a failure.
const failureMarker = "Exception"

// Classify reports whether an invocation succeeded: exit code zero and no
// failure marker in stderr. ck-cmd can print an exception and still exit 0.
func Classify(exitCode int, stderr string) bool {
	return exitCode == 0 && !strings.Contains(stderr, failureMarker)
}
