// Package logs reads ck-cmd invocation logs and the skymaya run log.
//
// Last reads the trailing lines of a file with bounded memory. Follow polls
// a file from an offset until new lines arrive, the wait elapses, or the
// context ends. ck-cmd rewrites its log file on every run, so Follow treats
// a file that shrank below the offset as truncated and restarts from zero.
package logs
