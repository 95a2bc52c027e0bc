package ckcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Result captures everything observed about one ck-cmd invocation.
type Result struct {
	Operation Operation
	Command   string
	WorkDir   string
	ExitCode  int
	Stdout    string
	Stderr    string
	OK        bool
	LogPath   string
	StartedAt time.Time
	Duration  time.Duration
}

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithLogger routes run diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLogPolicy selects where invocation logs are written.
func WithLogPolicy(policy LogPolicy) Option {
	return func(r *Runner) {
		r.logs = policy.normalized()
	}
}

// WithObserver registers fn to receive every Result of a started process,
// successful or not.
func WithObserver(fn func(Result)) Option {
	return func(r *Runner) {
		if fn != nil {
			r.observers = append(r.observers, fn)
		}
	}
}

// Runner executes ck-cmd jobs through the host shell.
type Runner struct {
	binary    string
	exec      Executor
	logs      LogPolicy
	logger    *slog.Logger
	observers []func(Result)
}

// New constructs a runner for the ck-cmd binary.
func New(binary string, opts ...Option) (*Runner, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ck-cmd binary required")
	}
	runner := &Runner{
		binary: binary,
		exec:   shellExecutor{},
		logs:   LegacyLogPolicy(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Binary returns the configured ck-cmd binary.
func (r *Runner) Binary() string {
	return r.binary
}

// Command renders job against the runner's binary without executing it.
func (r *Runner) Command(job Job) string {
	return Build(r.binary, job)
}

// Execute renders job and runs it in job.WorkDir.
func (r *Runner) Execute(ctx context.Context, job Job) (Result, error) {
	return r.run(ctx, job.Operation, r.Command(job), job.WorkDir)
}

// Run executes an already rendered command line in workDir. Backslashes in
// both are converted to forward slashes first.
func (r *Runner) Run(ctx context.Context, command, workDir string) (Result, error) {
	return r.run(ctx, "", command, workDir)
}

func (r *Runner) run(ctx context.Context, op Operation, command, workDir string) (Result, error) {
	command = NormalizeSeparators(command)
	workDir = NormalizeSeparators(workDir)
	res := Result{Operation: op, Command: command, WorkDir: workDir}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	logFile, err := r.logs.open(op)
	if err != nil {
		return res, err
	}
	res.LogPath = logFile.path

	r.logger.Info("ck-cmd started",
		slog.String("operation", string(op)),
		slog.String("command", command),
		slog.String("workdir", workDir),
	)

	var stdout, stderr bytes.Buffer
	res.StartedAt = time.Now()
	exitCode, execErr := r.exec.Run(ctx, command, workDir, &stdout, &stderr)
	res.Duration = time.Since(res.StartedAt)
	res.ExitCode = exitCode
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	res.OK = execErr == nil && Classify(exitCode, res.Stderr)

	if recErr := logFile.record(res); recErr != nil {
		r.logger.Warn("ck-cmd log write failed", slog.String("path", res.LogPath), slog.String("error", recErr.Error()))
	}
	if closeErr := logFile.Close(); closeErr != nil {
		r.logger.Warn("ck-cmd log close failed", slog.String("path", res.LogPath), slog.String("error", closeErr.Error()))
	}

	if execErr != nil {
		return res, fmt.Errorf("start ck-cmd: %w", execErr)
	}
	for _, observe := range r.observers {
		observe(res)
	}

	attrs := []any{
		slog.String("operation", string(op)),
		slog.Int("exit_code", exitCode),
		slog.Duration("duration", res.Duration),
		slog.String("log", res.LogPath),
	}
	if !res.OK {
		r.logger.Error("ck-cmd failed", append(attrs, slog.String("stderr", strings.TrimSpace(res.Stderr)))...)
		return res, &ConversionError{
			Operation: op,
			Command:   command,
			ExitCode:  exitCode,
			Stderr:    res.Stderr,
		}
	}
	if out := strings.TrimSpace(res.Stdout); out != "" {
		r.logger.Debug("ck-cmd output", slog.String("stdout", out))
	}
	r.logger.Info("ck-cmd finished", attrs...)
	return res, nil
}
