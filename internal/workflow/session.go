package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"skymaya/internal/assets"
	"skymaya/internal/ckcmd"
	"skymaya/internal/config"
	"skymaya/internal/datatree"
	"skymaya/internal/history"
	"skymaya/internal/logging"
	"skymaya/internal/preflight"
)

// ErrBatchInProgress reports that another batch holds the batch lock.
var ErrBatchInProgress = errors.New("another batch is already running")

// Stats counts the ck-cmd processes a session started.
type Stats struct {
	Invocations int
	Failures    int
}

// SessionOption configures optional Session behavior.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	runnerOpts []ckcmd.Option
	history    *history.Store
	startPath  string
	runID      string
}

// WithRunnerOptions appends options to the session's ck-cmd runner, e.g. a
// stub executor in tests.
func WithRunnerOptions(opts ...ckcmd.Option) SessionOption {
	return func(o *sessionOptions) {
		o.runnerOpts = append(o.runnerOpts, opts...)
	}
}

// WithHistory records every invocation in store.
func WithHistory(store *history.Store) SessionOption {
	return func(o *sessionOptions) {
		o.history = store
	}
}

// WithStartPath sets the directory project detection starts from.
func WithStartPath(path string) SessionOption {
	return func(o *sessionOptions) {
		o.startPath = path
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) SessionOption {
	return func(o *sessionOptions) {
		o.runID = id
	}
}

// Session holds the state of one CLI invocation.
type Session struct {
	cfg       *config.Config
	logger    *slog.Logger
	runner    *ckcmd.Runner
	history   *history.Store
	runID     string
	startPath string

	rootOnce sync.Once
	root     string
	rootErr  error

	projectOnce sync.Once
	project     datatree.Context
	projectErr  error

	mu    sync.Mutex
	stats Stats
	lock  *flock.Flock
}

// NewSession constructs a session for cfg. The runner's invocation logs go
// to converter.log_file, or to one file per invocation under paths.log_dir
// when converter.unique_logs is set.
func NewSession(cfg *config.Config, logger *slog.Logger, opts ...SessionOption) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	options := &sessionOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := strings.TrimSpace(options.runID)
	if runID == "" {
		runID = uuid.NewString()
	}

	s := &Session{
		cfg:       cfg,
		history:   options.history,
		runID:     runID,
		startPath: strings.TrimSpace(options.startPath),
	}
	s.logger = logging.NewComponentLogger(logger, "workflow").With(logging.String(logging.FieldRunID, runID))

	policy := ckcmd.LogPolicy{FixedPath: cfg.Converter.LogFile}
	if cfg.Converter.UniqueLogs {
		policy = ckcmd.UniqueLogPolicy(cfg.Paths.LogDir)
	}
	runnerOpts := []ckcmd.Option{
		ckcmd.WithLogger(logging.NewComponentLogger(logger, "ckcmd").With(logging.String(logging.FieldRunID, runID))),
		ckcmd.WithLogPolicy(policy),
		ckcmd.WithObserver(s.observe),
	}
	runner, err := ckcmd.New(cfg.CkcmdBinary(), append(runnerOpts, options.runnerOpts...)...)
	if err != nil {
		return nil, err
	}
	s.runner = runner
	return s, nil
}

// RunID identifies this session in logs and history.
func (s *Session) RunID() string {
	return s.runID
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Logger returns the session's workflow logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Runner returns the session's ck-cmd runner.
func (s *Session) Runner() *ckcmd.Runner {
	return s.runner
}

// Stats returns the invocation counters so far.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// StartPath returns the directory project detection starts from: the
// explicit start path, then paths.default_data_dir, then the working
// directory.
func (s *Session) StartPath() string {
	if s.startPath != "" {
		return s.startPath
	}
	if dir := strings.TrimSpace(s.cfg.Paths.DefaultDataDir); dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Root finds the data root containing StartPath once and caches it. Unlike
// Project it infers neither actor nor DLC, so batches over every group work
// from any start path.
func (s *Session) Root() (string, error) {
	s.rootOnce.Do(func() {
		s.root, s.rootErr = datatree.FindProjectRoot(s.StartPath())
	})
	return s.root, s.rootErr
}

// Project detects the data root, actor, and DLC for StartPath once and
// caches the outcome for the life of the session.
func (s *Session) Project() (datatree.Context, error) {
	s.projectOnce.Do(func() {
		s.project, s.projectErr = datatree.Detect(s.StartPath())
		if s.projectErr == nil {
			s.logger.Debug("project detected",
				logging.String(logging.FieldDataRoot, s.project.Root),
				logging.String(logging.FieldActor, s.project.Actor),
				logging.Int(logging.FieldDLC, s.project.DLC),
			)
		}
	})
	return s.project, s.projectErr
}

// Locator returns an asset locator scoped to the detected project.
func (s *Session) Locator() (assets.Locator, error) {
	project, err := s.Project()
	if err != nil {
		return assets.Locator{}, err
	}
	return assets.FromContext(project), nil
}

// Execute runs job through the session runner and records the outcome.
// Actor and DLC attached to ctx with logging.WithActor and logging.WithDLC
// are stored with the history record.
func (s *Session) Execute(ctx context.Context, job ckcmd.Job) (ckcmd.Result, error) {
	ctx = logging.WithRunID(ctx, s.runID)
	ctx = logging.WithOperation(ctx, string(job.Operation))
	logger := logging.WithContext(ctx, s.logger)

	res, err := s.runner.Execute(ctx, job)
	if !res.StartedAt.IsZero() {
		s.record(ctx, logger, res)
	}
	if err != nil && !errors.Is(err, ckcmd.ErrConversionFailed) {
		logger.Error("ck-cmd could not run", logging.Error(err))
	}
	return res, err
}

// Preflight checks the log and history directories and the ck-cmd binary,
// plus dataRoot when non-empty. It returns an error naming every failed
// check.
func (s *Session) Preflight(dataRoot string) error {
	results := preflight.RunAll(s.cfg, dataRoot)
	for _, r := range results {
		if r.Passed {
			s.logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
			)
			continue
		}
		s.logger.Error("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
		)
	}
	return preflight.Err(results)
}

// Lock takes the batch lock without waiting. It returns ErrBatchInProgress
// when another process holds it.
func (s *Session) Lock() error {
	path := s.cfg.BatchLockPath()
	if err := os.MkdirAll(s.cfg.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrBatchInProgress, path)
	}
	s.mu.Lock()
	s.lock = lock
	s.mu.Unlock()
	return nil
}

// Close releases the batch lock and prunes expired invocation logs.
func (s *Session) Close() error {
	s.mu.Lock()
	lock := s.lock
	s.lock = nil
	s.mu.Unlock()

	if s.cfg.Converter.UniqueLogs {
		logging.PruneOldLogs(s.logger, s.cfg.Logging.RetentionDays, logging.RetentionTarget{
			Dir:     s.cfg.Paths.LogDir,
			Pattern: "*.log",
			Exclude: []string{logging.RunLogName},
		})
	}
	if lock != nil {
		return lock.Unlock()
	}
	return nil
}

func (s *Session) observe(res ckcmd.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Invocations++
	if !res.OK {
		s.stats.Failures++
	}
}

func (s *Session) record(ctx context.Context, logger *slog.Logger, res ckcmd.Result) {
	if s.history == nil {
		return
	}
	rec := &history.Record{
		RunID:      s.runID,
		Operation:  string(res.Operation),
		Command:    res.Command,
		WorkDir:    res.WorkDir,
		ExitCode:   res.ExitCode,
		OK:         res.OK,
		Stderr:     res.Stderr,
		LogPath:    res.LogPath,
		StartedAt:  res.StartedAt,
		FinishedAt: res.StartedAt.Add(res.Duration),
	}
	if actor, ok := logging.ActorFromContext(ctx); ok {
		rec.Actor = actor
	}
	if dlc, ok := logging.DLCFromContext(ctx); ok {
		rec.DLC = dlc
	}
	// Best effort: a history failure never fails the conversion.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.history.Add(writeCtx, rec); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}
