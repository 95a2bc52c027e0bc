package ckcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const legacyLogName = "test.log"

// LogPolicy decides where each invocation's log file goes.
//
// With FixedPath set, every invocation truncates and rewrites that single
// file while holding an exclusive lock on FixedPath+".lock". Otherwise each
// invocation writes its own uniquely named file under Dir.
type LogPolicy struct {
	FixedPath string
	Dir       string
}

// LegacyLogPolicy rewrites <tmp>/test.log on every invocation.
func LegacyLogPolicy() LogPolicy {
	return LogPolicy{FixedPath: filepath.Join(os.TempDir(), legacyLogName)}
}

// UniqueLogPolicy writes <dir>/<operation>-<uuid>.log per invocation.
func UniqueLogPolicy(dir string) LogPolicy {
	return LogPolicy{Dir: dir}
}

func (p LogPolicy) normalized() LogPolicy {
	p.FixedPath = strings.TrimSpace(p.FixedPath)
	p.Dir = strings.TrimSpace(p.Dir)
	if p.FixedPath == "" && p.Dir == "" {
		return LegacyLogPolicy()
	}
	return p
}

type invocationLog struct {
	path string
	file *os.File
	lock *flock.Flock
}

func (p LogPolicy) open(op Operation) (*invocationLog, error) {
	p = p.normalized()
	if p.FixedPath != "" {
		if err := os.MkdirAll(filepath.Dir(p.FixedPath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		lock := flock.New(p.FixedPath + ".lock")
		if err := lock.Lock(); err != nil {
			return nil, fmt.Errorf("lock log %s: %w", p.FixedPath, err)
		}
		file, err := os.Create(p.FixedPath)
		if err != nil {
			_ = lock.Unlock()
			return nil, fmt.Errorf("open log %s: %w", p.FixedPath, err)
		}
		return &invocationLog{path: p.FixedPath, file: file, lock: lock}, nil
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := string(op)
	if name == "" {
		name = "command"
	}
	path := filepath.Join(p.Dir, fmt.Sprintf("%s-%s.log", name, uuid.NewString()))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return &invocationLog{path: path, file: file}, nil
}

func (l *invocationLog) record(res Result) error {
	_, err := fmt.Fprintf(l.file,
		"command: %s\nworkdir: %s\nexit_code: %d\nok: %t\n\n--- stdout ---\n%s\n--- stderr ---\n%s\n",
		res.Command, res.WorkDir, res.ExitCode, res.OK, res.Stdout, res.Stderr)
	return err
}

func (l *invocationLog) Close() error {
	err := l.file.Close()
	if l.lock != nil {
		if unlockErr := l.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}
