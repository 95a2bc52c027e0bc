package workflow_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"skymaya/internal/ckcmd"
	"skymaya/internal/config"
	"skymaya/internal/logging"
	"skymaya/internal/testsupport"
	"skymaya/internal/workflow"
)

// stubExecutor succeeds unless the command contains failOn, in which case it
// reports an Exception on stderr and exit code 1.
type stubExecutor struct {
	mu       sync.Mutex
	failOn   string
	commands []string
	dirs     []string
}

func (s *stubExecutor) Run(ctx context.Context, command, dir string, stdout, stderr io.Writer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, command)
	s.dirs = append(s.dirs, dir)
	if s.failOn != "" && strings.Contains(command, s.failOn) {
		_, _ = io.WriteString(stderr, "Exception: unable to load skeleton")
		return 1, nil
	}
	_, _ = io.WriteString(stdout, "done")
	return 0, nil
}

func (s *stubExecutor) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commands)
}

// newDataRoot builds a vanilla data root with two actors (bear, wolf) and a
// dlc01 group with one actor (fox).
func newDataRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "data")
	testsupport.MakeTree(t, root,
		"meshes/creatures.txt",
		"meshes/actors/bear/characterassets/skeleton.hkx",
		"meshes/actors/bear/characterassets/skeleton.nif",
		"meshes/actors/wolf/character assets/skeleton.hkx",
		"meshes/actors/wolf/character assets/skeleton.nif",
		"meshes/actors/wolf/animations/walk.hkx",
		"meshes/actors/wolf/behaviors/wolfbehavior.hkx",
		"meshes/actors/wolf/tags/",
		"meshes/actors/dlc01/fox/character assets/skeleton.hkx",
		"meshes/actors/dlc01/fox/character assets/skeleton.nif",
		"meshes/animationdata/wolfproject.txt",
		"meshes/animationdata/boundanims/anims_wolfproject.txt",
		"textures/actors/wolf/wolf.dds",
	)
	return root
}

func newSession(t *testing.T, cfg *config.Config, exec ckcmd.Executor, opts ...workflow.SessionOption) *workflow.Session {
	t.Helper()
	opts = append([]workflow.SessionOption{workflow.WithRunnerOptions(ckcmd.WithExecutor(exec))}, opts...)
	session, err := workflow.NewSession(cfg, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}
