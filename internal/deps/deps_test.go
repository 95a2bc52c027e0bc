package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not executable on windows")
	}
	binDir := t.TempDir()
	present := filepath.Join(binDir, "ck-cmd")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	results := CheckBinaries([]Requirement{
		Ckcmd(present),
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if !results[0].Available || results[0].Resolved != present || results[0].Detail != "" {
		t.Fatalf("expected ck-cmd stub to resolve, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be reported, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected blank command to be unconfigured, got %#v", results[2])
	}
}

func TestCheckBinariesFromPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not executable on windows")
	}
	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, "ck-cmd"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	results := CheckBinaries([]Requirement{Ckcmd("ck-cmd")})
	if !results[0].Available {
		t.Fatalf("expected PATH lookup to succeed: %s", results[0].Detail)
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	statuses := []Status{
		{Name: "ck-cmd", Available: false},
		{Name: "extra", Available: false, Optional: true},
		{Name: "ok", Available: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "ck-cmd" {
		t.Fatalf("unexpected missing set: %#v", missing)
	}
}
