package ckcmd_test

import (
	"testing"

	"skymaya/internal/ckcmd"
)

func TestBuildTemplates(t *testing.T) {
	tests := []struct {
		name string
		job  ckcmd.Job
		want string
	}{
		{
			name: "exportanimation",
			job:  ckcmd.ExportAnimation(`C:\data\skeleton.hkx`, `C:\data\animations`, `C:\out`),
			want: `ck-cmd exportanimation "C:/data/skeleton.hkx" "C:/data/animations" "C:/out"`,
		},
		{
			name: "importanimation",
			job:  ckcmd.ImportAnimation("/s/skeleton.hkx", "/in/walk.fbx", "/out", "/cache/wolf.txt", "/beh"),
			want: `ck-cmd importanimation "/s/skeleton.hkx" "/in/walk.fbx" --c="/cache/wolf.txt" --b="/beh" --e="/out"`,
		},
		{
			name: "importanimation optional empty",
			job:  ckcmd.ImportAnimation("/s/skeleton.hkx", "/in", "/out", "", ""),
			want: `ck-cmd importanimation "/s/skeleton.hkx" "/in" --c="" --b="" --e="/out"`,
		},
		{
			name: "exportrig",
			job: ckcmd.ExportRig(ckcmd.RigExport{
				SkeletonHkx:  "/c/skeleton.hkx",
				SkeletonNif:  "/c/skeleton.nif",
				OutputDir:    "/out",
				AnimationHkx: "/c/animations",
				CacheTxt:     "/cache/wolf.txt",
				BehaviorDir:  "/c/behaviors",
			}),
			want: `ck-cmd exportrig "/c/skeleton.hkx" "/c/skeleton.nif" --e="/out" --a="/c/animations" --n="" --b="/c/behaviors" --c="/cache/wolf.txt"`,
		},
		{
			name: "importrig",
			job:  ckcmd.ImportRig(`D:\rig\skeleton.fbx`, `D:\out`),
			want: `ck-cmd importrig "D:/rig/skeleton.fbx" -a "" -e "D:/out"`,
		},
		{
			name: "importskin",
			job:  ckcmd.ImportSkin("/in/body.fbx", "/out"),
			want: `ck-cmd importskin "/in/body.fbx" "/out"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ckcmd.Build("ck-cmd", tc.job); got != tc.want {
				t.Fatalf("Build mismatch\n got: %s\nwant: %s", got, tc.want)
			}
		})
	}
}

func TestBuildQuotesBinaryWithSpaces(t *testing.T) {
	got := ckcmd.Build(`C:\Program Files\ck-cmd\ck-cmd.exe`, ckcmd.ImportSkin("/a.fbx", "/o"))
	want := `"C:/Program Files/ck-cmd/ck-cmd.exe" importskin "/a.fbx" "/o"`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestJobWorkDirIsOutputDir(t *testing.T) {
	jobs := []ckcmd.Job{
		ckcmd.ExportAnimation("s", "a", "/out"),
		ckcmd.ImportAnimation("s", "f", "/out", "", ""),
		ckcmd.ExportRig(ckcmd.RigExport{SkeletonHkx: "h", SkeletonNif: "n", OutputDir: "/out"}),
		ckcmd.ImportRig("f", "/out"),
		ckcmd.ImportSkin("f", "/out"),
	}
	for _, job := range jobs {
		if job.WorkDir != "/out" {
			t.Fatalf("%s: expected workdir /out, got %q", job.Operation, job.WorkDir)
		}
	}
	if len(jobs) != len(ckcmd.Operations()) {
		t.Fatalf("expected a job per operation")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		stderr   string
		want     bool
	}{
		{name: "clean", exitCode: 0, stderr: "", want: true},
		{name: "warnings only", exitCode: 0, stderr: "warning: missing bone weight", want: true},
		{name: "nonzero exit", exitCode: 1, stderr: "", want: false},
		{name: "marker with zero exit", exitCode: 0, stderr: "Unhandled Exception: boom", want: false},
		{name: "marker inside warning", exitCode: 0, stderr: "Warning: deprecated Exception handling in v2", want: false},
		{name: "lowercase marker", exitCode: 0, stderr: "exception", want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ckcmd.Classify(tc.exitCode, tc.stderr); got != tc.want {
				t.Fatalf("Classify(%d, %q) = %v, want %v", tc.exitCode, tc.stderr, got, tc.want)
			}
		})
	}
}
