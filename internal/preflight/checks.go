package preflight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"skymaya/internal/datatree"
	"skymaya/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable and
// writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := accessReadWrite(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCkcmd verifies that the converter binary resolves.
func CheckCkcmd(binary string) Result {
	status := deps.CheckBinaries([]deps.Requirement{deps.Ckcmd(binary)})[0]
	if !status.Available {
		return Result{Name: status.Name, Detail: status.Detail}
	}
	return Result{Name: status.Name, Passed: true, Detail: status.Resolved}
}

// CheckDataRoot verifies that path lies inside a recognizable data root and
// reports the inferred actor and DLC.
func CheckDataRoot(path string) Result {
	const name = "Data root"

	project, err := datatree.Detect(path)
	switch {
	case errors.Is(err, datatree.ErrProjectRootNotFound):
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no meshes/actors or textures/actors found)", path)}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}

	detail := project.Root
	if project.HasActor() {
		detail += fmt.Sprintf(" (actor %s", project.Actor)
	} else {
		detail += " (no actor"
	}
	if project.Vanilla() {
		detail += ", vanilla)"
	} else {
		detail += fmt.Sprintf(", dlc0%d)", project.DLC)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
