package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"skymaya/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the preflight checks for cfg. The data root check runs only
// when dataRoot is non-empty.
func RunAll(cfg *config.Config, dataRoot string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if db := strings.TrimSpace(cfg.Paths.HistoryDB); db != "" {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(db)))
	}
	if !cfg.Converter.UniqueLogs {
		results = append(results, CheckDirectoryAccess("Invocation log directory", filepath.Dir(cfg.Converter.LogFile)))
	}
	results = append(results, CheckCkcmd(cfg.CkcmdBinary()))
	if strings.TrimSpace(dataRoot) != "" {
		results = append(results, CheckDataRoot(dataRoot))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err folds failed results into one error, or nil when everything passed.
func Err(results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}
