package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// CopyDir recursively copies the tree at src into dst, verifying every file.
// Existing files in dst are overwritten; extra files in dst are left alone.
// It returns the number of files copied.
func CopyDir(src, dst string) (int, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("copy dir: %s is not a directory", src)
	}

	copied := 0
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := CopyFileVerified(path, target); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}
		copied++
		return nil
	})
	return copied, err
}

// CopyMatching copies the regular files directly inside srcDir whose names
// match pattern (filepath.Match syntax) into dstDir, in name order. It returns
// the destination paths.
func CopyMatching(srcDir, pattern, dstDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(srcDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", pattern, err)
	}
	sort.Strings(matches)

	var copied []string
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		target := filepath.Join(dstDir, filepath.Base(path))
		if err := CopyFileVerified(path, target); err != nil {
			return copied, fmt.Errorf("copy %s: %w", filepath.Base(path), err)
		}
		copied = append(copied, target)
	}
	return copied, nil
}
