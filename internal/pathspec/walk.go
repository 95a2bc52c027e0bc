package pathspec

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FirstFile walks the subtree under root and returns the first file whose
// base name contains keyword (case-sensitive). An empty keyword accepts
// any file. Each directory's files are checked in name order before its
// subdirectories are descended, also in name order. Symlinked directories
// are skipped; symlinks to files count as files.
//
// An empty or missing root, an unreadable directory, or a tree without a
// matching file all yield ok == false; none of them is an error.
func FirstFile(root, keyword string) (path string, ok bool) {
	if strings.TrimSpace(root) == "" {
		return "", false
	}
	return firstFile(root, keyword)
}

func firstFile(dir, keyword string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
			continue
		}
		// Links to directories are neither files nor descended into.
		if entry.Type()&fs.ModeSymlink != 0 && IsDir(filepath.Join(dir, entry.Name())) {
			continue
		}
		if keyword == "" || strings.Contains(entry.Name(), keyword) {
			return filepath.Join(dir, entry.Name()), true
		}
	}
	for _, sub := range subdirs {
		if path, ok := firstFile(sub, keyword); ok {
			return path, true
		}
	}
	return "", false
}

// RequireFile is FirstFile for callers that need the file; a miss returns a
// *NotFoundError wrapping ErrFileNotFound.
func RequireFile(root, keyword string) (string, error) {
	if path, ok := FirstFile(root, keyword); ok {
		return path, nil
	}
	target := keyword
	if target == "" {
		target = "*"
	}
	return "", &NotFoundError{Kind: ErrFileNotFound, Path: filepath.Join(root, "**", target)}
}
