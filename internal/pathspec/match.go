package pathspec

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// Match returns the children of dir that satisfy seg, in the order they
// should be tried. Literal and Wildcard segments yield at most one candidate.
// When final is true a literal may name a regular file; otherwise it must be
// a directory. A nil slice with a nil error means nothing matched.
func Match(dir string, seg Segment, final bool) ([]string, error) {
	switch seg.kind {
	case KindLiteral:
		path := filepath.Join(dir, seg.names[0])
		info, err := stat(path)
		if err != nil || info == nil {
			return nil, err
		}
		if !info.IsDir() && !final {
			return nil, nil
		}
		return []string{path}, nil
	case KindWildcard:
		entries, err := readDir(dir)
		if err != nil || len(entries) == 0 {
			return nil, err
		}
		// os.ReadDir sorts by file name; files and directories are mixed.
		return []string{filepath.Join(dir, entries[0].Name())}, nil
	case KindAlternatives:
		var out []string
		for _, name := range seg.names {
			path := filepath.Join(dir, name)
			info, err := stat(path)
			if err != nil {
				// An unreadable candidate fails the segment instead of
				// reading as absent; only a miss moves on to the next name.
				return nil, err
			}
			if info != nil && info.IsDir() {
				out = append(out, path)
			}
		}
		return out, nil
	default:
		return nil, nil
	}
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := stat(path)
	return err == nil && info != nil && info.IsDir()
}

// stat returns a nil FileInfo and nil error when path is absent.
func stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if isAbsent(err) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

func readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if isAbsent(err) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}

// isAbsent treats a missing path and a path whose parent is a regular file
// the same way.
func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
