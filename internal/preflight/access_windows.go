//go:build windows

package preflight

import "os"

// Windows has no access(2); probing with a temp file is the reliable check.
func accessReadWrite(path string) error {
	f, err := os.CreateTemp(path, ".skymaya-access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
