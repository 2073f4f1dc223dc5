package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SanitizeOutputPath validates and cleans an output file path.
// It resolves ".." components via filepath.Clean + filepath.Abs and
// rejects paths that resolve to symlinks. New files in existing
// directories are accepted. Returns the cleaned absolute path.
func SanitizeOutputPath(path string) (string, error) {
	cleaned := filepath.Clean(path)

	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
		}
	case os.IsNotExist(err):
		// New file, nothing to check.
	default:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	}

	return abs, nil
}

// CheckSegment verifies name can be used as a single file or directory
// name below a store root: non-empty, no separators, not "." or "..",
// and not hidden.
func CheckSegment(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("pathutil: empty name")
	case name == "." || name == "..":
		return fmt.Errorf("pathutil: %q is not a valid name", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("pathutil: name %q contains a path separator", name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("pathutil: name %q must not start with a dot", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("pathutil: name %q contains a NUL byte", name)
	}
	return nil
}
