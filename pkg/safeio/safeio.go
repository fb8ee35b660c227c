package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrTraversal is returned for user paths containing ".." segments.
	ErrTraversal = errors.New("path traversal detected")
	// ErrOutsideBase is returned when a path resolves outside its base directory.
	ErrOutsideBase = errors.New("path is outside base directory")
)

// CleanUserPath cleans a user-provided path and rejects any ".." segment.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.ToSlash(filepath.Clean(p))
	for _, seg := range strings.Split(c, "/") {
		if seg == ".." {
			return "", ErrTraversal
		}
	}
	return c, nil
}

// ContainedPath resolves name against baseDir and returns the absolute path,
// failing when the result would escape baseDir.
func ContainedPath(baseDir, name string) (string, error) {
	baseAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", errors.New("failed to resolve base directory")
	}
	target := name
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseAbs, target)
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return "", errors.New("failed to resolve file path")
	}

	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return "", errors.New("failed to compute relative path")
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideBase
	}
	return targetAbs, nil
}

// ReadFileContained reads a file only if it is contained within baseDir.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	p, err := ContainedPath(baseDir, filePath)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- p has been verified to be contained within baseDir
	return os.ReadFile(p)
}

// WriteFileContained writes name inside baseDir, keeping the mode of an
// existing file.
func WriteFileContained(baseDir, name string, data []byte) error {
	p, err := ContainedPath(baseDir, name)
	if err != nil {
		return err
	}
	return WriteFilePreservePerms(p, data)
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}
