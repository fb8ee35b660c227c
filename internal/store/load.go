package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/pkg/logger"
	"github.com/fulmenhq/lineage/pkg/safeio"
)

// DocumentGlob matches the files written by the staging directory and by
// document exports.
const DocumentGlob = "**/*.doc.json"

// LoadDirectory reads every *.doc.json file below dir into a Memory store.
func LoadDirectory(dir string) (*Memory, error) {
	clean, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("source directory %q: %w", dir, err)
	}
	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %q is not a directory", clean)
	}

	matches, err := doublestar.Glob(os.DirFS(clean), DocumentGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", clean, err)
	}

	m := NewMemory()
	for _, rel := range matches {
		data, err := safeio.ReadFileContained(clean, filepath.Join(clean, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		d, err := doc.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", rel, err)
		}
		if err := m.Put(d); err != nil {
			return nil, fmt.Errorf("load %s: %w", rel, err)
		}
	}

	logger.Debug("Loaded documents from directory", logger.String("dir", clean), logger.Int("count", m.Len()))
	return m, nil
}

// ListDocumentFiles returns the *.doc.json files directly or indirectly
// below dir, relative to dir. A missing directory yields no files.
func ListDocumentFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return doublestar.Glob(os.DirFS(dir), DocumentGlob, doublestar.WithFilesOnly())
}
