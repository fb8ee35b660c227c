// Package staging writes computed documents to a review directory, one
// <id>.doc.json file per document.
package staging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/internal/store"
	"github.com/fulmenhq/lineage/pkg/logger"
	"github.com/fulmenhq/lineage/pkg/safeio"
)

// FileSuffix is appended to the document id to form the file name.
const FileSuffix = ".doc.json"

var (
	// ErrNotEmpty is returned by Prepare when the directory already holds
	// staged documents and force was not requested.
	ErrNotEmpty = errors.New("staging directory already contains documents")
	// ErrInvalidID is returned for ids that cannot be used as a file name.
	ErrInvalidID = errors.New("document id cannot be used as a file name")
)

// Directory is a staging sink rooted at a single directory.
type Directory struct {
	path string
}

// NewDirectory returns a sink writing into path. Nothing touches the disk
// until Prepare is called.
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// Path returns the directory the sink writes to.
func (d *Directory) Path() string { return d.path }

// Prepare creates the directory. Existing staged documents make it fail
// with ErrNotEmpty unless force is set, in which case they are removed.
func (d *Directory) Prepare(force bool) error {
	existing, err := store.ListDocumentFiles(d.path)
	if err != nil {
		return fmt.Errorf("scan staging directory: %w", err)
	}

	if len(existing) > 0 {
		if !force {
			return fmt.Errorf("%w: %s holds %d file(s); use --force to replace them", ErrNotEmpty, d.path, len(existing))
		}
		for _, rel := range existing {
			p, err := safeio.ContainedPath(d.path, filepath.FromSlash(rel))
			if err != nil {
				return err
			}
			if err := os.Remove(p); err != nil {
				return fmt.Errorf("remove stale document: %w", err)
			}
		}
		logger.Info("Removed previously staged documents", logger.String("dir", d.path), logger.Int("count", len(existing)))
	}

	if err := os.MkdirAll(d.path, 0o750); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	return nil
}

// WriteDocument writes the document as indented JSON to <id>.doc.json.
func (d *Directory) WriteDocument(document *doc.Document) error {
	id := document.ID()
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	data = append(data, '\n')

	if err := safeio.WriteFileContained(d.path, id+FileSuffix, data); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	logger.Debug("Staged document", logger.String("id", id))
	return nil
}
