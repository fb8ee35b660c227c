// Package store defines the read capabilities the lineage engine needs from
// the hierarchy database and provides an in-process implementation.
package store

import (
	"context"
	"errors"
	"slices"

	"github.com/fulmenhq/lineage/internal/doc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// DocumentStore reads documents by id.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*doc.Document, error)
	// GetMany returns one entry per id, in order. Missing ids yield nil.
	GetMany(ctx context.Context, ids []string) ([]*doc.Document, error)
}

// SubtreeQuery lists every contact whose parent chain includes rootID,
// rootID itself included. Backed by the contacts_by_depth index.
type SubtreeQuery interface {
	DescendantIDs(ctx context.Context, rootID string) ([]string, error)
}

// ReportSearch finds reports submitted by any of the given contacts through
// the freetext index. Results are paginated and best effort. A page holds one
// entry per index row, nil where the row's document no longer exists, so a
// page shorter than limit is the last one.
type ReportSearch interface {
	ReportsReferencing(ctx context.Context, contactIDs []string, skip, limit int) ([]*doc.Document, error)
}

// Backend bundles every capability.
type Backend interface {
	DocumentStore
	SubtreeQuery
	ReportSearch
}

// Design documents and views queried by the engine.
const (
	DepthDesignDoc    = "medic"
	DepthView         = "contacts_by_depth"
	FreetextDesignDoc = "medic-client"
	FreetextView      = "reports_by_freetext"
)

// IndexedContactTypes are the types the depth index emits rows for.
var IndexedContactTypes = []string{"person", "clinic", "health_center", "district_hospital", "contact"}

// ContactToken returns the freetext token that references a contact.
func ContactToken(contactID string) string {
	// Casers carry state, so each call gets its own.
	return "contact:" + cases.Lower(language.Und).String(contactID)
}

func isIndexedContact(t string) bool {
	return slices.Contains(IndexedContactTypes, t)
}
