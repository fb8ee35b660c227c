package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/fulmenhq/lineage/internal/doc"
)

// Memory is an in-process Backend. Its view queries reproduce the keys the
// contacts_by_depth and reports_by_freetext map functions emit, so it can
// stand in for the database when rehearsing a move against exported
// documents or in tests.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]*doc.Document
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*doc.Document)}
}

// Put inserts or replaces a document.
func (m *Memory) Put(d *doc.Document) error {
	id := d.ID()
	if id == "" {
		return fmt.Errorf("document has no %s", doc.FieldID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = d.Clone()
	return nil
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Get implements DocumentStore.
func (m *Memory) Get(_ context.Context, id string) (*doc.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d.Clone(), nil
}

// GetMany implements DocumentStore.
func (m *Memory) GetMany(_ context.Context, ids []string) ([]*doc.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*doc.Document, len(ids))
	for i, id := range ids {
		if d, ok := m.docs[id]; ok {
			out[i] = d.Clone()
		}
	}
	return out, nil
}

// DescendantIDs implements SubtreeQuery. Rows for one key come back ordered
// by document id, as a view query would return them.
func (m *Memory) DescendantIDs(_ context.Context, rootID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for _, id := range m.sortedIDs() {
		subject := m.docs[id]
		if inner, ok := subject.Tombstone(); ok {
			subject = inner
		}
		if !isIndexedContact(subject.Type()) {
			continue
		}
		chain, err := doc.LineageOf(subject)
		if err != nil {
			continue
		}
		if chain.Contains(rootID) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ReportsReferencing implements ReportSearch. Rows are grouped by key in the
// order the contact ids were given, then by document id.
func (m *Memory) ReportsReferencing(_ context.Context, contactIDs []string, skip, limit int) ([]*doc.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byToken := make(map[string][]string)
	for _, id := range m.sortedIDs() {
		if token, ok := reportToken(m.docs[id]); ok {
			byToken[token] = append(byToken[token], id)
		}
	}

	var rows []string
	for _, contactID := range contactIDs {
		rows = append(rows, byToken[ContactToken(contactID)]...)
	}

	if skip >= len(rows) {
		return nil, nil
	}
	rows = rows[skip:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]*doc.Document, 0, len(rows))
	for _, id := range rows {
		out = append(out, m.docs[id].Clone())
	}
	return out, nil
}

func (m *Memory) sortedIDs() []string {
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// reportToken mirrors the freetext map function, which only indexes
// data_record documents with a form and reads contact._id without walking
// the rest of the chain.
func reportToken(d *doc.Document) (string, bool) {
	if d.Type() != doc.TypeReport || d.String(doc.FieldForm) == "" {
		return "", false
	}
	raw, ok := d.Raw(doc.FieldContact)
	if !ok {
		return "", false
	}
	var head struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.ID == "" {
		return "", false
	}
	return ContactToken(head.ID), true
}
