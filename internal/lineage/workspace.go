package lineage

import (
	"context"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/internal/store"
)

// workspace is the request's view of the database: documents already
// produced by an earlier step shadow the stored copies, and everything read
// is cached so later steps see one consistent snapshot.
type workspace struct {
	store   store.DocumentStore
	opts    Options
	base    map[string]*doc.Document
	changes *changeSet
}

func newWorkspace(s store.DocumentStore, opts Options) *workspace {
	return &workspace{
		store:   s,
		opts:    opts,
		base:    make(map[string]*doc.Document),
		changes: newChangeSet(),
	}
}

// current returns a private copy of the newest known version of id, or nil
// if id has not been loaded.
func (w *workspace) current(id string) *doc.Document {
	if d, ok := w.changes.get(id); ok {
		return d.Clone()
	}
	if d, ok := w.base[id]; ok {
		return d.Clone()
	}
	return nil
}

// load returns the newest version of every id, reading unknown ids from the
// store. Missing documents are nil.
func (w *workspace) load(ctx context.Context, ids []string) ([]*doc.Document, error) {
	out := make([]*doc.Document, len(ids))
	var missing []string
	var slots []int
	for i, id := range ids {
		if d := w.current(id); d != nil {
			out[i] = d
			continue
		}
		missing = append(missing, id)
		slots = append(slots, i)
	}

	fetched, err := fetchDocuments(ctx, w.store, missing, w.opts.BatchSize, w.opts.Concurrency)
	if err != nil {
		return nil, err
	}
	for j, d := range fetched {
		if d == nil {
			continue
		}
		w.base[missing[j]] = d
		out[slots[j]] = d.Clone()
	}
	return out, nil
}

// stage records produced documents.
func (w *workspace) stage(docs ...*doc.Document) {
	w.changes.add(docs...)
}
