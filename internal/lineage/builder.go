package lineage

import (
	"github.com/fulmenhq/lineage/internal/doc"
)

// buildSubtree rewrites the moved contact and its descendants. The moved
// contact gets replacement as its parent chain; in every other chain the ids
// after the moved contact are replaced. The moved contact is always returned
// first; other members only when one of their chains mentions it.
func buildSubtree(moved *doc.Document, members []*doc.Document, replacement doc.Lineage) ([]*doc.Document, error) {
	movedID := moved.ID()

	root := moved.Clone()
	root.SetLineage(doc.FieldParent, replacement)
	if _, err := spliceField(root, doc.FieldContact, movedID, replacement); err != nil {
		return nil, err
	}

	out := []*doc.Document{root}
	for _, m := range members {
		if m.ID() == movedID {
			continue
		}
		updated := m.Clone()
		parentChanged, err := spliceField(updated, doc.FieldParent, movedID, replacement)
		if err != nil {
			return nil, err
		}
		contactChanged, err := spliceField(updated, doc.FieldContact, movedID, replacement)
		if err != nil {
			return nil, err
		}
		if parentChanged || contactChanged {
			out = append(out, updated)
		}
	}
	return out, nil
}

// spliceField rewrites the chain in field after movedID. It reports whether
// movedID was found; the field is rewritten, and so minified, only then.
func spliceField(d *doc.Document, field, movedID string, replacement doc.Lineage) (bool, error) {
	chain, err := d.Lineage(field)
	if err != nil {
		return false, err
	}
	next, found := chain.Splice(movedID, replacement)
	if !found {
		return false, nil
	}
	d.SetLineage(field, next)
	return true, nil
}
