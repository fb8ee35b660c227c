package lineage

import (
	"github.com/fulmenhq/lineage/internal/doc"
)

// cascadePrimaryContacts rewrites the contact chain of every former ancestor
// whose primary contact was part of the moved subtree. Ancestors are given
// nearest first and returned outermost first. The ancestor's parent is left
// alone.
func cascadePrimaryContacts(ancestors []*doc.Document, moved map[string]bool, current func(id string) *doc.Document) ([]*doc.Document, error) {
	var out []*doc.Document
	for i := len(ancestors) - 1; i >= 0; i-- {
		place := ancestors[i]
		contact, err := place.Contact()
		if err != nil {
			return nil, err
		}
		head := contact.Head()
		if head == "" || !moved[head] {
			continue
		}

		primary := current(head)
		if primary == nil {
			continue
		}
		chain, err := doc.LineageOf(primary)
		if err != nil {
			return nil, err
		}

		updated := place.Clone()
		updated.SetLineage(doc.FieldContact, chain)
		out = append(out, updated)
	}
	return out, nil
}
