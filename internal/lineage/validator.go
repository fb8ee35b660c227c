package lineage

import (
	"context"

	"github.com/fulmenhq/lineage/internal/doc"
)

// plan is a request that passed validation.
type plan struct {
	contacts []*doc.Document
	// parent is nil when moving to the root.
	parent *doc.Document
	rules  *RuleSet
}

// parentType returns the destination type, "" for the root.
func (p *plan) parentType() string {
	if p.parent == nil {
		return ""
	}
	return ContactType(p.parent)
}

// validate runs every check that needs no more than the requested documents
// and the destination.
func validate(ctx context.Context, ws *workspace, req *MoveRequest, rules *RuleSet) (*plan, error) {
	if req == nil {
		return nil, newError(InvalidArguments, "required list of contact_id to be moved")
	}
	ids := uniqueIDs(req.ContactIDs)
	if len(ids) == 0 {
		return nil, newError(InvalidArguments, "required list of contact_id to be moved")
	}
	if req.ParentID == "" {
		return nil, newError(InvalidArguments, "required parameter parent")
	}

	contacts, err := ws.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, c := range contacts {
		if c == nil {
			return nil, newError(NotFound, "contact with id %q could not be found", ids[i])
		}
	}

	for _, c := range contacts {
		if t := ContactType(c); !rules.Known(t) {
			return nil, newError(UnknownType, "contact %q has unknown type %q", c.ID(), t)
		}
	}

	if err := checkSameLineage(contacts); err != nil {
		return nil, err
	}

	p := &plan{contacts: contacts, rules: rules}
	if req.ParentID != RootID {
		found, err := ws.load(ctx, []string{req.ParentID})
		if err != nil {
			return nil, err
		}
		if found[0] == nil {
			return nil, newError(NotFound, "parent with id %q could not be found", req.ParentID)
		}
		p.parent = found[0]
		if t := ContactType(p.parent); !rules.Known(t) {
			return nil, newError(UnknownType, "parent %q has unknown type %q", req.ParentID, t)
		}
	}

	for _, c := range contacts {
		if err := checkParentType(c, p); err != nil {
			return nil, err
		}
		if err := checkCircular(c, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func checkSameLineage(contacts []*doc.Document) error {
	parents := make([]doc.Lineage, len(contacts))
	for i, c := range contacts {
		l, err := c.Parent()
		if err != nil {
			return err
		}
		parents[i] = l
	}
	for i := range contacts {
		for j := range contacts {
			if i != j && parents[i].Contains(contacts[j].ID()) {
				return newError(SameLineage, "cannot move contacts %q and %q in the same request: they are in the same lineage", contacts[j].ID(), contacts[i].ID())
			}
		}
	}
	return nil
}

func checkParentType(c *doc.Document, p *plan) error {
	childType := ContactType(c)
	parentType := p.parentType()
	if p.rules.Allows(childType, parentType) {
		return nil
	}
	if parentType == "" {
		parentType = RootID
	}
	return newError(UnconfiguredParentType, "cannot move contact %q of type %q to have parent of type %q", c.ID(), childType, parentType)
}

func checkCircular(c *doc.Document, p *plan) error {
	if p.parent == nil {
		return nil
	}
	if p.parent.ID() == c.ID() {
		return newError(CircularHierarchy, "circular hierarchy: cannot set %q as its own parent", c.ID())
	}
	destination, err := p.parent.Parent()
	if err != nil {
		return err
	}
	if destination.Contains(c.ID()) {
		return newError(CircularHierarchy, "circular hierarchy: %q is a descendant of %q", p.parent.ID(), c.ID())
	}
	return nil
}

// checkPrimaryContacts rejects a move that takes a place's primary contact
// out from under that place. The places that leave the mover's lineage are
// its former ancestors that are not ancestors of the destination.
func checkPrimaryContacts(st *subtree, destination doc.Lineage) error {
	for _, place := range st.ancestors {
		if destination.Contains(place.ID()) {
			continue
		}
		contact, err := place.Contact()
		if err != nil {
			return err
		}
		if head := contact.Head(); head != "" && st.ids[head] {
			return newError(PrimaryContactMustMoveWithPlace,
				"cannot move %q: %q is the primary contact of %q and can only move with it", st.root.ID(), head, place.ID())
		}
	}
	return nil
}
