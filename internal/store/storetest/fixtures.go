// Package storetest builds hierarchy fixtures in a store.Memory.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/internal/store"
)

// Tree describes a hierarchy: each key is a contact id, each value its children.
type Tree map[string]Tree

var typeByDepth = []string{"district_hospital", "health_center", "clinic", "person"}

// Chain returns the minified nested lineage for ids, as a decoded JSON value
// convenient for building fixture documents. No ids yields nil.
func Chain(ids ...string) any {
	if len(ids) == 0 {
		return nil
	}
	raw, _ := json.Marshal(doc.Lineage(ids))
	var out any
	_ = json.Unmarshal(raw, &out)
	return out
}

// Build creates a document from a field map, dropping nil values so that an
// empty Chain() leaves the field absent.
func Build(fields map[string]any) *doc.Document {
	clean := make(map[string]any, len(fields))
	for k, v := range fields {
		if v != nil {
			clean[k] = v
		}
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		panic(err)
	}
	return doc.MustParse(string(raw))
}

// MockHierarchy stores every node of tree. Places at depths 0-2 get a primary
// contact "<id>_contact" that is a child person of the place; depth 3 nodes
// are people.
func MockHierarchy(m *store.Memory, tree Tree) {
	mockLevel(m, tree, nil)
}

func mockLevel(m *store.Memory, tree Tree, ancestors []string) {
	if len(tree) == 0 {
		return
	}
	depth := len(ancestors)
	if depth >= len(typeByDepth) {
		panic(fmt.Sprintf("fixture hierarchy deeper than %d levels", len(typeByDepth)))
	}
	for _, id := range sortedKeys(tree) {
		placeChain := append([]string{id}, ancestors...)
		if depth == len(typeByDepth)-1 {
			mustPut(m, Build(map[string]any{
				"_id":    id,
				"type":   typeByDepth[depth],
				"parent": Chain(ancestors...),
			}))
		} else {
			contactID := id + "_contact"
			mustPut(m, Build(map[string]any{
				"_id":     id,
				"type":    typeByDepth[depth],
				"parent":  Chain(ancestors...),
				"contact": Chain(append([]string{contactID}, placeChain...)...),
			}))
			mustPut(m, Build(map[string]any{
				"_id":    contactID,
				"type":   "person",
				"parent": Chain(placeChain...),
			}))
		}
		mockLevel(m, tree[id], placeChain)
	}
}

// MockReport stores a data_record submitted by creatorID, embedding the
// creator's current lineage as the report contact.
func MockReport(m *store.Memory, id, creatorID string) {
	creator, err := m.Get(context.Background(), creatorID)
	if err != nil {
		panic(err)
	}
	chain, err := doc.LineageOf(creator)
	if err != nil {
		panic(err)
	}
	mustPut(m, Build(map[string]any{
		"_id":     id,
		"type":    doc.TypeReport,
		"form":    "foo",
		"contact": Chain(chain...),
	}))
}

// Upsert replaces the fields of an existing document, keeping its id.
func Upsert(m *store.Memory, id string, fields map[string]any) {
	next := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		next[k] = v
	}
	next["_id"] = id
	mustPut(m, Build(next))
}

// SetHierarchyRules writes the settings document holding contact_types.
func SetHierarchyRules(m *store.Memory, rules []map[string]any) {
	settings := map[string]any{}
	if rules != nil {
		settings["contact_types"] = rules
	}
	mustPut(m, Build(map[string]any{"_id": "settings", "settings": settings}))
}

func mustPut(m *store.Memory, d *doc.Document) {
	if err := m.Put(d); err != nil {
		panic(err)
	}
}

func sortedKeys(t Tree) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
