package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Lineage is an ancestor chain, nearest ancestor first. On the wire it is a
// nested structure of minified links: {"_id": a, "parent": {"_id": b}}.
type Lineage []string

type link struct {
	ID     string `json:"_id"`
	Parent *link  `json:"parent,omitempty"`
}

// MarshalJSON emits the minified nested form. Only _id and parent are ever
// written. An empty lineage encodes as null.
func (l Lineage) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("null"), nil
	}
	var head *link
	for i := len(l) - 1; i >= 0; i-- {
		head = &link{ID: l[i], Parent: head}
	}
	return json.Marshal(head)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lineage) UnmarshalJSON(data []byte) error {
	parsed, err := ParseLineage(data)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLineage walks a nested chain. Absent, null, "" and {} decode to an
// empty lineage; fields other than _id and parent are ignored.
func ParseLineage(raw json.RawMessage) (Lineage, error) {
	var out Lineage
	seen := make(map[string]bool)
	current := raw
	for {
		trimmed := bytes.TrimSpace(current)
		if isEmptyLink(trimmed) {
			return out, nil
		}
		var node map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("%w: expected object, got %s", ErrMalformed, abbreviate(trimmed))
		}
		if len(node) == 0 {
			return out, nil
		}
		var id string
		rawID, ok := node[FieldID]
		if !ok || json.Unmarshal(rawID, &id) != nil || id == "" {
			return nil, fmt.Errorf("%w: link without _id", ErrMalformed)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %q appears twice", ErrMalformed, id)
		}
		seen[id] = true
		out = append(out, id)
		current = node[FieldParent]
	}
}

func isEmptyLink(b []byte) bool {
	return len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`))
}

func abbreviate(b []byte) string {
	if len(b) > 32 {
		return string(b[:32]) + "..."
	}
	return string(b)
}

// Index returns the position of id, or -1.
func (l Lineage) Index(id string) int {
	for i, v := range l {
		if v == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id appears in the chain.
func (l Lineage) Contains(id string) bool { return l.Index(id) >= 0 }

// Head returns the first id, or "".
func (l Lineage) Head() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// Equal compares two chains id by id.
func (l Lineage) Equal(other Lineage) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Splice keeps the chain up to and including id and replaces everything after
// it with replacement. found is false when id is not in the chain, in which
// case l is returned unchanged.
func (l Lineage) Splice(id string, replacement Lineage) (out Lineage, found bool) {
	i := l.Index(id)
	if i < 0 {
		return l, false
	}
	out = make(Lineage, 0, i+1+len(replacement))
	out = append(out, l[:i+1]...)
	return append(out, replacement...), true
}
