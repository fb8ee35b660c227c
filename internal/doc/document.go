// Package doc models the contact, place and report documents stored in the
// hierarchy database. Documents are kept as raw JSON fields so that anything
// the tool does not understand is written back exactly as it was read.
package doc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Well-known document fields.
const (
	FieldID      = "_id"
	FieldRev     = "_rev"
	FieldType    = "type"
	FieldParent  = "parent"
	FieldContact = "contact"
	FieldForm    = "form"

	TypeReport    = "data_record"
	TypeTombstone = "tombstone"
)

// ErrMalformed is returned when a lineage field has a shape that is neither a
// minified chain nor a legacy embedded ancestor.
var ErrMalformed = errors.New("malformed lineage")

// Document is a single database document.
type Document struct {
	fields map[string]json.RawMessage
}

// Parse decodes a JSON object into a Document.
func Parse(data []byte) (*Document, error) {
	d := &Document{}
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return d, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(data string) *Document {
	d, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return d
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("document is not a JSON object: %w", err)
	}
	d.fields = fields
	return nil
}

// MarshalJSON implements json.Marshaler. Keys are emitted in sorted order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil || d.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.fields)
}

// ID returns the document id, or "" when the document has none.
func (d *Document) ID() string { return d.String(FieldID) }

// Type returns the document type.
func (d *Document) Type() string { return d.String(FieldType) }

// String returns a string field, or "" when the field is absent or not a string.
func (d *Document) String(key string) string {
	raw, ok := d.fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Has reports whether the field is present.
func (d *Document) Has(key string) bool {
	_, ok := d.fields[key]
	return ok
}

// Raw returns the raw JSON of a field.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	raw, ok := d.fields[key]
	return raw, ok
}

// Set stores a field from any JSON-encodable value.
func (d *Document) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", key, err)
	}
	if d.fields == nil {
		d.fields = make(map[string]json.RawMessage)
	}
	d.fields[key] = raw
	return nil
}

// Delete removes a field.
func (d *Document) Delete(key string) { delete(d.fields, key) }

// Keys returns the field names in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsTombstone reports whether the document marks a deleted contact.
func (d *Document) IsTombstone() bool { return d.Type() == TypeTombstone }

// Tombstone returns the contact embedded in a tombstone document.
func (d *Document) Tombstone() (*Document, bool) {
	if !d.IsTombstone() {
		return nil, false
	}
	raw, ok := d.fields["tombstone"]
	if !ok {
		return nil, false
	}
	inner, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return inner, true
}

// Parent returns the ancestor chain starting at the immediate parent.
func (d *Document) Parent() (Lineage, error) { return d.Lineage(FieldParent) }

// Contact returns the chain starting at the document's primary contact (for
// places) or at the submitting contact (for reports).
func (d *Document) Contact() (Lineage, error) { return d.Lineage(FieldContact) }

// Lineage decodes the chain stored in field.
func (d *Document) Lineage(field string) (Lineage, error) {
	l, err := ParseLineage(d.fields[field])
	if err != nil {
		return nil, fmt.Errorf("document %q field %q: %w", d.ID(), field, err)
	}
	return l, nil
}

// SetLineage replaces the chain stored in field. An empty lineage removes the
// field entirely.
func (d *Document) SetLineage(field string, l Lineage) {
	if len(l) == 0 {
		delete(d.fields, field)
		return
	}
	raw, _ := l.MarshalJSON()
	if d.fields == nil {
		d.fields = make(map[string]json.RawMessage)
	}
	d.fields[field] = raw
}

// Clone returns a deep copy, so edits never alias the original.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	fields := make(map[string]json.RawMessage, len(d.fields))
	for k, v := range d.fields {
		fields[k] = bytes.Clone(v)
	}
	return &Document{fields: fields}
}

// LineageOf returns the chain that other documents embed to refer to d:
// d's own id followed by d's parent chain.
func LineageOf(d *Document) (Lineage, error) {
	parent, err := d.Parent()
	if err != nil {
		return nil, err
	}
	out := make(Lineage, 0, len(parent)+1)
	out = append(out, d.ID())
	return append(out, parent...), nil
}
