package lineage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/fulmenhq/lineage/internal/doc"
	"github.com/fulmenhq/lineage/internal/store"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// RootID is the destination that detaches a place from any parent.
const RootID = "root"

// SettingsDocID holds the app settings, including the hierarchy rules.
const SettingsDocID = "settings"

// DefaultContactTypes are recognized whether or not settings configure them.
var DefaultContactTypes = []string{"person", "clinic", "health_center", "district_hospital"}

//go:embed schemas/contact_types.schema.yaml
var contactTypesSchemaYAML []byte

var (
	schemaOnce   sync.Once
	schemaLoader gojsonschema.JSONLoader
	schemaErr    error
)

func contactTypesSchema() (gojsonschema.JSONLoader, error) {
	schemaOnce.Do(func() {
		var raw map[string]any
		if err := yaml.Unmarshal(contactTypesSchemaYAML, &raw); err != nil {
			schemaErr = fmt.Errorf("decode contact_types schema: %w", err)
			return
		}
		schemaLoader = gojsonschema.NewGoLoader(raw)
	})
	return schemaLoader, schemaErr
}

// HierarchyRule lists the parent types a contact type may have. An empty
// Parents list means the type lives at the root.
type HierarchyRule struct {
	ID      string   `json:"id"`
	Parents []string `json:"parents"`
}

// RuleSet answers type questions for one request.
type RuleSet struct {
	rules map[string]HierarchyRule
	known map[string]bool
}

// NewRuleSet indexes rules by type. Later rules for the same type win.
func NewRuleSet(rules []HierarchyRule) *RuleSet {
	rs := &RuleSet{
		rules: make(map[string]HierarchyRule, len(rules)),
		known: make(map[string]bool, len(DefaultContactTypes)+len(rules)),
	}
	for _, t := range DefaultContactTypes {
		rs.known[t] = true
	}
	for _, r := range rules {
		rs.rules[r.ID] = r
		rs.known[r.ID] = true
	}
	return rs
}

// Known reports whether t is a contact or place type.
func (rs *RuleSet) Known(t string) bool { return rs.known[t] }

// Rule returns the configured rule for t.
func (rs *RuleSet) Rule(t string) (HierarchyRule, bool) {
	r, ok := rs.rules[t]
	return r, ok
}

// Allows reports whether a contact of childType may be parented under a
// contact of parentType. An empty parentType stands for the root.
func (rs *RuleSet) Allows(childType, parentType string) bool {
	r, ok := rs.rules[childType]
	if !ok {
		return true
	}
	if parentType == "" {
		return len(r.Parents) == 0
	}
	return slices.Contains(r.Parents, parentType)
}

// ContactType returns the hierarchy type of d. Documents of the generic
// "contact" type carry their configured type in contact_type.
func ContactType(d *doc.Document) string {
	if t := d.Type(); t != "contact" {
		return t
	}
	return d.String("contact_type")
}

// LoadRules reads settings.contact_types. A missing settings document or an
// absent table yields an unrestricted rule set.
func LoadRules(ctx context.Context, s store.DocumentStore) (*RuleSet, error) {
	settings, err := s.Get(ctx, SettingsDocID)
	if errors.Is(err, store.ErrNotFound) {
		return NewRuleSet(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	raw, ok := settings.Raw("settings")
	if !ok {
		return NewRuleSet(nil), nil
	}
	var body struct {
		ContactTypes json.RawMessage `json:"contact_types"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &Error{Kind: InvalidArguments, Message: "settings document is not an object", Err: err}
	}
	if len(body.ContactTypes) == 0 || string(body.ContactTypes) == "null" {
		return NewRuleSet(nil), nil
	}

	rules, err := ParseRules(body.ContactTypes)
	if err != nil {
		return nil, err
	}
	return NewRuleSet(rules), nil
}

// ParseRules validates a contact_types table against its schema and decodes
// it.
func ParseRules(data []byte) ([]HierarchyRule, error) {
	schema, err := contactTypesSchema()
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &Error{Kind: InvalidArguments, Message: "contact_types is not valid JSON", Err: err}
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, newError(InvalidArguments, "invalid contact_types in settings: %s", strings.Join(problems, "; "))
	}

	var rules []HierarchyRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, &Error{Kind: InvalidArguments, Message: "decode contact_types", Err: err}
	}
	return rules, nil
}
