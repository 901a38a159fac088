// Package stix holds the decoded representation of feed records and the
// rules for classifying them into graph roles.
package stix

import (
	pkgerrors "threatsync/pkg/errors"
)

// Reserved type tag marking a record that declares an edge between two
// other records rather than an entity of its own.
const RelationshipType = "relationship"

// Record is one decoded object from the feed. The feed is duck-typed:
// any JSON object carrying an id and a type tag is a record. All fields
// beyond the identity pair stay in Raw and are filtered down to scalars
// when persisted as graph properties.
type Record struct {
	ID   string
	Type string
	Raw  map[string]interface{}
}

// Decode validates the minimal record shape and wraps the raw object.
func Decode(raw map[string]interface{}) (Record, error) {
	id, ok := raw["id"].(string)
	if !ok || id == "" {
		return Record{}, pkgerrors.NewValidation("record is missing a string id")
	}
	typ, ok := raw["type"].(string)
	if !ok || typ == "" {
		return Record{}, pkgerrors.NewValidation("record is missing a string type")
	}
	return Record{ID: id, Type: typ, Raw: raw}, nil
}

// ScalarProperties returns the subset of the record's fields that can be
// persisted as graph properties. Nested objects and arrays are dropped
// silently; the feed is free to carry them, the graph does not.
func (r Record) ScalarProperties() map[string]interface{} {
	props := make(map[string]interface{}, len(r.Raw))
	for k, v := range r.Raw {
		switch v.(type) {
		case string, bool, float64, int, int64:
			props[k] = v
		}
	}
	return props
}

// ObjectRefs returns the identifiers this record references, if any.
// Non-string entries are skipped.
func (r Record) ObjectRefs() []string {
	raw, ok := r.Raw["object_refs"].([]interface{})
	if !ok {
		return nil
	}
	refs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			refs = append(refs, s)
		}
	}
	return refs
}

// SourceRef returns the source endpoint of a relationship record.
func (r Record) SourceRef() string {
	s, _ := r.Raw["source_ref"].(string)
	return s
}

// TargetRef returns the target endpoint of a relationship record.
func (r Record) TargetRef() string {
	s, _ := r.Raw["target_ref"].(string)
	return s
}

// RelationshipKind returns the declared relationship type, empty when absent.
func (r Record) RelationshipKind() string {
	s, _ := r.Raw["relationship_type"].(string)
	return s
}
