// Package mapper translates classified records into graph mutation intents.
package mapper

import (
	"strings"

	"threatsync/domain/graph"
	"threatsync/domain/stix"
)

const (
	// ReferenceEdgeType is the fixed type of container-to-member edges.
	ReferenceEdgeType = "REFERENCES"
	// DefaultEdgeType is used when a relationship record declares no type.
	DefaultEdgeType = "RELATED_TO"
)

// Map produces the ordered mutation intents for one record. Mapping never
// fails: malformed optional fields mean nothing is emitted for that facet.
// A relationship record missing either endpoint yields empty mutations,
// which the caller logs and skips.
func Map(r stix.Record) graph.Mutations {
	c := stix.Classify(r)
	m := graph.Mutations{RecordID: r.ID, RecordType: r.Type}

	if c.Role == stix.RoleRelationship {
		source, target := r.SourceRef(), r.TargetRef()
		if source == "" || target == "" {
			return m
		}
		kind := r.RelationshipKind()
		if kind == "" {
			kind = DefaultEdgeType
		}
		m.Edges = append(m.Edges, graph.EdgeUpsert{
			SourceID:   source,
			TargetID:   target,
			Type:       stix.SanitizeIdentifier(strings.ToUpper(kind)),
			Key:        r.ID,
			Properties: r.ScalarProperties(),
		})
		return m
	}

	m.Node = &graph.NodeUpsert{
		ID:         r.ID,
		Label:      stix.SanitizeIdentifier(r.Type),
		Properties: r.ScalarProperties(),
	}

	// Reference edges carry no properties; their identity is the
	// (source, target, type) triple.
	for _, ref := range c.Refs {
		m.Edges = append(m.Edges, graph.EdgeUpsert{
			SourceID: r.ID,
			TargetID: ref,
			Type:     ReferenceEdgeType,
		})
	}

	return m
}
