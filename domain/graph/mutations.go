// Package graph defines the mutation intents the sync engine derives
// from records and applies to the property graph.
package graph

// NodeUpsert merges one vertex keyed by ID. Repeated upserts of the same
// ID converge: properties merge, the label stays put.
type NodeUpsert struct {
	ID         string
	Label      string
	Properties map[string]interface{}
}

// EdgeUpsert merges one edge. When Key is empty the edge's identity is
// the (source, target, type) triple; otherwise Key is the edge's own
// identity and Properties merge onto it on every sighting.
type EdgeUpsert struct {
	SourceID   string
	TargetID   string
	Type       string
	Key        string
	Properties map[string]interface{}
}

// Mutations is the full set of graph writes derived from one record.
// They are applied atomically: the record's vertex and all of its edges
// succeed or fail together.
type Mutations struct {
	RecordID   string
	RecordType string
	Node       *NodeUpsert
	Edges      []EdgeUpsert
}

// Empty reports whether there is nothing to write for this record.
func (m Mutations) Empty() bool {
	return m.Node == nil && len(m.Edges) == 0
}
