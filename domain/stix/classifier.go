package stix

// Role is the graph role a record plays.
type Role string

const (
	// RoleEntity records become a single vertex.
	RoleEntity Role = "entity"
	// RoleRelationship records become a typed edge and no vertex.
	RoleRelationship Role = "relationship"
)

// Classification is the result of inspecting one record. A record can be
// an entity and a container of references at the same time, in which case
// Refs is non-empty alongside RoleEntity.
type Classification struct {
	Role Role
	Refs []string
}

// IsContainer reports whether the record references other records.
func (c Classification) IsContainer() bool {
	return len(c.Refs) > 0
}

// Classify determines the graph role of a record. Unknown type tags are
// classified as entities so that new STIX object types flow into the
// graph without a code change.
func Classify(r Record) Classification {
	if r.Type == RelationshipType {
		return Classification{Role: RoleRelationship}
	}
	return Classification{Role: RoleEntity, Refs: r.ObjectRefs()}
}

// SanitizeIdentifier rewrites a label or edge type so it only contains
// characters the graph store accepts in identifiers. The mapping is
// deterministic: every character outside [A-Za-z0-9_] becomes an
// underscore. Applied identically to node labels and edge types.
func SanitizeIdentifier(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
