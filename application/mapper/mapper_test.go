package mapper

import (
	"testing"

	"threatsync/domain/stix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, raw map[string]interface{}) stix.Record {
	t.Helper()
	rec, err := stix.Decode(raw)
	require.NoError(t, err)
	return rec
}

func TestMap_Entity(t *testing.T) {
	rec := mustDecode(t, map[string]interface{}{
		"id":      "indicator--1",
		"type":    "indicator",
		"pattern": "[domain-name:value = 'evil.test']",
		"nested":  map[string]interface{}{"dropped": true},
	})

	m := Map(rec)

	require.NotNil(t, m.Node)
	assert.Equal(t, "indicator--1", m.Node.ID)
	assert.Equal(t, "indicator", m.Node.Label)
	assert.Equal(t, "[domain-name:value = 'evil.test']", m.Node.Properties["pattern"])
	assert.NotContains(t, m.Node.Properties, "nested")
	assert.Empty(t, m.Edges)
}

func TestMap_EntityLabelSanitized(t *testing.T) {
	rec := mustDecode(t, map[string]interface{}{
		"id":   "intrusion-set--1",
		"type": "intrusion-set",
	})

	m := Map(rec)

	require.NotNil(t, m.Node)
	assert.Equal(t, "intrusion_set", m.Node.Label)
}

func TestMap_ContainerEmitsNodePlusReferenceEdges(t *testing.T) {
	rec := mustDecode(t, map[string]interface{}{
		"id":          "report--1",
		"type":        "report",
		"name":        "q3 campaign",
		"object_refs": []interface{}{"indicator--1", "malware--2"},
	})

	m := Map(rec)

	require.NotNil(t, m.Node)
	require.Len(t, m.Edges, 2)
	for i, target := range []string{"indicator--1", "malware--2"} {
		assert.Equal(t, "report--1", m.Edges[i].SourceID)
		assert.Equal(t, target, m.Edges[i].TargetID)
		assert.Equal(t, ReferenceEdgeType, m.Edges[i].Type)
		assert.Empty(t, m.Edges[i].Key)
		assert.Nil(t, m.Edges[i].Properties)
	}
}

func TestMap_Relationship(t *testing.T) {
	rec := mustDecode(t, map[string]interface{}{
		"id":                "relationship--1",
		"type":              "relationship",
		"source_ref":        "intrusion-set--1",
		"target_ref":        "malware--2",
		"relationship_type": "uses",
		"confidence":        float64(50),
	})

	m := Map(rec)

	assert.Nil(t, m.Node)
	require.Len(t, m.Edges, 1)
	e := m.Edges[0]
	assert.Equal(t, "intrusion-set--1", e.SourceID)
	assert.Equal(t, "malware--2", e.TargetID)
	assert.Equal(t, "USES", e.Type)
	assert.Equal(t, "relationship--1", e.Key)
	assert.Equal(t, float64(50), e.Properties["confidence"])
}

func TestMap_RelationshipTypeUppercasedAndSanitized(t *testing.T) {
	rec := mustDecode(t, map[string]interface{}{
		"id":                "relationship--2",
		"type":              "relationship",
		"source_ref":        "a",
		"target_ref":        "b",
		"relationship_type": "attributed-to",
	})

	m := Map(rec)

	require.Len(t, m.Edges, 1)
	assert.Equal(t, "ATTRIBUTED_TO", m.Edges[0].Type)
}

func TestMap_RelationshipTypeFallback(t *testing.T) {
	rec := mustDecode(t, map[string]interface{}{
		"id":         "relationship--3",
		"type":       "relationship",
		"source_ref": "a",
		"target_ref": "b",
	})

	m := Map(rec)

	require.Len(t, m.Edges, 1)
	assert.Equal(t, DefaultEdgeType, m.Edges[0].Type)
}

func TestMap_RelationshipMissingEndpointYieldsNothing(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
	}{
		{"no source", map[string]interface{}{
			"id": "relationship--4", "type": "relationship", "target_ref": "b",
		}},
		{"no target", map[string]interface{}{
			"id": "relationship--5", "type": "relationship", "source_ref": "a",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Map(mustDecode(t, tt.raw))
			assert.True(t, m.Empty())
			assert.Equal(t, tt.raw["id"], m.RecordID)
		})
	}
}
