package neo4j

import (
	"context"
	"errors"
	"testing"

	"threatsync/domain/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedStatement struct {
	cypher string
	params map[string]any
}

type fakeRunner struct {
	statements []recordedStatement
	failAt     int // 1-based index of the statement to fail, 0 = never
}

func (r *fakeRunner) Run(_ context.Context, cypher string, params map[string]any) error {
	r.statements = append(r.statements, recordedStatement{cypher: cypher, params: params})
	if r.failAt > 0 && len(r.statements) == r.failAt {
		return errors.New("constraint violation")
	}
	return nil
}

func TestBuildNodeUpsert(t *testing.T) {
	cypher, params := buildNodeUpsert(graph.NodeUpsert{
		ID:         "indicator--1",
		Label:      "indicator",
		Properties: map[string]interface{}{"pattern": "x"},
	})

	assert.Contains(t, cypher, "MERGE (n:indicator {id: $id})")
	assert.Contains(t, cypher, "SET n += $props")
	assert.Equal(t, "indicator--1", params["id"])
	assert.Equal(t, map[string]interface{}{"pattern": "x"}, params["props"])
}

func TestBuildNodeUpsert_NilProperties(t *testing.T) {
	_, params := buildNodeUpsert(graph.NodeUpsert{ID: "a", Label: "report"})

	// A nil map would be sent as a Cypher null and break SET +=.
	assert.Equal(t, map[string]interface{}{}, params["props"])
}

func TestBuildEdgeUpsert_ReferenceEdge(t *testing.T) {
	cypher, params := buildEdgeUpsert(graph.EdgeUpsert{
		SourceID: "report--1",
		TargetID: "indicator--1",
		Type:     "REFERENCES",
	})

	// Endpoints are matched by id only so labels never constrain
	// resolution, and identity is the (source, target, type) triple.
	assert.Contains(t, cypher, "MATCH (source {id: $source_id})")
	assert.Contains(t, cypher, "MATCH (target {id: $target_id})")
	assert.Contains(t, cypher, "MERGE (source)-[r:REFERENCES]->(target)")
	assert.NotContains(t, cypher, "SET r")
	assert.Equal(t, "report--1", params["source_id"])
	assert.Equal(t, "indicator--1", params["target_id"])
	assert.NotContains(t, params, "edge_id")
}

func TestBuildEdgeUpsert_RelationshipEdge(t *testing.T) {
	cypher, params := buildEdgeUpsert(graph.EdgeUpsert{
		SourceID:   "intrusion-set--1",
		TargetID:   "malware--2",
		Type:       "USES",
		Key:        "relationship--1",
		Properties: map[string]interface{}{"confidence": float64(50)},
	})

	// Keyed by the relationship record's own id: two records linking the
	// same pair with the same type must stay distinct edges.
	assert.Contains(t, cypher, "MERGE (source)-[r:USES {id: $edge_id}]->(target)")
	assert.Contains(t, cypher, "SET r += $props")
	assert.Equal(t, "relationship--1", params["edge_id"])
	assert.Equal(t, map[string]interface{}{"confidence": float64(50)}, params["props"])
}

func TestBuildEdgeUpsert_RelationshipEdgeNilProperties(t *testing.T) {
	_, params := buildEdgeUpsert(graph.EdgeUpsert{
		SourceID: "a", TargetID: "b", Type: "USES", Key: "relationship--2",
	})

	assert.Equal(t, map[string]interface{}{}, params["props"])
}

func TestApplyMutations_NodeBeforeEdges(t *testing.T) {
	runner := &fakeRunner{}
	m := graph.Mutations{
		RecordID:   "report--1",
		RecordType: "report",
		Node:       &graph.NodeUpsert{ID: "report--1", Label: "report"},
		Edges: []graph.EdgeUpsert{
			{SourceID: "report--1", TargetID: "indicator--1", Type: "REFERENCES"},
			{SourceID: "report--1", TargetID: "indicator--2", Type: "REFERENCES"},
		},
	}

	err := applyMutations(context.Background(), runner, m)

	require.NoError(t, err)
	require.Len(t, runner.statements, 3)
	assert.Contains(t, runner.statements[0].cypher, "MERGE (n:report")
	assert.Contains(t, runner.statements[1].cypher, "MERGE (source)-[r:REFERENCES]->(target)")
	assert.Equal(t, "indicator--1", runner.statements[1].params["target_id"])
	assert.Equal(t, "indicator--2", runner.statements[2].params["target_id"])
}

func TestApplyMutations_StopsOnFirstError(t *testing.T) {
	runner := &fakeRunner{failAt: 2}
	m := graph.Mutations{
		RecordID: "report--1",
		Node:     &graph.NodeUpsert{ID: "report--1", Label: "report"},
		Edges: []graph.EdgeUpsert{
			{SourceID: "report--1", TargetID: "indicator--1", Type: "REFERENCES"},
			{SourceID: "report--1", TargetID: "indicator--2", Type: "REFERENCES"},
		},
	}

	err := applyMutations(context.Background(), runner, m)

	// The surrounding transaction rolls back, so the record's node and
	// edges fail together.
	require.Error(t, err)
	assert.Len(t, runner.statements, 2)
}

func TestApplyMutations_EdgeOnly(t *testing.T) {
	runner := &fakeRunner{}
	m := graph.Mutations{
		RecordID: "relationship--1",
		Edges: []graph.EdgeUpsert{
			{SourceID: "a", TargetID: "b", Type: "USES", Key: "relationship--1"},
		},
	}

	err := applyMutations(context.Background(), runner, m)

	require.NoError(t, err)
	require.Len(t, runner.statements, 1)
}
