// Package neo4j implements the graph writer against a Neo4j store using
// parameterized Cypher MERGE statements.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"threatsync/application/ports"
	"threatsync/domain/graph"
	pkgerrors "threatsync/pkg/errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Writer applies one record's mutations per write transaction.
type Writer struct {
	driver  neo4j.DriverWithContext
	timeout time.Duration
	logger  *zap.Logger
}

// Compile-time interface check
var _ ports.GraphWriter = (*Writer)(nil)

// NewWriter connects to the store and verifies connectivity. This is the
// only failure that is fatal to the process; everything downstream is
// retried implicitly by later poll cycles.
func NewWriter(ctx context.Context, uri, username, password string, timeout time.Duration, logger *zap.Logger) (*Writer, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, pkgerrors.NewStore("creating driver", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, pkgerrors.NewStore("verifying store connectivity", err)
	}

	logger.Info("connected to graph store", zap.String("uri", uri))

	return &Writer{
		driver:  driver,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Ping verifies connectivity to the store.
func (w *Writer) Ping(ctx context.Context) error {
	return w.driver.VerifyConnectivity(ctx)
}

// Close releases the underlying driver.
func (w *Writer) Close(ctx context.Context) error {
	return w.driver.Close(ctx)
}

// Apply runs the record's node and edge merges inside a single managed
// write transaction, so they succeed or fail together while distinct
// records stay independently retryable.
func (w *Writer) Apply(ctx context.Context, m graph.Mutations) error {
	if m.Empty() {
		return nil
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	session := w.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, applyMutations(ctx, managedRunner{tx: tx}, m)
	})
	if err != nil {
		return pkgerrors.NewStore(fmt.Sprintf("writing record %s (%s)", m.RecordID, m.RecordType), err)
	}
	return nil
}

// cypherRunner abstracts statement execution so mutation application can
// be tested without a live store.
type cypherRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

type managedRunner struct {
	tx neo4j.ManagedTransaction
}

func (r managedRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	result, err := r.tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

// applyMutations executes the node upsert first so that the record's own
// edges can resolve it within the same transaction, then each edge.
func applyMutations(ctx context.Context, run cypherRunner, m graph.Mutations) error {
	if m.Node != nil {
		cypher, params := buildNodeUpsert(*m.Node)
		if err := run.Run(ctx, cypher, params); err != nil {
			return err
		}
	}
	for _, e := range m.Edges {
		cypher, params := buildEdgeUpsert(e)
		if err := run.Run(ctx, cypher, params); err != nil {
			return err
		}
	}
	return nil
}

// buildNodeUpsert merges a vertex by id and folds the incoming properties
// onto it: later values win, absent keys stay untouched.
func buildNodeUpsert(n graph.NodeUpsert) (string, map[string]any) {
	cypher := fmt.Sprintf(`MERGE (n:%s {id: $id})
SET n += $props`, n.Label)
	props := n.Properties
	if props == nil {
		props = map[string]interface{}{}
	}
	return cypher, map[string]any{
		"id":    n.ID,
		"props": props,
	}
}

// buildEdgeUpsert merges an edge between two vertices matched by id only,
// so labels never constrain endpoint resolution. When either endpoint is
// missing the MATCH yields no rows and the merge is a no-op; the edge is
// re-attempted on a later cycle once the endpoint arrives.
func buildEdgeUpsert(e graph.EdgeUpsert) (string, map[string]any) {
	params := map[string]any{
		"source_id": e.SourceID,
		"target_id": e.TargetID,
	}

	if e.Key == "" {
		// Identity is the (source, target, type) triple.
		cypher := fmt.Sprintf(`MATCH (source {id: $source_id})
MATCH (target {id: $target_id})
MERGE (source)-[r:%s]->(target)`, e.Type)
		return cypher, params
	}

	// Identity is the relationship record's own id: two records linking
	// the same pair with the same type stay distinct edges.
	cypher := fmt.Sprintf(`MATCH (source {id: $source_id})
MATCH (target {id: $target_id})
MERGE (source)-[r:%s {id: $edge_id}]->(target)
SET r += $props`, e.Type)
	params["edge_id"] = e.Key
	props := e.Properties
	if props == nil {
		props = map[string]interface{}{}
	}
	params["props"] = props
	return cypher, params
}
