package ports

import (
	"context"

	"threatsync/domain/graph"
	"threatsync/domain/stix"
)

// GraphWriter defines the interface for applying mutation intents to the
// property graph. This is a port in hexagonal architecture - the
// application doesn't know about the driver behind it.
type GraphWriter interface {
	// Apply runs one record's mutations in a single write transaction.
	Apply(ctx context.Context, m graph.Mutations) error

	// Ping verifies connectivity to the store.
	Ping(ctx context.Context) error

	// Close releases the underlying driver.
	Close(ctx context.Context) error
}

// FeedSource walks the feed's pagination protocol and returns the full
// batch of records available at poll time.
type FeedSource interface {
	// FetchAll returns every record the feed currently serves, in page
	// order. A transport failure on any page discards partial results
	// and surfaces as a cycle-level error.
	FetchAll(ctx context.Context) ([]stix.Record, error)
}
