package model

import "context"

// Sink receives the enriched rows of each finished chunk for persistence.
// Implementations must not fail the whole batch on individual bad rows;
// they skip those and report only the number persisted.
type Sink interface {
	Persist(ctx context.Context, rows []*FlowRecord) (int, error)
}
