// Package storage archives exported batches for audit and diagnostics.
// Live graphs are never persisted; only the one-shot export crosses
// this boundary.
package storage

import (
	"context"
	"time"

	"github.com/example/taskgraph/pkg/graph"
)

// NodeRecord is one archived batch entry, flattened for storage.
type NodeRecord struct {
	Label graph.NodeID
	After []graph.NodeID
	Name  string
}

// BatchRecord is one archived export, identified by its run ID.
type BatchRecord struct {
	RunID      string
	CreatedAt  time.Time
	ExecutedAt *time.Time
	Error      string
	Nodes      []NodeRecord
}

// ListOptions provides pagination for list operations.
type ListOptions struct {
	Limit  int
	Offset int
}

// BatchRepository provides access to archived batches.
type BatchRepository interface {
	// Save archives a new batch record.
	Save(ctx context.Context, rec *BatchRecord) error

	// Get retrieves a batch record by run ID.
	Get(ctx context.Context, runID string) (*BatchRecord, error)

	// List lists batch records, newest first.
	List(ctx context.Context, opts ListOptions) ([]*BatchRecord, error)

	// MarkExecuted records that the batch has been run. execErr is
	// empty for a clean run.
	MarkExecuted(ctx context.Context, runID string, execErr string) error

	// Delete removes a batch record and its nodes.
	Delete(ctx context.Context, runID string) error
}

// Record flattens an exported batch into an archive record. name maps a
// task descriptor to its display name; the descriptor itself is opaque
// and never stored.
func Record[T any](runID string, batch graph.Batch[T], name func(T) string) *BatchRecord {
	rec := &BatchRecord{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Nodes:     make([]NodeRecord, 0, len(batch)),
	}
	for _, e := range batch {
		rec.Nodes = append(rec.Nodes, NodeRecord{
			Label: e.Label,
			After: e.After,
			Name:  name(e.Task),
		})
	}
	return rec
}
