package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskgraph/internal/storage"
)

// ErrNotFound is returned when a requested batch record doesn't exist.
var ErrNotFound = errors.New("batch not found")

// Save archives a new batch record and its nodes in one transaction.
func (s *Store) Save(ctx context.Context, rec *storage.BatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (run_id, created_at, error, node_count) VALUES (?, ?, ?, ?)`,
		rec.RunID, rec.CreatedAt, rec.Error, len(rec.Nodes))
	if err != nil {
		return fmt.Errorf("insert batch %s: %w", rec.RunID, err)
	}

	for _, n := range rec.Nodes {
		afterJSON, err := json.Marshal(n.After)
		if err != nil {
			return fmt.Errorf("marshal predecessors of %s: %w", n.Label, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batch_nodes (run_id, graph_id, seq, name, after_json) VALUES (?, ?, ?, ?, ?)`,
			rec.RunID, n.Label.Graph, n.Label.Seq, n.Name, string(afterJSON))
		if err != nil {
			return fmt.Errorf("insert node %s: %w", n.Label, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a batch record by run ID.
func (s *Store) Get(ctx context.Context, runID string) (*storage.BatchRecord, error) {
	rec := &storage.BatchRecord{RunID: runID}
	var executedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, executed_at, error FROM batches WHERE run_id = ?`, runID).
		Scan(&rec.CreatedAt, &executedAt, &rec.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if executedAt.Valid {
		t := executedAt.Time
		rec.ExecutedAt = &t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT graph_id, seq, name, after_json FROM batch_nodes WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n storage.NodeRecord
		var afterJSON string
		if err := rows.Scan(&n.Label.Graph, &n.Label.Seq, &n.Name, &afterJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(afterJSON), &n.After); err != nil {
			return nil, fmt.Errorf("unmarshal predecessors of %s: %w", n.Label, err)
		}
		rec.Nodes = append(rec.Nodes, n)
	}
	return rec, rows.Err()
}

// List lists batch records, newest first. Nodes are not populated; use
// Get for the full record.
func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]*storage.BatchRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created_at, executed_at, error FROM batches
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*storage.BatchRecord
	for rows.Next() {
		rec := &storage.BatchRecord{}
		var executedAt sql.NullTime
		if err := rows.Scan(&rec.RunID, &rec.CreatedAt, &executedAt, &rec.Error); err != nil {
			return nil, err
		}
		if executedAt.Valid {
			t := executedAt.Time
			rec.ExecutedAt = &t
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// MarkExecuted records that the batch has been run.
func (s *Store) MarkExecuted(ctx context.Context, runID string, execErr string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE batches SET executed_at = ?, error = ? WHERE run_id = ?`,
		time.Now().UTC(), execErr, runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("batch %s: %w", runID, ErrNotFound)
	}
	return nil
}

// Delete removes a batch record; nodes cascade.
func (s *Store) Delete(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE run_id = ?`, runID)
	return err
}

var _ storage.BatchRepository = (*Store)(nil)
