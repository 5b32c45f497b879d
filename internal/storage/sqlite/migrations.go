package sqlite

import (
	"context"
	"database/sql"
)

// Migrate runs all database migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			run_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			executed_at DATETIME,
			error TEXT NOT NULL DEFAULT '',
			node_count INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS batch_nodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			graph_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			after_json TEXT NOT NULL DEFAULT '[]',
			FOREIGN KEY (run_id) REFERENCES batches(run_id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_batch_nodes_run ON batch_nodes(run_id)`,
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
