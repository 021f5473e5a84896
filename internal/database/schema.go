package database

import (
	"context"
	"fmt"
)

// catalogDDL creates the catalog tables. Tables starting with an underscore
// hold bookkeeping rather than directory content.
var catalogDDL = []string{
	`CREATE TABLE IF NOT EXISTS _sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		fingerprint TEXT NOT NULL UNIQUE,
		entry_count INTEGER NOT NULL,
		imported_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sections (
		source_id INTEGER NOT NULL REFERENCES _sources(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		name TEXT NOT NULL,
		entry_count INTEGER NOT NULL,
		first_entry_index INTEGER NOT NULL,
		PRIMARY KEY (source_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		source_id INTEGER NOT NULL REFERENCES _sources(id) ON DELETE CASCADE,
		section_idx INTEGER NOT NULL,
		global_index INTEGER NOT NULL,
		name TEXT NOT NULL,
		id INTEGER NOT NULL,
		PRIMARY KEY (source_id, global_index)
	)`,
	`CREATE INDEX IF NOT EXISTS entries_name ON entries(name)`,
}

// createSchema creates the catalog tables if they do not exist yet
func (d *Database) createSchema(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ddl := range catalogDDL {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating catalog schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog schema: %w", err)
	}

	return nil
}
