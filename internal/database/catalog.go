package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jchantrell/asntool/internal/asn"
)

// Source is an imported .asn file
type Source struct {
	ID          int64
	Path        string
	Fingerprint string
	EntryCount  int64
	ImportedAt  time.Time
}

// EntryMatch is an entry found by name, with the file and section it belongs to
type EntryMatch struct {
	SourcePath  string
	SectionIdx  int
	SectionName string
	Entry       asn.Entry
}

// Fingerprint identifies the content of an .asn file
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// ImportDirectory stores a decoded directory. It returns false without
// writing anything when a file with the same fingerprint is already present.
func (d *Database) ImportDirectory(ctx context.Context, path, fingerprint string, dir *asn.Directory) (bool, error) {
	if d.db == nil {
		return false, fmt.Errorf("database connection is closed")
	}
	if dir == nil {
		return false, fmt.Errorf("directory cannot be nil")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting import transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM _sources WHERE fingerprint = ?`, fingerprint).Scan(&existing)
	switch {
	case err == nil:
		slog.Debug("Source already imported", "path", path, "fingerprint", fingerprint, "source_id", existing)
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("looking up fingerprint: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO _sources (path, fingerprint, entry_count, imported_at) VALUES (?, ?, ?, ?)`,
		path, fingerprint, dir.EntryCount, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("inserting source %s: %w", path, err)
	}
	sourceID, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("reading source id: %w", err)
	}

	sectionStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (source_id, idx, name, entry_count, first_entry_index) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing section insert: %w", err)
	}
	defer sectionStmt.Close()

	// OR REPLACE keeps permissively decoded files with overlapping ranges importable
	entryStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO entries (source_id, section_idx, global_index, name, id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing entry insert: %w", err)
	}
	defer entryStmt.Close()

	for _, s := range dir.Sections {
		if _, err := sectionStmt.ExecContext(ctx, sourceID, s.Index, s.Name, s.EntryCount, s.FirstEntryIndex); err != nil {
			return false, fmt.Errorf("inserting section %d: %w", s.Index, err)
		}
		for _, e := range s.Entries {
			if _, err := entryStmt.ExecContext(ctx, sourceID, s.Index, e.Index, e.Name, e.ID); err != nil {
				return false, fmt.Errorf("inserting entry %d of section %d: %w", e.Index, s.Index, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing import of %s: %w", path, err)
	}

	slog.Debug("Imported source", "path", path, "source_id", sourceID, "entries", dir.EntryCount)
	return true, nil
}

// ListSources returns every imported file ordered by path
func (d *Database) ListSources(ctx context.Context) ([]Source, error) {
	rows, err := d.Query(ctx, `SELECT id, path, fingerprint, entry_count, imported_at FROM _sources ORDER BY path, id`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		var importedAt string
		if err := rows.Scan(&s.ID, &s.Path, &s.Fingerprint, &s.EntryCount, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		if s.ImportedAt, err = time.Parse(time.RFC3339, importedAt); err != nil {
			return nil, fmt.Errorf("parsing import time of %s: %w", s.Path, err)
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// FindEntries returns entries whose name matches the SQL LIKE pattern
func (d *Database) FindEntries(ctx context.Context, pattern string) ([]EntryMatch, error) {
	rows, err := d.Query(ctx, `
		SELECT src.path, e.section_idx, s.name, e.global_index, e.name, e.id
		FROM entries e
		JOIN _sources src ON src.id = e.source_id
		JOIN sections s ON s.source_id = e.source_id AND s.idx = e.section_idx
		WHERE e.name LIKE ?
		ORDER BY src.path, e.global_index`, pattern)
	if err != nil {
		return nil, fmt.Errorf("finding entries: %w", err)
	}
	defer rows.Close()

	var matches []EntryMatch
	for rows.Next() {
		var m EntryMatch
		if err := rows.Scan(&m.SourcePath, &m.SectionIdx, &m.SectionName, &m.Entry.Index, &m.Entry.Name, &m.Entry.ID); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return matches, nil
}
