package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/pkg/filesystem"
	"github.com/doeshing/aicmd/internal/ports"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS history_entries (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	prompt TEXT NOT NULL,
	command TEXT NOT NULL,
	alias TEXT NOT NULL DEFAULT '',
	use_count INTEGER NOT NULL,
	last_used TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// SQLitePersister stores the history snapshot in a SQLite database.
type SQLitePersister struct {
	db   *sql.DB
	path string
}

// NewSQLitePersister opens (or creates) the database at path, defaulting to
// ~/.aicmd/history.db.
func NewSQLitePersister(path string) (*SQLitePersister, error) {
	if path == "" {
		path = filesystem.AppPath("history.db")
	}
	path = filesystem.ExpandHome(path)
	if err := filesystem.EnsureParentDir(path); err != nil {
		return nil, domain.NewPersistenceError("open history", "cannot create history directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.NewPersistenceError("open history", fmt.Sprintf("cannot open %s", path), err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, domain.NewPersistenceError("open history", fmt.Sprintf("cannot initialise %s", path), err)
	}
	return &SQLitePersister{db: db, path: path}, nil
}

// Path returns the sqlite database path.
func (s *SQLitePersister) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLitePersister) Close() error {
	return s.db.Close()
}

// Load implements ports.HistoryPersister.
func (s *SQLitePersister) Load() ([]domain.HistoryEntry, error) {
	rows, err := s.db.Query(`SELECT id, prompt, command, alias, use_count, last_used, created_at
		FROM history_entries ORDER BY position`)
	if err != nil {
		return nil, domain.NewPersistenceError("load history", "cannot query history", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var lastUsed, createdAt string
		if err := rows.Scan(&e.ID, &e.Prompt, &e.Command, &e.Alias, &e.UseCount, &lastUsed, &createdAt); err != nil {
			return nil, domain.NewPersistenceError("load history", "cannot read history row", err)
		}
		if e.LastUsed, err = time.Parse(time.RFC3339Nano, lastUsed); err != nil {
			return nil, domain.NewPersistenceError("load history", "malformed last_used", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, domain.NewPersistenceError("load history", "malformed created_at", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("load history", "cannot read history", err)
	}
	return entries, nil
}

// Save implements ports.HistoryPersister by replacing the table contents in
// a single transaction.
func (s *SQLitePersister) Save(entries []domain.HistoryEntry) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.NewPersistenceError("save history", "cannot begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM history_entries`); err != nil {
		return domain.NewPersistenceError("save history", "cannot clear history", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO history_entries
		(id, position, prompt, command, alias, use_count, last_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return domain.NewPersistenceError("save history", "cannot prepare insert", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err = stmt.Exec(e.ID, i, e.Prompt, e.Command, e.Alias, e.UseCount,
			e.LastUsed.Format(time.RFC3339Nano), e.CreatedAt.Format(time.RFC3339Nano)); err != nil {
			return domain.NewPersistenceError("save history", "cannot insert history entry", err)
		}
	}
	if _, err = tx.Exec(`INSERT INTO meta (key, value) VALUES ('version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, domain.HistoryFormatVersion); err != nil {
		return domain.NewPersistenceError("save history", "cannot record format version", err)
	}
	if err = tx.Commit(); err != nil {
		return domain.NewPersistenceError("save history", "cannot commit history", err)
	}
	return nil
}

var _ ports.HistoryPersister = (*SQLitePersister)(nil)
