// Package catalog persists dataset snapshots in SQLite so a validated import
// can be served later without re-reading the source document.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshot (
	id        INTEGER PRIMARY KEY CHECK (id = 1),
	checksum  TEXT NOT NULL,
	source    TEXT NOT NULL DEFAULT '',
	loaded_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS herbs (
	position  INTEGER PRIMARY KEY,
	name      TEXT NOT NULL UNIQUE,
	alias     TEXT NOT NULL DEFAULT '',
	frequency INTEGER NOT NULL CHECK (frequency >= 0),
	category  TEXT NOT NULL,
	nature    TEXT NOT NULL,
	flavor    TEXT NOT NULL,
	meridian  TEXT NOT NULL,
	dose      REAL NOT NULL CHECK (dose > 0),
	era       TEXT NOT NULL,
	mw        REAL NOT NULL,
	logp      REAL NOT NULL,
	ob        REAL NOT NULL
);

-- Parallel relations are distinct co-occurrence events: no UNIQUE(source, target).
CREATE TABLE IF NOT EXISTS relations (
	position INTEGER PRIMARY KEY,
	source   TEXT NOT NULL REFERENCES herbs(name) ON DELETE CASCADE,
	target   TEXT NOT NULL REFERENCES herbs(name) ON DELETE CASCADE,
	weight   INTEGER NOT NULL CHECK (weight >= 1),
	CHECK (source <> target)
);

CREATE INDEX IF NOT EXISTS idx_relations_source ON relations(source);
CREATE INDEX IF NOT EXISTS idx_relations_target ON relations(target);
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	conn *sql.DB
	dsn  string
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn, dsn: dsn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
