package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Kind is the document backend a connection string points at.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindMongo  Kind = "mongo"
)

// KindOf picks the backend from the connection string scheme: mongodb://
// and mongodb+srv:// select MongoDB, anything else is a SQLite path
// (an optional sqlite:// or file: prefix is accepted).
func KindOf(uri string) Kind {
	u := strings.ToLower(strings.TrimSpace(uri))
	if strings.HasPrefix(u, "mongodb://") || strings.HasPrefix(u, "mongodb+srv://") {
		return KindMongo
	}
	return KindSQLite
}

// SQLitePath strips an optional sqlite:// or file: prefix.
func SQLitePath(uri string) string {
	p := strings.TrimSpace(uri)
	p = strings.TrimPrefix(p, "sqlite://")
	p = strings.TrimPrefix(p, "file:")
	return p
}

func ensureDataDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// OpenSQLite opens (creating if needed) the SQLite catalog database.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := ensureDataDir(path); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: SQLite has a single writer, and it keeps the
	// pragmas below in effect for every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma foreign_keys: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}
