package repomanager

import (
	"database/sql"
	"fmt"
	"strings"
)

const sqliteScheme = "sqlite://"

// Open connects to the store named by dsn and returns the matching manager.
// postgres:// and postgresql:// DSNs use pgx; sqlite://<path> opens a SQLite
// file (sqlite://:memory: for a throwaway database).
func Open(dsn string) (*sql.DB, RepositoryManager, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, NewPostgresRepositoryManager(), nil

	case strings.HasPrefix(dsn, sqliteScheme):
		path := strings.TrimPrefix(dsn, sqliteScheme)
		if path == "" {
			return nil, nil, fmt.Errorf("empty sqlite path in %q", dsn)
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		// one writer at a time, and a :memory: database lives on one connection
		db.SetMaxOpenConns(1)
		return db, NewSQLiteRepositoryManager(), nil

	default:
		return nil, nil, fmt.Errorf("unsupported database dsn %q", dsn)
	}
}
