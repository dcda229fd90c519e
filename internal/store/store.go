package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/nicemap/internal/querysql"
)

// Store provides read access to the ranking tables.
type Store struct {
	db      *sql.DB
	dialect querysql.Dialect
}

// Open connects to the database named by dsn.
//
// SQLite databases are opened read-only; a missing file is an error rather
// than an empty new database. The connection is verified with a ping.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database is required")
	}

	driver, source, dialect := resolveDSN(dsn)

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One query per run; a single connection is all the pipeline ever uses.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if dialect == querysql.SQLite {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return &Store{db: db, dialect: dialect}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Dialect reports the SQL dialect of the underlying database.
func (s *Store) Dialect() querysql.Dialect {
	return s.dialect
}

// resolveDSN maps a user-facing DSN to a driver name, a driver source and
// the placeholder dialect.
func resolveDSN(dsn string) (driver, source string, dialect querysql.Dialect) {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return "pgx", dsn, querysql.Postgres
	}
	return "sqlite3", sqliteReadOnlyURI(dsn), querysql.SQLite
}

// sqliteReadOnlyURI turns a path or file: URI into a URI with mode=ro.
// An explicit mode in a file: URI is kept.
func sqliteReadOnlyURI(dsn string) string {
	uri := dsn
	if !strings.HasPrefix(uri, "file:") {
		uri = "file:" + uri
	}
	if strings.Contains(uri, "mode=") {
		return uri
	}
	if strings.Contains(uri, "?") {
		return uri + "&mode=ro"
	}
	return uri + "?mode=ro"
}

// applyPragmas sets SQLite connection options for a read-only report.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
