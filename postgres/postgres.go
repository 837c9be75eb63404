// Package postgres provides PostgreSQL-based storage for the documentation
// corpus through the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fwojciec/rhinodoc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB represents a PostgreSQL connection pool.
type DB struct {
	db  *sql.DB
	dsn string
}

// NewDB creates a new DB for the given connection string.
func NewDB(dsn string) *DB {
	return &DB{dsn: strings.TrimSpace(dsn)}
}

// Open connects and creates the schema if needed.
// Returns EINVALID if no connection string was given.
func (db *DB) Open(ctx context.Context) error {
	if db.dsn == "" {
		return rhinodoc.Errorf(rhinodoc.EINVALID, "postgres DSN required")
	}

	conn, err := sql.Open("pgx", db.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db.db = conn

	if err := db.createSchema(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

func (db *DB) createSchema(ctx context.Context) error {
	_, err := db.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS builds (
  id TEXT PRIMARY KEY,
  version TEXT NOT NULL,
  namespaces INTEGER NOT NULL,
  total_classes INTEGER NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS manifests (
  version TEXT PRIMARY KEY,
  build_id TEXT NOT NULL REFERENCES builds (id),
  content TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS shards (
  version TEXT NOT NULL,
  namespace TEXT NOT NULL,
  build_id TEXT NOT NULL REFERENCES builds (id),
  content TEXT NOT NULL,
  content_hash TEXT NOT NULL,
  PRIMARY KEY (version, namespace)
);
CREATE INDEX IF NOT EXISTS idx_builds_version ON builds (version);
`)
	return err
}
