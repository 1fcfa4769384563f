// Package duckdb stores parsed variants and their genotypes in DuckDB for
// ad-hoc querying.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding loaded variants.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex // serializes writers so variant ids stay unique
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS variants (
			variant_id BIGINT PRIMARY KEY,
			source VARCHAR,
			chrom VARCHAR,
			pos BIGINT,
			id VARCHAR,
			ref VARCHAR,
			alt VARCHAR,
			qual DOUBLE,
			filter VARCHAR,
			ploidy INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS genotypes (
			variant_id BIGINT,
			sample_idx INTEGER,
			sample VARCHAR,
			gt VARCHAR,
			missing BOOLEAN
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			path VARCHAR PRIMARY KEY,
			size BIGINT,
			mod_time VARCHAR,
			variants BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
