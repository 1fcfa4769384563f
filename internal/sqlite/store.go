// Package sqlite exports parsed variants and genotypes to a SQLite file.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a SQLite database holding loaded variants.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates a SQLite database at path. Use an empty string for
// an in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = "file:" + path
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps in-memory databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sqlx.DB for direct access.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) runMigrations(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS variants (
			variant_id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			chrom TEXT NOT NULL,
			pos INTEGER NOT NULL,
			id TEXT NOT NULL,
			ref TEXT NOT NULL,
			alt TEXT NOT NULL,
			qual REAL NOT NULL,
			filter TEXT NOT NULL,
			ploidy INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_variants_locus
		 ON variants(chrom, pos);`,
		`CREATE TABLE IF NOT EXISTS genotypes (
			variant_id INTEGER NOT NULL REFERENCES variants(variant_id),
			sample_idx INTEGER NOT NULL,
			sample TEXT NOT NULL,
			gt TEXT NOT NULL,
			missing INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_genotypes_variant
		 ON genotypes(variant_id, sample_idx);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}

// WithTx executes fn inside a transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
