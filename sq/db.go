package sq

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Connection interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type DB struct {
	*sql.DB
}

type MigrateError struct {
	Applied, Wanted int
}

// Migrations are append-only: applied statements must stay unchanged at their index.
var Migrations = []string{
	`CREATE TABLE results (
       id INTEGER PRIMARY KEY,
       run TEXT NOT NULL,
       source TEXT NOT NULL,
       query TEXT NOT NULL,
       selector TEXT NOT NULL,
       position INTEGER NOT NULL,
       tag TEXT NOT NULL,
       html TEXT NOT NULL,
       text TEXT NOT NULL,
       created_at DATETIME DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE INDEX results_run ON results (run, source, query, position)`,
}

func New(ctx context.Context, uri string, migrations []string) (*DB, error) {
	db, err := sql.Open("sqlite3", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	if uri == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	d := &DB{db}
	if err := d.MigrateContext(ctx, migrations); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return d, nil
}

func (db *DB) MigrateContext(ctx context.Context, migrations []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (sql TEXT)`); err != nil {
		return fmt.Errorf("failed to create _migrations table: %w", err)
	}
	applied, err := QueryContext[string](ctx, tx, "SELECT sql FROM _migrations ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("failed to query _migrations: %w", err)
	}
	if len(applied) > len(migrations) {
		return &MigrateError{len(applied), len(migrations)}
	}
	for i, stmt := range applied {
		if migrations[i] != stmt {
			return &MigrateError{len(applied), len(migrations)}
		}
	}
	for _, stmt := range migrations[len(applied):] {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %q: %w", stmt, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO _migrations (sql) VALUES (?)", stmt); err != nil {
			return fmt.Errorf("failed to record migration %q: %w", stmt, err)
		}
	}
	return tx.Commit()
}

// QueryContext scans the single column of every row into a T.
func QueryContext[T any](ctx context.Context, c Connection, q string, args ...any) (vs []T, err error) {
	rows, err := c.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v T
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

func (e *MigrateError) Error() string {
	return fmt.Sprintf("migrations diverged: %d applied, %d wanted", e.Applied, e.Wanted)
}
