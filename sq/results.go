package sq

import (
	"context"
	"fmt"
	"time"
)

type Result struct {
	ID        int64
	Run       string
	Source    string
	Query     string
	Selector  string
	Position  int
	Tag       string
	HTML      string
	Text      string
	CreatedAt time.Time
}

func (db *DB) RecordContext(ctx context.Context, rs ...Result) error {
	if len(rs) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results (run, source, query, selector, position, tag, html, text)
                                         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rs {
		if _, err := stmt.ExecContext(ctx, r.Run, r.Source, r.Query, r.Selector, r.Position, r.Tag, r.HTML, r.Text); err != nil {
			return fmt.Errorf("failed to insert result %s[%d]: %w", r.Query, r.Position, err)
		}
	}
	return tx.Commit()
}

// ResultsContext returns the results of run in insertion order.
func (db *DB) ResultsContext(ctx context.Context, run string) ([]Result, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, run, source, query, selector, position, tag, html, text, created_at
                                       FROM results WHERE run = ? ORDER BY id`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rs := []Result{}
	for rows.Next() {
		r := Result{}
		if err := rows.Scan(&r.ID, &r.Run, &r.Source, &r.Query, &r.Selector, &r.Position,
			&r.Tag, &r.HTML, &r.Text, &r.CreatedAt); err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, rows.Err()
}

func (db *DB) RunsContext(ctx context.Context) ([]string, error) {
	return QueryContext[string](ctx, db, "SELECT run FROM results GROUP BY run ORDER BY min(id)")
}
