package sq

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newDB(t *testing.T, uri string, migrations []string) *DB {
	db, err := New(context.Background(), uri, migrations)
	if err != nil {
		t.Fatalf("failed to create db: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate(t *testing.T) {
	ctx, uri := context.Background(), filepath.Join(t.TempDir(), "test.db")
	db := newDB(t, uri, Migrations)
	if err := db.MigrateContext(ctx, Migrations); err != nil {
		t.Fatalf("re-applying migrations: %s", err)
	}
	db.Close()

	extended := append(append([]string{}, Migrations...), "CREATE TABLE foo (x TEXT)")
	db = newDB(t, uri, extended)
	applied, err := QueryContext[string](ctx, db, "SELECT sql FROM _migrations")
	if err != nil || len(applied) != len(extended) {
		t.Fatalf("expected %d applied migrations: %v %s", len(extended), applied, err)
	}
	me := &MigrateError{}
	if err := db.MigrateContext(ctx, Migrations); !errors.As(err, &me) || me.Applied != 3 || me.Wanted != 2 {
		t.Fatalf("expected MigrateError for removed migration: %#v", err)
	}
	changed := append(append([]string{}, Migrations...), "CREATE TABLE bar (x TEXT)")
	if err := db.MigrateContext(ctx, changed); !errors.As(err, &me) {
		t.Fatalf("expected MigrateError for changed migration: %#v", err)
	}
}

func TestResults(t *testing.T) {
	ctx, db := context.Background(), newDB(t, ":memory:", Migrations)
	if err := db.RecordContext(ctx); err != nil {
		t.Fatalf("recording nothing: %s", err)
	}
	in := []Result{
		{Run: "a", Source: "x.html", Query: "links", Selector: "a[href]", Position: 0, Tag: "a", HTML: `<a href="/">x</a>`, Text: "x"},
		{Run: "a", Source: "x.html", Query: "links", Selector: "a[href]", Position: 1, Tag: "a", HTML: `<a href="/y">y</a>`, Text: "y"},
		{Run: "b", Source: "y.html", Query: "title", Selector: "title", Position: 0, Tag: "title", HTML: "<title>t</title>", Text: "t"},
	}
	if err := db.RecordContext(ctx, in...); err != nil {
		t.Fatalf("failed to record: %s", err)
	}
	rs, err := db.ResultsContext(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 2 || rs[0].Text != "x" || rs[1].Position != 1 || rs[1].HTML != in[1].HTML {
		t.Fatalf("unexpected results for run a: %#v", rs)
	}
	if rs[0].CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set: %#v", rs[0])
	}
	if rs, err := db.ResultsContext(ctx, "c"); err != nil || len(rs) != 0 {
		t.Fatalf("expected no results for unknown run: %v %s", rs, err)
	}
	runs, err := db.RunsContext(ctx)
	if err != nil || len(runs) != 2 || runs[0] != "a" || runs[1] != "b" {
		t.Fatalf("unexpected runs: %v %s", runs, err)
	}
}
