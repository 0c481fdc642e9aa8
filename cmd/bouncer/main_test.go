package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/niklasfasching/bouncer/sq"
)

func TestParseRecipe(t *testing.T) {
	qs, err := parseRecipe([]byte("title: title\nlinks: 'a[href^=\"/\"]'\nfirst: ul > li:first-child\n"))
	if err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, q := range qs {
		names = append(names, q.Name)
	}
	if got, expected := strings.Join(names, ","), "title,links,first"; got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}
	if got, expected := qs[1].Selector.String(), `a[href^="/"]`; got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}

	for _, recipe := range []string{"x: 'a[href'", "x: ':nope'", "x: [1, 2]"} {
		if _, err := parseRecipe([]byte(recipe)); err == nil {
			t.Errorf("%q: expected error", recipe)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.html"), filepath.Join(dir, "b.html")
	os.WriteFile(a, []byte(`<ul><li>a1</li><li><a href="/x">a2</a></li></ul>`), 0644)
	os.WriteFile(b, []byte(`<ul><li>b1</li></ul><ul><li>b2</li></ul>`), 0644)
	qs, err := queries("ul > li:first-child", "")
	if err != nil {
		t.Fatal(err)
	}

	ctx, out := context.Background(), &bytes.Buffer{}
	o := options{config: config{DB: filepath.Join(dir, "results.db"), Parallel: 2}, Text: true}
	if err := run(ctx, out, o, qs, []string{a, b}); err != nil {
		t.Fatal(err)
	}
	expected := strings.Join([]string{a + "\ta1", b + "\tb1", b + "\tb2", ""}, "\n")
	if got := out.String(); got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}

	db, err := sq.New(ctx, o.DB, sq.Migrations)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	runs, err := db.RunsContext(ctx)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one run: %v %v", runs, err)
	}
	rs, err := db.ResultsContext(ctx, runs[0])
	if err != nil || len(rs) != 3 {
		t.Fatalf("expected 3 results: %v %v", rs, err)
	}
	if rs[2].Source != b || rs[2].Position != 1 || rs[2].HTML != "<li>b2</li>" || rs[2].Tag != "li" {
		t.Errorf("unexpected result: %#v", rs[2])
	}

	out.Reset()
	o = options{Attr: "href"}
	qs, _ = queries("a", "")
	if err := run(ctx, out, o, qs, []string{a}); err != nil {
		t.Fatal(err)
	}
	if got, expected := out.String(), "/x\n"; got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}

	if err := run(ctx, out, o, qs, []string{filepath.Join(dir, "missing.html")}); err == nil {
		t.Errorf("expected error for missing source")
	}
}

func TestPrintTokens(t *testing.T) {
	qs, err := queries("div#x > .y", "")
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	if err := printTokens(out, qs); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"div#x > .y", "tag", "id", "child", "class", `["x"]`} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("expected %q in %q", s, out.String())
		}
	}
	if _, err := queries("", ""); err == nil {
		t.Errorf("expected error without selector")
	}
}
