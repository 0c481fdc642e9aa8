package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/niklasfasching/bouncer/css"
)

type query struct {
	Name     string
	Selector *css.Selector
}

// readRecipe reads a yaml mapping of query names to selector expressions. Queries keep
// the order of the file.
func readRecipe(path string) ([]query, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseRecipe(bs)
}

func parseRecipe(bs []byte) ([]query, error) {
	ms := yaml.MapSlice{}
	if err := yaml.Unmarshal(bs, &ms); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	qs := make([]query, 0, len(ms))
	for _, item := range ms {
		name, expr := fmt.Sprint(item.Key), ""
		switch v := item.Value.(type) {
		case string:
			expr = v
		default:
			return nil, fmt.Errorf("query %q: expected selector string, got %T", name, item.Value)
		}
		s, err := css.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", name, err)
		}
		qs = append(qs, query{name, s})
	}
	return qs, nil
}
