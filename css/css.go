// css implements a css selector compiler for document trees.
//
// Expressions compile into Selectors, which query a context node top down starting from
// the most discriminative token, and Filters, which narrow a list of candidates bottom up.
// An Engine owns the pseudo class registry and caches compiled expressions by their
// literal text.
package css

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

type Config struct {
	// IndexedClassLookup prefers class tokens over tag names as query seeds.
	// Hosts should implement ClassIndexer; others fall back to filtering all elements.
	IndexedClassLookup bool
}

type Engine struct {
	config Config

	mu              sync.RWMutex
	pseudoClasses   map[string]func(Node) bool
	pseudoFunctions map[string]func(string) (filterFunc, error)

	cacheMu   sync.Mutex
	selectors map[string]*Selector
	filters   map[string]*Filter
	group     singleflight.Group
}

// Filter is a compiled filter expression.
type Filter struct {
	expression string
	filter     filterFunc
}

type SyntaxError struct {
	Expression string
	Offset     int
	Reason     string
}

type UnsupportedPseudoError struct {
	Name     string
	Argument bool
}

var Default = New(Config{IndexedClassLookup: true})

func New(c Config) *Engine {
	e := &Engine{
		config:          c,
		pseudoClasses:   map[string]func(Node) bool{},
		pseudoFunctions: map[string]func(string) (filterFunc, error){},
		selectors:       map[string]*Selector{},
		filters:         map[string]*Filter{},
	}
	for name, match := range PseudoClasses {
		e.RegisterPseudo(name, match)
	}
	for name, compile := range PseudoFunctions {
		e.RegisterPseudoWithArgument(name, compile)
	}
	e.registerPseudoFunction("not", e.not)
	return e
}

func Compile(expression string) (*Selector, error) { return Default.CompileSelector(expression) }

func MustCompile(expression string) *Selector {
	s, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return s
}

func CompileFilter(expression string) (*Filter, error) { return Default.CompileFilter(expression) }

func Match(n Node, expression string) (bool, error) { return Default.Match(n, expression) }

func Select(context Node, expression string) ([]Node, error) {
	return Default.Select(context, expression)
}

func RegisterPseudo(name string, match func(Node) bool) { Default.RegisterPseudo(name, match) }

func RegisterPseudoWithArgument(name string, compile func(string) (func(Node) bool, error)) {
	Default.RegisterPseudoWithArgument(name, compile)
}

func ClearCache() { Default.ClearCache() }

// CompileSelector returns the cached selector for expression, compiling it on first use.
func (e *Engine) CompileSelector(expression string) (*Selector, error) {
	return cached(e, func() map[string]*Selector { return e.selectors }, "selector:", expression, e.compileSelector)
}

// CompileFilter returns the cached filter for expression, compiling it on first use.
func (e *Engine) CompileFilter(expression string) (*Filter, error) {
	return cached(e, func() map[string]*Filter { return e.filters }, "filter:", expression, e.compileFilter)
}

func (e *Engine) Match(n Node, expression string) (bool, error) {
	f, err := e.CompileFilter(expression)
	if err != nil {
		return false, err
	}
	return f.Match(n), nil
}

func (e *Engine) Select(context Node, expression string) ([]Node, error) {
	s, err := e.CompileSelector(expression)
	if err != nil {
		return nil, err
	}
	return s.Select(context), nil
}

// ClearCache drops all compiled expressions. Selectors and filters handed out before
// keep working.
func (e *Engine) ClearCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.selectors, e.filters = map[string]*Selector{}, map[string]*Filter{}
}

// CacheLen returns the number of cached selectors and filters.
func (e *Engine) CacheLen() int {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	return len(e.selectors) + len(e.filters)
}

// cached looks expression up in the cache and compiles it on a miss. Concurrent misses for the same
// expression share one compilation; failed compilations are not cached.
func cached[T any](e *Engine, cache func() map[string]T, kind, expression string, compile func(string) (T, error)) (T, error) {
	e.cacheMu.Lock()
	v, ok := cache()[expression]
	e.cacheMu.Unlock()
	if ok {
		return v, nil
	}
	x, err, _ := e.group.Do(kind+expression, func() (any, error) {
		v, err := compile(expression)
		if err != nil {
			return nil, err
		}
		e.cacheMu.Lock()
		defer e.cacheMu.Unlock()
		m := cache()
		if cached, ok := m[expression]; ok {
			return cached, nil
		}
		m[expression] = v
		return v, nil
	})
	if err != nil {
		return v, err
	}
	return x.(T), nil
}

func (e *Engine) compileFilter(expression string) (*Filter, error) {
	cs, err := Tokenize(expression)
	if err != nil {
		return nil, err
	}
	f, err := e.filterFromChains(cs)
	if err != nil {
		return nil, err
	}
	return &Filter{expression, f}, nil
}

// Filter returns the elements of ns accepted by the filter, in their original order.
func (f *Filter) Filter(ns []Node) []Node {
	out := []Node{}
	for _, n := range f.filter(ns) {
		if n != nil && n.IsElement() {
			out = append(out, n)
		}
	}
	return out
}

func (f *Filter) Match(n Node) bool {
	return n != nil && n.IsElement() && len(f.filter([]Node{n})) == 1
}

func (f *Filter) String() string { return f.expression }

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("css: syntax error at offset %d of %q: %s", e.Offset, e.Expression, e.Reason)
}

// Remainder returns the part of the expression that could not be parsed.
func (e *SyntaxError) Remainder() string { return e.Expression[e.Offset:] }

func (e *UnsupportedPseudoError) Error() string {
	if e.Argument {
		return fmt.Sprintf("css: unsupported pseudo: %q", ":"+e.Name+"()")
	}
	return fmt.Sprintf("css: unsupported pseudo: %q", ":"+e.Name)
}
