package css

import (
	"golang.org/x/exp/slices"
)

type queryFunc func(context Node) []Node

// seedPriority lists, most discriminative first, which tokens may seed a query.
func (e *Engine) seedPriority() []func(Token) bool {
	is := func(s Symbol) func(Token) bool { return func(t Token) bool { return t.Symbol == s } }
	namedTag := func(t Token) bool { return t.Symbol == Tag && t.Captures[0] != "*" }
	if e.config.IndexedClassLookup {
		return []func(Token) bool{is(ID), is(Class), namedTag, is(Attribute), is(Pseudo), is(Tag)}
	}
	return []func(Token) bool{is(ID), namedTag, is(Class), is(Attribute), is(Pseudo), is(Tag)}
}

// seedIndex returns the index of the last token of the highest priority in c[:limit].
func (e *Engine) seedIndex(c Chain, limit int) int {
	for _, matches := range e.seedPriority() {
		for i := limit - 1; i >= 0; i-- {
			if matches(c[i]) {
				return i
			}
		}
	}
	panic("chain without simple selector: " + c.String())
}

func (e *Engine) seedFromToken(t Token) (queryFunc, error) {
	switch {
	case t.Symbol == ID:
		id := t.Captures[0]
		return func(context Node) []Node {
			n := context.ElementByID(id)
			if n == nil || sameNode(n, context) || !context.Contains(n) {
				return nil
			}
			return []Node{n}
		}, nil
	case t.Symbol == Class && e.config.IndexedClassLookup:
		name, match := t.Captures[0], matcherFilter(classMatcher(t.Captures[0]))
		return func(context Node) []Node {
			if ci, ok := context.(ClassIndexer); ok {
				return ci.ElementsByClassName(name)
			}
			return match(context.ElementsByTagName("*"))
		}, nil
	case t.Symbol == Tag:
		name := t.Captures[0]
		return func(context Node) []Node { return context.ElementsByTagName(name) }, nil
	default:
		f, err := e.filterFromToken(t)
		if err != nil {
			return nil, err
		}
		return func(context Node) []Node { return f(context.ElementsByTagName("*")) }, nil
	}
}

// selectorFromChain compiles c into a top-down query. The seed token is searched in
// c[:limit]; tokens before it are checked backwards (ancestors and preceding siblings may
// lie outside the context), tokens after its compound are followed forwards.
// ordered reports whether the query always returns nodes in document order.
func (e *Engine) selectorFromChain(c Chain, limit int) (q queryFunc, ordered bool, err error) {
	pivot := e.seedIndex(c, limit)
	seed, err := e.seedFromToken(c[pivot])
	if err != nil {
		return nil, false, err
	}
	end := pivot + 1
	for end < len(c) && !c[end].Symbol.IsCombinator() {
		end++
	}
	local, err := e.filterFromChain(append(slices.Clip(c[:pivot]), c[pivot+1:end]...))
	if err != nil {
		return nil, false, err
	}
	anchors := func(context Node) []Node { return local(seed(context)) }
	if end == len(c) {
		return anchors, true, nil
	}
	next, err := e.continuation(c[end].Symbol, c[end+1:])
	if err != nil {
		return nil, false, err
	}
	return func(context Node) []Node { return next(anchors(context)) }, false, nil
}

// continuation returns the nodes reached from anchors via combinator s that match rest.
func (e *Engine) continuation(s Symbol, rest Chain) (func(anchors []Node) []Node, error) {
	end := 0
	for end < len(rest) && !rest[end].Symbol.IsCombinator() {
		end++
	}
	if s == Descendant {
		q, _, err := e.selectorFromChain(rest, end)
		if err != nil {
			return nil, err
		}
		return func(anchors []Node) []Node {
			out := []Node{}
			for _, a := range anchors {
				out = append(out, q(a)...)
			}
			return out
		}, nil
	}
	compound, err := e.filterFromChain(rest[:end])
	if err != nil {
		return nil, err
	}
	w := forward[s]
	step := func(anchors []Node) []Node { return compound(w.collect(anchors)) }
	if end == len(rest) {
		return step, nil
	}
	next, err := e.continuation(rest[end].Symbol, rest[end+1:])
	if err != nil {
		return nil, err
	}
	return func(anchors []Node) []Node { return next(step(anchors)) }, nil
}

// Selector is a compiled selector expression.
type Selector struct {
	expression string
	queries    []queryFunc
	ordered    bool
}

func (e *Engine) compileSelector(expression string) (*Selector, error) {
	cs, err := Tokenize(expression)
	if err != nil {
		return nil, err
	}
	s := &Selector{expression: expression, ordered: len(cs) == 1}
	for _, c := range cs {
		q, ordered, err := e.selectorFromChain(c, len(c))
		if err != nil {
			return nil, err
		}
		s.queries, s.ordered = append(s.queries, q), s.ordered && ordered
	}
	return s, nil
}

// Select returns the elements below context matching the selector in document order.
// Overlapping chains or nested anchors of a descendant combinator may yield duplicates.
func (s *Selector) Select(context Node) []Node {
	if s.ordered {
		return s.queries[0](context)
	}
	out := []Node{}
	for _, q := range s.queries {
		out = append(out, q(context)...)
	}
	slices.SortStableFunc(out, func(a, b Node) int { return a.ComparePosition(b) })
	return out
}

// First returns the first matching element below context or nil.
func (s *Selector) First(context Node) Node {
	if ns := s.Select(context); len(ns) != 0 {
		return ns[0]
	}
	return nil
}

func (s *Selector) String() string { return s.expression }
