package css

import (
	"strings"

	"golang.org/x/exp/slices"
)

type filterFunc func([]Node) []Node

// attributeMatchers compare the value v of an attribute with the selector argument a.
var attributeMatchers = map[string]func(v, a string) bool{
	"=":  func(v, a string) bool { return v == a },
	"!=": func(v, a string) bool { return v != a },
	"^=": strings.HasPrefix,
	"$=": strings.HasSuffix,
	"*=": strings.Contains,
	"~=": func(v, a string) bool { return slices.Contains(strings.Fields(v), a) },
	"|=": func(v, a string) bool {
		v, a = strings.ToLower(v), strings.ToLower(a)
		return v == a || strings.HasPrefix(v, a+"-")
	},
}

func identity(ns []Node) []Node { return ns }

func matcherFilter(match func(Node) bool) filterFunc {
	return func(ns []Node) []Node {
		out := []Node{}
		for _, n := range ns {
			if n != nil && n.IsElement() && match(n) {
				out = append(out, n)
			}
		}
		return out
	}
}

// composeFilters applies fs in order and stops as soon as nothing is left.
func composeFilters(fs []filterFunc) filterFunc {
	if len(fs) == 1 {
		return fs[0]
	}
	return func(ns []Node) []Node {
		for _, f := range fs {
			if ns = f(ns); len(ns) == 0 {
				break
			}
		}
		return ns
	}
}

// filterFromChain compiles c right to left: the compound after the right-most combinator
// narrows the candidates, then the combinator keeps the candidates that have a relative
// accepted by the filter compiled from everything before it.
func (e *Engine) filterFromChain(c Chain) (filterFunc, error) {
	if len(c) == 0 {
		return identity, nil
	}
	i := len(c) - 1
	for ; i >= 0 && !c[i].Symbol.IsCombinator(); i-- {
	}
	fs := []filterFunc{}
	for _, t := range c[i+1:] {
		f, err := e.filterFromToken(t)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if i >= 0 {
		relative, err := e.filterFromChain(c[:i])
		if err != nil {
			return nil, err
		}
		fs = append(fs, combinatorFilter(backward[c[i].Symbol], relative))
	}
	return composeFilters(fs), nil
}

// filterFromChains keeps the candidates accepted by any of the chains, in input order.
func (e *Engine) filterFromChains(cs []Chain) (filterFunc, error) {
	fs := make([]filterFunc, len(cs))
	for i, c := range cs {
		f, err := e.filterFromChain(c)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	if len(fs) == 1 {
		return fs[0], nil
	}
	return func(ns []Node) []Node {
		wanted := map[any]bool{}
		for _, f := range fs {
			for _, n := range f(ns) {
				wanted[nodeKey(n)] = true
			}
		}
		return matcherFilter(func(n Node) bool { return wanted[nodeKey(n)] })(ns)
	}, nil
}

func (e *Engine) filterFromToken(t Token) (filterFunc, error) {
	switch t.Symbol {
	case Tag:
		return matcherFilter(tagMatcher(t.Captures[0])), nil
	case ID:
		id := t.Captures[0]
		return matcherFilter(func(n Node) bool { return n.ID() == id }), nil
	case Class:
		return matcherFilter(classMatcher(t.Captures[0])), nil
	case Attribute:
		return matcherFilter(attributeMatcher(t.Captures)), nil
	case Pseudo:
		return e.pseudoFilter(t.Captures)
	case Descendant, Child, AdjacentSibling, GeneralSibling:
		panic("combinator token in compound: " + t.Symbol.String())
	default:
		panic("unhandled symbol: " + t.Symbol.String())
	}
}

func tagMatcher(name string) func(Node) bool {
	if name == "*" {
		return func(Node) bool { return true }
	}
	return func(n Node) bool { return strings.EqualFold(n.TagName(), name) }
}

func classMatcher(name string) func(Node) bool {
	return func(n Node) bool {
		for _, c := range strings.Fields(n.ClassName()) {
			if c == name {
				return true
			}
		}
		return false
	}
}

func attributeMatcher(captures []string) func(Node) bool {
	name := captures[0]
	if len(captures) == 1 {
		return func(n Node) bool { return n.HasAttribute(name) }
	}
	match, argument := attributeMatchers[captures[1]], captures[2]
	if match == nil {
		panic("invalid attribute operator: " + captures[1])
	}
	return func(n Node) bool {
		v, ok := n.GetAttribute(name)
		return ok && match(v, argument)
	}
}
