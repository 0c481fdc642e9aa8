package css

// walk visits the relatives of a node: first(n), then next(r) for as long as follow is set.
type walk struct {
	first, next func(Node) Node
	follow      bool
}

// backward walks are used for matching: they move from a candidate towards its ancestors
// or preceding siblings.
var backward = map[Symbol]walk{
	Descendant:      {Node.ParentElement, Node.ParentElement, true},
	Child:           {Node.ParentElement, Node.ParentElement, false},
	AdjacentSibling: {Node.PreviousElementSibling, Node.PreviousElementSibling, false},
	GeneralSibling:  {Node.PreviousElementSibling, Node.PreviousElementSibling, true},
}

// forward walks are used for selecting: they move from an anchor towards its children or
// following siblings. Descendants are selected by recursion instead.
var forward = map[Symbol]walk{
	Child:           {Node.FirstElementChild, Node.NextElementSibling, true},
	AdjacentSibling: {Node.NextElementSibling, Node.NextElementSibling, false},
	GeneralSibling:  {Node.NextElementSibling, Node.NextElementSibling, true},
}

// each calls f for every relative of n until f returns false.
func (w walk) each(n Node, f func(Node) bool) {
	for r := w.first(n); r != nil; r = w.next(r) {
		if !f(r) || !w.follow {
			return
		}
	}
}

func combinatorFilter(w walk, relative filterFunc) filterFunc {
	return func(ns []Node) []Node {
		out, buf := []Node{}, make([]Node, 1)
		for _, n := range ns {
			if n == nil || !n.IsElement() {
				continue
			}
			w.each(n, func(r Node) bool {
				buf[0] = r
				if len(relative(buf)) != 0 {
					out = append(out, n)
					return false
				}
				return true
			})
		}
		return out
	}
}

// collect returns the relatives of all anchors, each relative once.
func (w walk) collect(anchors []Node) []Node {
	out, seen := []Node{}, map[any]bool{}
	for _, a := range anchors {
		w.each(a, func(r Node) bool {
			if k := nodeKey(r); !seen[k] {
				seen[k] = true
				out = append(out, r)
			}
			return true
		})
	}
	return out
}
