package soup

import (
	"strings"

	"github.com/niklasfasching/bouncer/css"
	"golang.org/x/net/html"
)

var _ interface {
	css.Node
	css.ClassIndexer
} = &Node{}

var disableable = map[string]bool{
	"button": true, "fieldset": true, "input": true, "optgroup": true,
	"option": true, "select": true, "textarea": true,
}

func (n *Node) IsElement() bool { return n != nil && n.Type == html.ElementNode }

func (n *Node) ParentElement() css.Node { return element(n.Parent, nil) }

func (n *Node) PreviousElementSibling() css.Node {
	return element(n.PrevSibling, func(n *html.Node) *html.Node { return n.PrevSibling })
}

func (n *Node) NextElementSibling() css.Node {
	return element(n.NextSibling, func(n *html.Node) *html.Node { return n.NextSibling })
}

func (n *Node) FirstElementChild() css.Node {
	return element(n.FirstChild, func(n *html.Node) *html.Node { return n.NextSibling })
}

func (n *Node) HasChildNodes() bool { return n.FirstChild != nil }

func (n *Node) TagName() string {
	if !n.IsElement() {
		return ""
	}
	return n.Data
}

func (n *Node) ID() string { return n.Attribute("id") }

func (n *Node) ClassName() string { return n.Attribute("class") }

func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) && a.Namespace == "" {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) TextContent() string { return n.Text() }

func (n *Node) Disabled() bool { return disableable[n.Data] && n.HasAttribute("disabled") }

func (n *Node) Checked() bool { return n.Data == "input" && n.HasAttribute("checked") }

func (n *Node) ElementByID(id string) css.Node {
	root := AsHTMLNode(n)
	for root.Parent != nil {
		root = root.Parent
	}
	var found *html.Node
	walk(root, func(c *html.Node) bool {
		if c.Type == html.ElementNode && AsNode(c).ID() == id {
			found = c
		}
		return found == nil
	})
	if found == nil {
		return nil
	}
	return AsNode(found)
}

func (n *Node) ElementsByTagName(tag string) []css.Node {
	return n.descendants(func(c *html.Node) bool { return tag == "*" || strings.EqualFold(c.Data, tag) })
}

func (n *Node) ElementsByClassName(name string) []css.Node {
	return n.descendants(func(c *html.Node) bool {
		for _, class := range strings.Fields(AsNode(c).ClassName()) {
			if class == name {
				return true
			}
		}
		return false
	})
}

func (n *Node) Contains(other css.Node) bool {
	o, ok := other.(*Node)
	if !ok || o == nil {
		return false
	}
	for c := AsHTMLNode(o); c != nil; c = c.Parent {
		if c == AsHTMLNode(n) {
			return true
		}
	}
	return false
}

// ComparePosition compares the paths from the document root to both nodes.
func (n *Node) ComparePosition(other css.Node) int {
	a, b := path(AsHTMLNode(n)), path(AsHTMLNode(other.(*Node)))
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		for s := a[i].NextSibling; s != nil; s = s.NextSibling {
			if s == b[i] {
				return -1
			}
		}
		return 1
	}
	return len(a) - len(b)
}

func (n *Node) descendants(match func(*html.Node) bool) []css.Node {
	ns := []css.Node{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(c *html.Node) bool {
			if c.Type == html.ElementNode && match(c) {
				ns = append(ns, AsNode(c))
			}
			return true
		})
	}
	return ns
}

// element returns the first element among n, next(n), next(next(n))...
// Without next only n itself is considered.
func element(n *html.Node, next func(*html.Node) *html.Node) css.Node {
	for ; n != nil; n = next(n) {
		if n.Type == html.ElementNode {
			return AsNode(n)
		}
		if next == nil {
			break
		}
	}
	return nil
}

// walk visits n and its descendants in document order until f returns false.
func walk(n *html.Node, f func(*html.Node) bool) bool {
	if !f(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, f) {
			return false
		}
	}
	return true
}

func path(n *html.Node) []*html.Node {
	p := []*html.Node{}
	for ; n != nil; n = n.Parent {
		p = append(p, n)
	}
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}
