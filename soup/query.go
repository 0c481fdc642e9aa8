package soup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/niklasfasching/bouncer/css"
	"github.com/niklasfasching/bouncer/util"
	"golang.org/x/net/html"
)

func Parse(r io.Reader) (*Node, error) {
	htmlNode, err := html.Parse(r)
	return AsNode(htmlNode), err
}

func MustParse(r io.Reader) *Node {
	n, err := Parse(r)
	if err != nil {
		panic(err)
	}
	return n
}

func Load(ctx context.Context, client *http.Client, url string) (*Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return LoadReq(client, req)
}

func LoadReq(client *http.Client, req *http.Request) (*Node, error) {
	util.Debugf(req.Context(), "soup: loading %s", req.URL)
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: status: %d", req.URL, res.StatusCode)
	}
	return Parse(res.Body)
}

func (n *Node) First(s string) *Node { return n.FirstSel(css.MustCompile(s)) }
func (n *Node) FirstSel(s *css.Selector) *Node {
	if n == nil {
		return nil
	}
	if f := s.First(n); f != nil {
		return f.(*Node)
	}
	return nil
}

func (n *Node) All(s string) Nodes { return n.AllSel(css.MustCompile(s)) }
func (n *Node) AllSel(s *css.Selector) Nodes {
	if n == nil {
		return nil
	}
	return asNodes(s.Select(n))
}

// Is reports whether n matches the filter expression s.
func (n *Node) Is(s string) bool {
	ok, err := css.Match(n, s)
	if err != nil {
		panic(err)
	}
	return ok
}

func (n *Node) Text() string {
	var out strings.Builder
	appendText(&out, AsHTMLNode(n))
	return out.String()
}

func (n *Node) TrimmedText() string {
	return trimmed(n.Text())
}

func (n *Node) OuterHTML() string {
	if n == nil {
		return ""
	}
	var out strings.Builder
	if err := html.Render(&out, AsHTMLNode(n)); err != nil {
		panic(fmt.Sprintf("Could not render html: %s", err))
	}
	return out.String()
}

func (n *Node) HTML() string {
	if n == nil {
		return ""
	}
	var out strings.Builder
	for n := n.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&out, n); err != nil {
			panic(fmt.Sprintf("Could not render html: %s", err))
		}
	}
	return out.String()
}

func (n *Node) Attribute(key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (ns Nodes) Eq(i int) *Node {
	if i < 0 || i >= len(ns) {
		return nil
	}
	return ns[i]
}

func (ns Nodes) Len() int {
	return len(ns)
}

func (ns Nodes) Text(sep string) string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = n.Text()
	}
	return strings.Join(ss, sep)
}

func (ns Nodes) Attribute(key string) []string {
	as := make([]string, len(ns))
	for i, n := range ns {
		as[i] = n.Attribute(key)
	}
	return as
}

// Filter keeps the nodes matching the filter expression s.
func (ns Nodes) Filter(s string) Nodes {
	f, err := css.CompileFilter(s)
	if err != nil {
		panic(err)
	}
	cs := make([]css.Node, len(ns))
	for i, n := range ns {
		cs[i] = n
	}
	return asNodes(f.Filter(cs))
}

func (ns Nodes) First(s string) *Node { return ns.FirstSel(css.MustCompile(s)) }
func (ns Nodes) FirstSel(s *css.Selector) *Node {
	for _, n := range ns {
		if f := n.FirstSel(s); f != nil {
			return f
		}
	}
	return nil
}

func (ns Nodes) All(s string) Nodes { return ns.AllSel(css.MustCompile(s)) }
func (ns Nodes) AllSel(s *css.Selector) Nodes {
	all := Nodes{}
	for _, n := range ns {
		all = append(all, n.AllSel(s)...)
	}
	return all
}

func (ns Nodes) HTML() string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = n.OuterHTML()
	}
	return strings.Join(ss, "\n")
}
