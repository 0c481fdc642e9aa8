package css

import (
	"errors"
	"reflect"
	"testing"
)

type tokenizeTest struct {
	expression string
	chains     [][]Symbol
	captures   [][]string
}

var tokenizeTests = []tokenizeTest{
	{"a", [][]Symbol{{Tag}}, [][]string{{"a"}}},
	{"a, p", [][]Symbol{{Tag}, {Tag}}, [][]string{{"a"}, {"p"}}},
	{"  DIV  ", [][]Symbol{{Tag}}, [][]string{{"DIV"}}},
	{"*", [][]Symbol{{Tag}}, [][]string{{"*"}}},
	{"#foo", [][]Symbol{{Tag, ID}}, [][]string{{"*"}, {"foo"}}},
	{"a.b.c", [][]Symbol{{Tag, Class, Class}}, [][]string{{"a"}, {"b"}, {"c"}}},
	{"a[href]", [][]Symbol{{Tag, Attribute}}, [][]string{{"a"}, {"href"}}},
	{"a[href^=#]", [][]Symbol{{Tag, Attribute}}, [][]string{{"a"}, {"href", "^=", "#"}}},
	{`a[href^="#"]`, [][]Symbol{{Tag, Attribute}}, [][]string{{"a"}, {"href", "^=", "#"}}},
	{`a[href^='#']`, [][]Symbol{{Tag, Attribute}}, [][]string{{"a"}, {"href", "^=", "#"}}},
	{`a[ href ^= "#" ]`, [][]Symbol{{Tag, Attribute}}, [][]string{{"a"}, {"href", "^=", "#"}}},
	{`[xml:lang|=en]`, [][]Symbol{{Tag, Attribute}}, [][]string{{"*"}, {"xml:lang", "|=", "en"}}},
	{`[title!="a]b"]`, [][]Symbol{{Tag, Attribute}}, [][]string{{"*"}, {"title", "!=", "a]b"}}},
	{"li:First-Child", [][]Symbol{{Tag, Pseudo}}, [][]string{{"li"}, {"first-child"}}},
	{`p:contains( "a (b)" )`, [][]Symbol{{Tag, Pseudo}}, [][]string{{"p"}, {"contains", `"a (b)"`}}},
	{":not(a, :not(b))", [][]Symbol{{Tag, Pseudo}}, [][]string{{"*"}, {"not", "a, :not(b)"}}},
	{"a b", [][]Symbol{{Tag, Descendant, Tag}}, [][]string{{"a"}, nil, {"b"}}},
	{"a>b", [][]Symbol{{Tag, Child, Tag}}, [][]string{{"a"}, nil, {"b"}}},
	{"a + b ~ c", [][]Symbol{{Tag, AdjacentSibling, Tag, GeneralSibling, Tag}}, [][]string{{"a"}, nil, {"b"}, nil, {"c"}}},
	{"a .b", [][]Symbol{{Tag, Descendant, Tag, Class}}, [][]string{{"a"}, nil, {"*"}, {"b"}}},
	{`#foo\.bar`, [][]Symbol{{Tag, ID}}, [][]string{{"*"}, {"foo.bar"}}},
	{`.\31 23`, [][]Symbol{{Tag, Class}}, [][]string{{"*"}, {"123"}}},
}

func TestTokenize(t *testing.T) {
	for _, tt := range tokenizeTests {
		chains, err := Tokenize(tt.expression)
		if err != nil {
			t.Errorf("%q: unexpected error: %s", tt.expression, err)
			continue
		}
		symbols, captures := [][]Symbol{}, [][]string{}
		for _, c := range chains {
			ss := []Symbol{}
			for _, tok := range c {
				ss = append(ss, tok.Symbol)
				if tok.Symbol.IsCombinator() {
					captures = append(captures, nil)
				} else {
					captures = append(captures, tok.Captures)
				}
			}
			symbols = append(symbols, ss)
		}
		if !reflect.DeepEqual(symbols, tt.chains) {
			t.Errorf("%q: symbols\ngot:\n\t%v\nexpected:\n\t%v", tt.expression, symbols, tt.chains)
		}
		if !reflect.DeepEqual(captures, tt.captures) {
			t.Errorf("%q: captures\ngot:\n\t%q\nexpected:\n\t%q", tt.expression, captures, tt.captures)
		}
	}
}

func TestTokenizeLexemes(t *testing.T) {
	chains, err := Tokenize(`div#x > a[href^=#]:not(.y)`)
	if err != nil {
		t.Fatal(err)
	}
	lexemes := []string{}
	for _, tok := range chains[0] {
		lexemes = append(lexemes, tok.Lexeme)
	}
	expected := []string{"div", "#x", " > ", "a", "[href^=#]", ":not(.y)"}
	if !reflect.DeepEqual(lexemes, expected) {
		t.Errorf("got %q, expected %q", lexemes, expected)
	}
	if chains, _ := Tokenize(".y"); chains[0][0].Lexeme != "" || chains[0][0].Captures[0] != "*" {
		t.Errorf("expected implicit universal tag, got %#v", chains[0][0])
	}
}

type syntaxErrorTest struct {
	expression string
	offset     int
	remainder  string
}

var syntaxErrorTests = []syntaxErrorTest{
	{"", 0, ""},
	{"   ", 0, ""},
	{"a[href", 1, "[href"},
	{"a[href=", 1, "[href="},
	{"a[href=]", 1, "[href=]"},
	{`a[href="x]`, 1, `[href="x]`},
	{"a[href%x]", 1, "[href%x]"},
	{"a >", 3, ""},
	{"a,", 2, ""},
	{"a, , b", 3, ", b"},
	{"> a", 0, "> a"},
	{"a::before", 1, "::before"},
	{"a:not(b", 1, ":not(b"},
	{"a#", 1, "#"},
	{"a.", 1, "."},
	{"a{}", 1, "{}"},
	{`a\`, 0, `a\`},
	{`a.b\`, 1, `.b\`},
	{`a#b\`, 1, `#b\`},
	{`a:b\`, 1, `:b\`},
	{`a[b\`, 1, `[b\`},
}

func TestTokenizeSyntaxErrors(t *testing.T) {
	for _, tt := range syntaxErrorTests {
		_, err := Tokenize(tt.expression)
		se := &SyntaxError{}
		if !errors.As(err, &se) {
			t.Errorf("%q: expected SyntaxError, got %#v", tt.expression, err)
			continue
		}
		if se.Offset != tt.offset || se.Remainder() != tt.remainder {
			t.Errorf("%q: got offset %d (%q), expected %d (%q): %s",
				tt.expression, se.Offset, se.Remainder(), tt.offset, tt.remainder, se)
		}
	}
}

func TestChainString(t *testing.T) {
	for expression, expected := range map[string]string{
		"a":                   "a",
		".b":                  ".b",
		"* > .b":              "* > .b",
		"a[href^=#]":          `a[href^="#"]`,
		"div  >  p:not(.x)":   "div > p:not(.x)",
		`#foo\.bar ~ [x='"']`: `#foo\.bar ~ [x="\""]`,
		"a b + c":             "a b + c",
	} {
		chains, err := Tokenize(expression)
		if err != nil {
			t.Errorf("%q: %s", expression, err)
			continue
		}
		if actual := chains[0].String(); actual != expected {
			t.Errorf("%q: got %q, expected %q", expression, actual, expected)
		}
		if reparsed, err := Tokenize(chains[0].String()); err != nil || reparsed[0].String() != expected {
			t.Errorf("%q: bad roundtrip: %v %s", expression, reparsed, err)
		}
	}
}

func TestSymbol(t *testing.T) {
	for s := Tag; s <= GeneralSibling; s++ {
		if s.IsCombinator() != (s >= Descendant) {
			t.Errorf("%s: bad IsCombinator", s)
		}
	}
	if Child.String() != "child" || Attribute.String() != "attribute" {
		t.Errorf("bad symbol names: %s %s", Child, Attribute)
	}
}
