/*
https://www.w3.org/TR/2018/CR-selectors-3-20180130/#w3cselgrammar (subset)
*/
package css

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Symbol int

const (
	Tag Symbol = iota
	ID
	Class
	Attribute
	Pseudo
	Descendant
	Child
	AdjacentSibling
	GeneralSibling
)

// Token is a single simple selector or combinator of a chain.
// Captures are positional; optional trailing captures are omitted rather than empty:
//
//	tag        [name]                   "*" for the universal (or implicit) tag
//	id, class  [name]
//	attribute  [name] or [name, operator, value]
//	pseudo     [name] or [name, argument]
//	combinator []
type Token struct {
	Symbol   Symbol
	Lexeme   string
	Captures []string
}

// Chain is one comma-free sequence of compounds and combinators.
type Chain []Token

const eof = -1

var attributeOperators = []string{"=", "!=", "^=", "$=", "*=", "~=", "|="}

var combinatorSymbols = map[rune]Symbol{'>': Child, '+': AdjacentSibling, '~': GeneralSibling}

type stateFn func(*lexer) stateFn

type lexer struct {
	input  string
	index  int
	start  int
	width  int
	chains []Chain
	error  error
}

// Tokenize splits expression into its comma-separated chains.
// It either fails with a *SyntaxError or returns at least one non-empty chain.
func Tokenize(expression string) ([]Chain, error) {
	l := &lexer{input: strings.TrimSpace(expression), chains: []Chain{nil}}
	for state := lexCompound; state != nil; state = state(l) {
	}
	if l.error != nil {
		return nil, l.error
	}
	return l.chains, nil
}

func (s Symbol) IsCombinator() bool { return s >= Descendant }

func (s Symbol) String() string {
	switch s {
	case Tag:
		return "tag"
	case ID:
		return "id"
	case Class:
		return "class"
	case Attribute:
		return "attribute"
	case Pseudo:
		return "pseudo"
	case Descendant:
		return "descendant"
	case Child:
		return "child"
	case AdjacentSibling:
		return "adjacent-sibling"
	case GeneralSibling:
		return "general-sibling"
	default:
		panic(fmt.Errorf("bad symbol: %d", int(s)))
	}
}

func (l *lexer) next() rune {
	if l.index >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.index:])
	l.width = w
	l.index += l.width
	return r
}

func (l *lexer) peek() rune {
	if l.index >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.index:])
	return r
}

func (l *lexer) backup() {
	l.index -= l.width
}

func (l *lexer) emit(s Symbol, captures ...string) {
	chain := &l.chains[len(l.chains)-1]
	*chain = append(*chain, Token{s, l.input[l.start:l.index], captures})
	l.start = l.index
}

func (l *lexer) ignore() {
	l.start = l.index
}

func (l *lexer) acceptRun(f func(rune) bool) {
	for f(l.next()) {
	}
	l.backup()
}

func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.error = &SyntaxError{
		Expression: l.input,
		Offset:     l.start,
		Reason:     fmt.Sprintf(format, args...),
	}
	return nil
}

func (l *lexer) chainLen() int { return len(l.chains[len(l.chains)-1]) }

func lexCompound(l *lexer) stateFn {
	switch r := l.peek(); {
	case r == '*':
		l.next()
		l.emit(Tag, "*")
	case isNameStart(r) || r == '-':
		name, err := acceptIdentifier(l)
		if err != nil {
			return l.errorf("%s", err)
		}
		l.emit(Tag, name)
	case r == '#', r == '.', r == '[', r == ':':
		l.emit(Tag, "*")
	case r == eof && l.chainLen() == 0 && len(l.chains) == 1:
		return l.errorf("empty selector")
	case r == eof:
		return l.errorf("unexpected end of selector")
	default:
		return l.errorf("unexpected %q", string(r))
	}
	return lexSimple
}

func lexSimple(l *lexer) stateFn {
	switch l.next() {
	case '#':
		return lexID
	case '.':
		return lexClass
	case '[':
		return lexAttribute
	case ':':
		return lexPseudo
	default:
		l.backup()
		return lexCombinator
	}
}

func lexCombinator(l *lexer) stateFn {
	space := isWhitespace(l.peek())
	l.acceptRun(isWhitespace)
	switch r := l.next(); {
	case r == eof:
		return nil
	case r == ',':
		l.acceptRun(isWhitespace)
		l.ignore()
		l.chains = append(l.chains, nil)
		return lexCompound
	case r == '>', r == '+', r == '~':
		l.acceptRun(isWhitespace)
		l.emit(combinatorSymbols[r])
		return lexCompound
	case space:
		l.backup()
		l.emit(Descendant)
		return lexCompound
	default:
		l.backup()
		return l.errorf("unexpected %q", string(r))
	}
}

func lexID(l *lexer) stateFn {
	if !isNameChar(l.peek()) {
		return l.errorf("invalid starting char for id")
	}
	if err := acceptNameChars(l); err != nil {
		return l.errorf("%s", err)
	}
	l.emit(ID, Unescape(l.input[l.start+1:l.index]))
	return lexSimple
}

func lexClass(l *lexer) stateFn {
	if !isNameChar(l.peek()) {
		return l.errorf("invalid starting char for class")
	}
	if err := acceptNameChars(l); err != nil {
		return l.errorf("%s", err)
	}
	l.emit(Class, Unescape(l.input[l.start+1:l.index]))
	return lexSimple
}

func lexAttribute(l *lexer) stateFn {
	l.acceptRun(isWhitespace)
	nameStart := l.index
	if err := acceptNameChars(l); err != nil {
		return l.errorf("%s", err)
	}
	if l.peek() == ':' {
		l.next()
		if err := acceptNameChars(l); err != nil {
			return l.errorf("%s", err)
		}
	}
	if nameStart == l.index {
		return l.errorf("invalid attribute name")
	}
	name := Unescape(l.input[nameStart:l.index])
	l.acceptRun(isWhitespace)
	if l.peek() == ']' {
		l.next()
		l.emit(Attribute, name)
		return lexSimple
	}
	operator := ""
	for _, op := range attributeOperators {
		if strings.HasPrefix(l.input[l.index:], op) {
			operator = op
		}
	}
	if operator == "" {
		if l.peek() == eof {
			return l.errorf("unterminated attribute selector")
		}
		return l.errorf("invalid attribute operator %q", string(l.peek()))
	}
	l.index += len(operator)
	l.acceptRun(isWhitespace)
	value := ""
	if r := l.peek(); r == '"' || r == '\'' {
		valueStart := l.index
		if err := acceptString(l); err != nil {
			return l.errorf("%s", err)
		}
		value = Unescape(l.input[valueStart+1 : l.index-1])
		l.acceptRun(isWhitespace)
	} else {
		i := strings.IndexAny(l.input[l.index:], "]'\"")
		if i == -1 || l.input[l.index+i] != ']' {
			return l.errorf("unterminated attribute selector")
		}
		value = strings.TrimSpace(l.input[l.index : l.index+i])
		if value == "" {
			return l.errorf("missing attribute value")
		}
		l.index += i
		value = Unescape(value)
	}
	if l.next() != ']' {
		return l.errorf("unterminated attribute selector")
	}
	l.emit(Attribute, name, operator, value)
	return lexSimple
}

func lexPseudo(l *lexer) stateFn {
	if l.peek() == ':' {
		return l.errorf("invalid use of pseudo element")
	}
	name, err := acceptIdentifier(l)
	if err != nil {
		return l.errorf("%s", err)
	}
	name = strings.ToLower(name)
	if l.peek() != '(' {
		l.emit(Pseudo, name)
		return lexSimple
	}
	argumentStart := l.index + 1
	if err := acceptFunctionArguments(l); err != nil {
		return l.errorf("%s", err)
	}
	l.emit(Pseudo, name, strings.TrimSpace(l.input[argumentStart:l.index-1]))
	return lexSimple
}

// isNameStart checks whether rune r is a valid character as the start of a name
// [_a-z]|{nonascii}|{escape}
func isNameStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' || r == '\\' || r > 127
}

// isNameChar checks whether rune r is a valid character as a part of a name
// [_a-z0-9-]|{nonascii}|{escape}
func isNameChar(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' ||
		r == '_' || r == '-' || r == '\\' || r > 127
}

func isHexDigit(r rune) bool {
	return 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F' || '0' <= r && r <= '9'
}

func isWhitespace(r rune) bool { return r != eof && strings.ContainsRune(" \t\f\r\n", r) }

func acceptNameChars(l *lexer) error {
	for {
		switch r := l.next(); {
		case r == '\\':
			if l.peek() == eof {
				return fmt.Errorf("unterminated escape")
			} else if !isHexDigit(l.peek()) {
				l.next()
				continue
			}
			for i := 0; i < 6 && isHexDigit(l.peek()); i++ {
				l.next()
			}
			if unicode.IsSpace(l.peek()) {
				l.next()
			}
		case isNameChar(r):
		default:
			l.backup()
			return nil
		}
	}
}

func acceptIdentifier(l *lexer) (string, error) {
	start := l.index
	if l.peek() == '-' {
		l.next()
	}
	if !isNameStart(l.peek()) {
		return "", fmt.Errorf("invalid starting char for identifier")
	}
	if err := acceptNameChars(l); err != nil {
		return "", err
	}
	return Unescape(l.input[start:l.index]), nil
}

func acceptString(l *lexer) error {
	quote := l.next()
	if !strings.ContainsRune(`'"`, quote) {
		return fmt.Errorf("invalid quoting char for string: %s", string(quote))
	}
	for r := l.next(); r != quote; r = l.next() {
		switch {
		case r == eof:
			return fmt.Errorf("unterminated quoted string")
		case r == '\n', r == '\r', r == '\f':
			return fmt.Errorf("unescaped %q", string(r))
		case r == '\\':
			l.next()
		}
	}
	return nil
}

func acceptFunctionArguments(l *lexer) error {
	if l.next() != '(' {
		return fmt.Errorf("invalid start of function arguments")
	}
	for lvl := 1; lvl != 0; {
		switch l.next() {
		case eof:
			return fmt.Errorf("unterminated function arguments")
		case '(':
			lvl++
		case ')':
			lvl--
		case '"', '\'':
			l.backup()
			if err := acceptString(l); err != nil {
				return err
			}
		}
	}
	return nil
}
