// https://drafts.csswg.org/cssom/#common-serializing-idioms
package css

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func EscapeIdentifier(unescaped string) string {
	var b strings.Builder
	for i, r := range unescaped {
		switch {
		case r == '\u0000':
			b.WriteRune('�')
		case r >= '\u0001' && r <= '\u001F', r == '\u007F',
			i == 0 && r >= '0' && r <= '9',
			i == 1 && r >= '0' && r <= '9' && unescaped[0] == '-':
			b.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case i == 0 && len(unescaped) == 1 && r == '-':
			b.WriteString(`\-`)
		case r == '-' || r == '_' || r >= '\u0080' ||
			'0' <= r && r <= '9' || 'A' <= r && r <= 'Z' || 'a' <= r && r <= 'z':
			b.WriteRune(r)
		default:
			b.WriteString(`\` + string(r))
		}
	}
	return b.String()
}

func EscapeString(unescaped string) string {
	var b strings.Builder
	for _, r := range unescaped {
		switch {
		case r == '\u0000':
			b.WriteRune('�')
		case r >= '\u0001' && r <= '\u001F', r == '\u007F':
			b.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case r == '"' || r == '\\':
			b.WriteString(`\` + string(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape decodes css escapes: `\` followed by up to 6 hex digits (and one optional
// whitespace) or by any other single character.
func Unescape(escaped string) string {
	if !strings.ContainsAny(escaped, "\\�") {
		return escaped
	}
	var b strings.Builder
	for i := 0; i < len(escaped); {
		r, w := utf8.DecodeRuneInString(escaped[i:])
		i += w
		switch {
		case r == '�':
			b.WriteRune('\u0000')
		case r == '\\' && i < len(escaped) && !isHexDigit(rune(escaped[i])):
			r, w := utf8.DecodeRuneInString(escaped[i:])
			b.WriteRune(r)
			i += w
		case r == '\\' && i < len(escaped):
			j := i
			for ; j < i+6 && j < len(escaped) && isHexDigit(rune(escaped[j])); j++ {
			}
			v, _ := strconv.ParseUint(escaped[i:j], 16, 32)
			b.WriteRune(rune(v))
			if i = j; i < len(escaped) && unicode.IsSpace(rune(escaped[i])) {
				i++
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// String renders t in canonical form, e.g. `[href^="#"]` for `[href^=#]`.
func (t Token) String() string {
	switch t.Symbol {
	case Tag:
		if t.Captures[0] == "*" {
			return "*"
		}
		return EscapeIdentifier(t.Captures[0])
	case ID:
		return "#" + EscapeIdentifier(t.Captures[0])
	case Class:
		return "." + EscapeIdentifier(t.Captures[0])
	case Attribute:
		if len(t.Captures) == 1 {
			return "[" + EscapeIdentifier(t.Captures[0]) + "]"
		}
		return "[" + EscapeIdentifier(t.Captures[0]) + t.Captures[1] + `"` + EscapeString(t.Captures[2]) + `"]`
	case Pseudo:
		if len(t.Captures) == 1 {
			return ":" + EscapeIdentifier(t.Captures[0])
		}
		return ":" + EscapeIdentifier(t.Captures[0]) + "(" + t.Captures[1] + ")"
	case Descendant:
		return " "
	case Child:
		return " > "
	case AdjacentSibling:
		return " + "
	case GeneralSibling:
		return " ~ "
	default:
		panic("unhandled symbol: " + t.Symbol.String())
	}
}

func (c Chain) String() string {
	var b strings.Builder
	for i, t := range c {
		if t.Symbol == Tag && t.Captures[0] == "*" && i+1 < len(c) && !c[i+1].Symbol.IsCombinator() {
			continue
		}
		b.WriteString(t.String())
	}
	return b.String()
}
