package reqlog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// Token renders a raw byte sequence as a single space-delimited log field.
//
// If every rune in the sequence is printable, is not an ASCII space, and is
// neither a backslash nor a double quote, the bytes are emitted unchanged
// (bare form). Otherwise the value is wrapped in double quotes with `"` and
// `\` backslash-escaped, common control characters escaped by name, and any
// byte that is not part of valid UTF-8 rendered as \xHH.
//
// Token is pure and total: every input, including the empty sequence, has a
// defined rendering, and the input is never mutated.
func Token(b []byte) string {
	if bareSafe(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 2)
	sb.WriteByte('"')
	appendQuoted(&sb, b)
	sb.WriteByte('"')
	return sb.String()
}

// TokenString is Token for callers holding a string.
func TokenString(s string) string {
	return Token([]byte(s))
}

// bareSafe reports whether b may be emitted without quoting.
func bareSafe(b []byte) bool {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return false
		}
		if r == ' ' || r == '\\' || r == '"' || unicode.IsControl(r) {
			return false
		}
		i += size
	}
	return true
}

func appendQuoted(sb *strings.Builder, b []byte) {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			// Not valid UTF-8 at this position; escape the single
			// offending byte and resume scanning after it.
			writeHexByte(sb, b[i])
			i++
			continue
		}
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case unicode.IsControl(r):
			for _, c := range b[i : i+size] {
				writeHexByte(sb, c)
			}
		default:
			sb.Write(b[i : i+size])
		}
		i += size
	}
}

func writeHexByte(sb *strings.Builder, c byte) {
	sb.WriteByte('\\')
	sb.WriteByte('x')
	sb.WriteByte(upperhex[c>>4])
	sb.WriteByte(upperhex[c&0x0F])
}
