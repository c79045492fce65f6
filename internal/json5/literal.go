package json5

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// parseLiteral decodes a single JSON5 value literal: quoted strings,
// numbers, true/false/null, and inline `{...}` / `[...]` collections.
// The whole input must be consumed.
func parseLiteral(s string) (any, error) {
	r := &litReader{s: s}
	v, err := r.value()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if !r.eof() {
		return nil, fmt.Errorf("trailing data %q in literal %q", r.rest(), s)
	}
	return v, nil
}

type litReader struct {
	s string
	i int
}

func (r *litReader) eof() bool    { return r.i >= len(r.s) }
func (r *litReader) rest() string { return r.s[r.i:] }

func (r *litReader) peek() byte {
	if r.eof() {
		return 0
	}
	return r.s[r.i]
}

func (r *litReader) skipSpace() {
	for !r.eof() && (r.s[r.i] == ' ' || r.s[r.i] == '\t') {
		r.i++
	}
}

func (r *litReader) value() (any, error) {
	r.skipSpace()
	if r.eof() {
		return nil, fmt.Errorf("empty literal")
	}
	switch c := r.peek(); {
	case c == '"' || c == '\'':
		return r.str()
	case c == '{':
		return r.inlineObject()
	case c == '[':
		return r.inlineArray()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return r.number()
	default:
		return r.word()
	}
}

func (r *litReader) str() (string, error) {
	quote := r.s[r.i]
	r.i++
	var b strings.Builder
	for {
		if r.eof() {
			return "", fmt.Errorf("unterminated string in %q", r.s)
		}
		c := r.s[r.i]
		switch {
		case c == quote:
			r.i++
			return b.String(), nil
		case c == '\\':
			r.i++
			if r.eof() {
				return "", fmt.Errorf("unterminated escape in %q", r.s)
			}
			e := r.s[r.i]
			r.i++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '0':
				b.WriteByte(0)
			case 'u':
				if r.i+4 > len(r.s) {
					return "", fmt.Errorf("short \\u escape in %q", r.s)
				}
				n, err := strconv.ParseUint(r.s[r.i:r.i+4], 16, 32)
				if err != nil {
					return "", fmt.Errorf("bad \\u escape in %q: %w", r.s, err)
				}
				r.i += 4
				b.WriteRune(rune(n))
			case 'x':
				if r.i+2 > len(r.s) {
					return "", fmt.Errorf("short \\x escape in %q", r.s)
				}
				n, err := strconv.ParseUint(r.s[r.i:r.i+2], 16, 8)
				if err != nil {
					return "", fmt.Errorf("bad \\x escape in %q: %w", r.s, err)
				}
				r.i += 2
				b.WriteByte(byte(n))
			default:
				// \\, \", \', \/ and any other escaped punctuation
				b.WriteByte(e)
			}
		default:
			r.i++
			b.WriteByte(c)
		}
	}
}

func (r *litReader) number() (any, error) {
	start := r.i
	for !r.eof() {
		c := r.s[r.i]
		if c == '+' || c == '-' || c == '.' ||
			(c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') ||
			(c >= 'A' && c <= 'F') || c == 'x' || c == 'X' {
			r.i++
			continue
		}
		break
	}
	text := r.s[start:r.i]
	if n, err := strconv.ParseInt(text, 0, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", text)
	}
	return f, nil
}

func (r *litReader) word() (any, error) {
	start := r.i
	for !r.eof() {
		c := r.s[r.i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '$' || c == '-' {
			r.i++
			continue
		}
		break
	}
	switch w := r.s[start:r.i]; w {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %q", w)
	}
}

func (r *litReader) inlineObject() (Members, error) {
	r.i++ // consume {
	m := Members{}
	for {
		r.skipSpace()
		if r.eof() {
			return nil, fmt.Errorf("unterminated inline object in %q", r.s)
		}
		if r.peek() == '}' {
			r.i++
			return m, nil
		}
		key, err := r.memberKey()
		if err != nil {
			return nil, err
		}
		r.skipSpace()
		if r.peek() != ':' {
			return nil, fmt.Errorf("missing ':' after key %q in %q", key, r.s)
		}
		r.i++
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		m = append(m, Member{Key: key, Val: v})
		r.skipSpace()
		if r.peek() == ',' {
			r.i++
		}
	}
}

func (r *litReader) memberKey() (string, error) {
	if c := r.peek(); c == '"' || c == '\'' {
		return r.str()
	}
	start := r.i
	for !r.eof() {
		c := r.s[r.i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '$' || c == '-' {
			r.i++
			continue
		}
		break
	}
	if start == r.i {
		return "", fmt.Errorf("missing key at %q", r.rest())
	}
	return r.s[start:r.i], nil
}

func (r *litReader) inlineArray() ([]any, error) {
	r.i++ // consume [
	out := []any{}
	for {
		r.skipSpace()
		if r.eof() {
			return nil, fmt.Errorf("unterminated inline array in %q", r.s)
		}
		if r.peek() == ']' {
			r.i++
			return out, nil
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		r.skipSpace()
		if r.peek() == ',' {
			r.i++
		}
	}
}

var bareKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// formatLiteral renders a value as a JSON5 literal. Strings are
// double-quoted, inline collections keep their member order.
func formatLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case string:
		return quoteString(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case Members:
		if len(t) == 0 {
			return "{}"
		}
		parts := make([]string, len(t))
		for i, kv := range t {
			key := kv.Key
			if !bareKeyRe.MatchString(key) {
				key = quoteString(key)
			}
			parts[i] = key + ": " + formatLiteral(kv.Val)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatLiteral(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		// Values reach the printer through normalize, so this covers only
		// types a caller never should pass.
		return fmt.Sprintf("%v", t)
	}
}

// quoteString renders s as a double-quoted literal, escaping only what the
// reader cannot take back verbatim.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else if r == utf8.RuneError {
				b.WriteString(`�`)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
