package json5

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrDialect is wrapped by every parse failure. The dialect is narrow on
// purpose: a line the parser does not recognize means the file was edited
// outside the tool's control, and continuing would risk corrupting it.
var ErrDialect = errors.New("line does not match the pretty-printed JSON5 dialect")

const keyPattern = `(?:"([^"]*)"|'([^']*)'|([A-Za-z0-9_-]+))`

var (
	objOpenRe = regexp.MustCompile(`^\s*` + keyPattern + `: \{$`)
	arrOpenRe = regexp.MustCompile(`^\s*` + keyPattern + `: \[$`)
	rowRe     = regexp.MustCompile(`^\s*` + keyPattern + `: (.+),$`)
	oneLineRe = regexp.MustCompile(`^\s*/\*\*? (.*) \*/$`)
)

// Parse reads a pretty-printed JSON5 document. The root must be an object
// or an array opening on the first line. Errors wrap [ErrDialect] and are
// not recoverable; a malformed file must surface immediately.
func Parse(text string) (Node, error) {
	p := &parser{lines: strings.Split(text, "\n")}
	if len(p.lines) == 0 {
		return nil, p.fail("empty document")
	}

	var root Node
	var err error
	switch p.lines[0] {
	case "{":
		obj := NewObject()
		p.pos = 1
		err = p.objectBody(obj)
		root = obj
	case "[":
		arr := NewArray()
		p.pos = 1
		err = p.arrayBody(arr)
		root = arr
	default:
		return nil, p.fail("document must open with '{' or '['")
	}
	if err != nil {
		return nil, err
	}

	for ; p.pos < len(p.lines); p.pos++ {
		if trimmed(p.lines[p.pos]) != "" {
			return nil, p.fail("content after closing the root value")
		}
	}
	return root, nil
}

type parser struct {
	lines []string
	pos   int
}

func (p *parser) fail(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.pos < len(p.lines) {
		return fmt.Errorf("%w: line %d %q: %s", ErrDialect, p.pos+1, p.lines[p.pos], msg)
	}
	return fmt.Errorf("%w: line %d: %s", ErrDialect, p.pos+1, msg)
}

func (p *parser) eof() bool { return p.pos >= len(p.lines) }

// comment consumes an optional comment block before a value and returns
// its lines.
func (p *parser) comment() ([]string, error) {
	if p.eof() {
		return nil, nil
	}
	line := trimmed(p.lines[p.pos])

	if m := oneLineRe.FindStringSubmatch(p.lines[p.pos]); m != nil {
		p.pos++
		return []string{m[1]}, nil
	}

	if line != "/**" && line != "/*" {
		return nil, nil
	}
	p.pos++
	var lines []string
	for {
		if p.eof() {
			return nil, p.fail("unterminated comment block")
		}
		line = trimmed(p.lines[p.pos])
		p.pos++
		if line == "*/" {
			return lines, nil
		}
		closing := strings.HasSuffix(line, "*/")
		if closing {
			line = strings.TrimSpace(strings.TrimSuffix(line, "*/"))
		}
		if line == "*" {
			line = ""
		} else {
			line = strings.TrimPrefix(line, "* ")
		}
		lines = append(lines, line)
		if closing {
			return lines, nil
		}
	}
}

// key returns the submatch that captured the key, whether it was quoted.
func key(m []string) (string, bool) {
	if m[3] != "" {
		return m[3], false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

func (p *parser) objectBody(obj *Object) error {
	for {
		if p.eof() {
			return p.fail("unexpected end of file in object")
		}
		switch trimmed(p.lines[p.pos]) {
		case "}", "},":
			p.pos++
			return nil
		}

		comment, err := p.comment()
		if err != nil {
			return err
		}
		if p.eof() {
			return p.fail("unexpected end of file after comment")
		}
		line := p.lines[p.pos]

		addChild := func(name string, quoted bool, n Node) error {
			if obj.Has(name) {
				return p.fail("duplicate key %q", name)
			}
			n.SetComment(comment...)
			obj.SetNode(name, n)
			if quoted {
				obj.setQuoted(name)
			}
			return nil
		}

		if m := objOpenRe.FindStringSubmatch(line); m != nil {
			name, quoted := key(m)
			child := NewObject()
			if err := addChild(name, quoted, child); err != nil {
				return err
			}
			p.pos++
			if err := p.objectBody(child); err != nil {
				return err
			}
			continue
		}

		if m := arrOpenRe.FindStringSubmatch(line); m != nil {
			name, quoted := key(m)
			child := NewArray()
			if err := addChild(name, quoted, child); err != nil {
				return err
			}
			p.pos++
			if err := p.arrayBody(child); err != nil {
				return err
			}
			continue
		}

		if m := rowRe.FindStringSubmatch(line); m != nil {
			name, quoted := key(m)
			raw := m[4]
			val, err := parseLiteral(raw)
			if err != nil {
				return p.fail("%v", err)
			}
			if err := addChild(name, quoted, &Scalar{val: val, raw: raw}); err != nil {
				return err
			}
			p.pos++
			continue
		}

		return p.fail("unrecognized object row")
	}
}

func (p *parser) arrayBody(arr *Array) error {
	for {
		if p.eof() {
			return p.fail("unexpected end of file in array")
		}
		line := trimmed(p.lines[p.pos])
		switch line {
		case "]", "],":
			p.pos++
			return nil
		case "":
			p.pos++
			continue
		}

		comment, err := p.comment()
		if err != nil {
			return err
		}
		if p.eof() {
			return p.fail("unexpected end of file after comment")
		}
		line = trimmed(p.lines[p.pos])

		switch {
		case line == "{":
			child := NewObject()
			child.SetComment(comment...)
			arr.AppendNode(child)
			p.pos++
			if err := p.objectBody(child); err != nil {
				return err
			}
		case line == "[":
			child := NewArray()
			child.SetComment(comment...)
			arr.AppendNode(child)
			p.pos++
			if err := p.arrayBody(child); err != nil {
				return err
			}
		case strings.HasSuffix(line, ","):
			raw := strings.TrimSuffix(line, ",")
			val, err := parseLiteral(raw)
			if err != nil {
				return p.fail("%v", err)
			}
			n := &Scalar{val: val, raw: raw}
			n.SetComment(comment...)
			arr.AppendNode(n)
			p.pos++
		default:
			return p.fail("unrecognized array element")
		}
	}
}
