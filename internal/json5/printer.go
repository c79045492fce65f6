package json5

import (
	"strings"
)

const indentStep = "  "

// Print renders a tree in the dialect the parser accepts: 2-space indent,
// trailing comma after every element, one value per line, and a final
// newline. Printing the result of a parse of a printed tree reproduces it
// byte for byte.
func Print(root Node) string {
	var b strings.Builder
	switch n := root.(type) {
	case *Object:
		b.WriteString("{\n")
		writeObjectBody(&b, n, indentStep)
		b.WriteString("}\n")
	case *Array:
		b.WriteString("[\n")
		writeArrayBody(&b, n, indentStep)
		b.WriteString("]\n")
	case *Scalar:
		b.WriteString(scalarText(n))
		b.WriteString("\n")
	}
	return b.String()
}

func writeComment(b *strings.Builder, indent string, lines []string) {
	switch len(lines) {
	case 0:
	case 1:
		b.WriteString(indent)
		b.WriteString("/** ")
		b.WriteString(lines[0])
		b.WriteString(" */\n")
	default:
		b.WriteString(indent)
		b.WriteString("/**\n")
		for _, line := range lines {
			b.WriteString(indent)
			if line == "" {
				b.WriteString(" *\n")
				continue
			}
			b.WriteString(" * ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(indent)
		b.WriteString(" */\n")
	}
}

func keyText(obj *Object, key string) string {
	if obj.quoted[key] || !bareKeyRe.MatchString(key) {
		return quoteString(key)
	}
	return key
}

func scalarText(s *Scalar) string {
	if s.raw != "" {
		return s.raw
	}
	return formatLiteral(s.val)
}

func writeObjectBody(b *strings.Builder, obj *Object, indent string) {
	for _, k := range obj.keys {
		child := obj.children[k]
		writeComment(b, indent, child.Comment())
		b.WriteString(indent)
		b.WriteString(keyText(obj, k))
		switch n := child.(type) {
		case *Object:
			b.WriteString(": {\n")
			writeObjectBody(b, n, indent+indentStep)
			b.WriteString(indent)
			b.WriteString("},\n")
		case *Array:
			b.WriteString(": [\n")
			writeArrayBody(b, n, indent+indentStep)
			b.WriteString(indent)
			b.WriteString("],\n")
		case *Scalar:
			b.WriteString(": ")
			b.WriteString(scalarText(n))
			b.WriteString(",\n")
		}
	}
}

func writeArrayBody(b *strings.Builder, arr *Array, indent string) {
	for _, child := range arr.items {
		writeComment(b, indent, child.Comment())
		switch n := child.(type) {
		case *Object:
			b.WriteString(indent)
			b.WriteString("{\n")
			writeObjectBody(b, n, indent+indentStep)
			b.WriteString(indent)
			b.WriteString("},\n")
		case *Array:
			b.WriteString(indent)
			b.WriteString("[\n")
			writeArrayBody(b, n, indent+indentStep)
			b.WriteString(indent)
			b.WriteString("],\n")
		case *Scalar:
			b.WriteString(indent)
			b.WriteString(scalarText(n))
			b.WriteString(",\n")
		}
	}
}
