// Package json5 implements a comment-preserving document model for the
// pretty-printed JSON5 dialect used by Renovate-style configuration files.
//
// The dialect is deliberately narrow: 2-space indentation, one value per
// line, a trailing comma after every element, and `/** ... */` comment
// blocks attached to the key or element that follows them. Anything else
// is rejected at parse time rather than silently reshaped, so that a
// rewrite of an edited file diffs only on the intended change.
//
// Comments live directly on the tree nodes. Inserting or removing a node
// moves its comment with it; there is no positional comment table to keep
// in sync.
package json5

import (
	"slices"
	"strings"
)

// Node is a value in a parsed document: an [Object], an [Array] or a
// [Scalar]. Every node can carry an attached comment of one or more lines.
type Node interface {
	// Comment returns the raw comment lines attached to the node, without
	// the /** */ markers. Nil when the node has no comment.
	Comment() []string
	// SetComment replaces the attached comment. Passing no lines clears it.
	SetComment(lines ...string)
	// Plain returns the node's content as plain Go values (map[string]any,
	// []any, string, int64, float64, bool, nil), comments stripped.
	Plain() any
}

// Compile-time interface compliance.
var (
	_ Node = (*Scalar)(nil)
	_ Node = (*Object)(nil)
	_ Node = (*Array)(nil)
)

// Scalar holds a primitive value or an inline collection literal
// (a `{...}` or `[...]` printed on a single line).
type Scalar struct {
	comment []string

	// val is the decoded value: string, int64, float64, bool, nil,
	// Members (inline object) or []any (inline array).
	val any

	// raw is the literal text the value was parsed from. It is kept so an
	// untouched scalar reprints byte-for-byte (quote style, number base),
	// and dropped whenever the value is replaced.
	raw string
}

// NewScalar returns a Scalar holding v.
func NewScalar(v any) *Scalar { return &Scalar{val: normalize(v)} }

func (s *Scalar) Comment() []string          { return s.comment }
func (s *Scalar) SetComment(lines ...string) { s.comment = setComment(lines) }

// Value returns the decoded value.
func (s *Scalar) Value() any { return s.val }

// SetValue replaces the value. The original source text of the literal no
// longer applies and is discarded.
func (s *Scalar) SetValue(v any) {
	s.val = normalize(v)
	s.raw = ""
}

func (s *Scalar) Plain() any { return plainValue(s.val) }

// Member is one key/value pair of an inline object literal. Inline objects
// are ordered, like everything else in the dialect.
type Member struct {
	Key string
	Val any
}

// Members is an ordered inline object literal.
type Members []Member

// Object is an ordered mapping from string keys to child nodes. Insertion
// order is the printed order. Keys are unique.
type Object struct {
	comment  []string
	keys     []string
	children map[string]Node

	// quoted records keys that were quoted in the source, so an untouched
	// document keeps its quoting on reprint.
	quoted map[string]bool
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{children: map[string]Node{}}
}

func (o *Object) Comment() []string          { return o.comment }
func (o *Object) SetComment(lines ...string) { o.comment = setComment(lines) }

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in printed order.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.children[key]
	return ok
}

// Get returns the child node for key.
func (o *Object) Get(key string) (Node, bool) {
	n, ok := o.children[key]
	return n, ok
}

// Set stores a plain value under key, wrapping it in a Scalar unless it is
// already a Node. An existing key keeps its position; a new key appends.
// Returns the receiver for chaining.
func (o *Object) Set(key string, v any) *Object {
	o.SetNode(key, wrap(v))
	return o
}

// SetNode stores a node under key with the same position rules as Set.
func (o *Object) SetNode(key string, n Node) {
	if _, ok := o.children[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.children[key] = n
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.children[key]; !ok {
		return false
	}
	delete(o.children, key)
	i := slices.Index(o.keys, key)
	o.keys = slices.Delete(o.keys, i, i+1)
	delete(o.quoted, key)
	return true
}

func (o *Object) Plain() any {
	m := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		m[k] = o.children[k].Plain()
	}
	return m
}

func (o *Object) setQuoted(key string) {
	if o.quoted == nil {
		o.quoted = map[string]bool{}
	}
	o.quoted[key] = true
}

// Array is an ordered sequence of child nodes.
type Array struct {
	comment []string
	items   []Node
}

// NewArray returns an empty Array.
func NewArray() *Array { return &Array{} }

func (a *Array) Comment() []string          { return a.comment }
func (a *Array) SetComment(lines ...string) { a.comment = setComment(lines) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.items) }

// At returns the i-th element.
func (a *Array) At(i int) Node { return a.items[i] }

// Append adds a plain value (wrapped like Object.Set) at the end.
func (a *Array) Append(v any) { a.items = append(a.items, wrap(v)) }

// AppendNode adds a node at the end.
func (a *Array) AppendNode(n Node) { a.items = append(a.items, n) }

// Replace swaps the i-th element, keeping its position.
func (a *Array) Replace(i int, n Node) { a.items[i] = n }

// Remove deletes the i-th element.
func (a *Array) Remove(i int) { a.items = slices.Delete(a.items, i, i+1) }

func (a *Array) Plain() any {
	out := make([]any, len(a.items))
	for i, n := range a.items {
		out[i] = n.Plain()
	}
	return out
}

func setComment(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	return slices.Clone(lines)
}

// wrap converts a plain value into a Node. Maps and slices become inline
// literals; use NewObject/NewArray explicitly for block-form children.
func wrap(v any) Node {
	if n, ok := v.(Node); ok {
		return n
	}
	return NewScalar(v)
}

// normalize converts caller-supplied values into the parser's canonical
// types so that structural comparison does not depend on how a value was
// produced.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := make(Members, 0, len(t))
		for _, k := range keys {
			m = append(m, Member{Key: k, Val: normalize(t[k])})
		}
		return m
	case Members:
		m := make(Members, len(t))
		for i, kv := range t {
			m[i] = Member{Key: kv.Key, Val: normalize(kv.Val)}
		}
		return m
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// plainValue maps literal values to the Plain representation (Members
// become map[string]any).
func plainValue(v any) any {
	switch t := v.(type) {
	case Members:
		m := make(map[string]any, len(t))
		for _, kv := range t {
			m[kv.Key] = plainValue(kv.Val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports structural equality of two nodes, ignoring comments,
// key quoting and numeric representation (1 == 1.0).
func Equal(a, b Node) bool {
	return EqualValue(a.Plain(), b.Plain())
}

// EqualValue compares two plain values the way Equal does.
func EqualValue(a, b any) bool {
	a, b = plainValue(normalize(a)), plainValue(normalize(b))
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !EqualValue(v, w) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !EqualValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	case int64:
		return numEqual(float64(av), b)
	case float64:
		return numEqual(av, b)
	default:
		return a == b
	}
}

func numEqual(a float64, b any) bool {
	switch bv := b.(type) {
	case int64:
		return a == float64(bv)
	case float64:
		return a == bv
	default:
		return false
	}
}

// CommentEqual reports whether a node's comment equals the given lines.
func CommentEqual(n Node, lines []string) bool {
	return slices.Equal(n.Comment(), lines)
}

// trimmed returns the line with surrounding whitespace removed.
func trimmed(line string) string { return strings.TrimSpace(line) }
