package format

import (
	"fmt"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// YAMLDocument is an ordered YAML mapping plus the comments captured while
// decoding it. Mutating helpers keep Root and Comments in sync so a dump
// reproduces the document with its commentary intact.
type YAMLDocument struct {
	Root     yaml.MapSlice
	Comments yaml.CommentMap
}

// YAML loads and serializes YAML documents preserving key order and
// comments.
type YAML struct{}

func (YAML) Load(text string) (*YAMLDocument, error) {
	doc := &YAMLDocument{Comments: yaml.CommentMap{}}
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}
	err := yaml.UnmarshalWithOptions([]byte(text), &doc.Root,
		yaml.UseOrderedMap(), yaml.CommentToMap(doc.Comments))
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return doc, nil
}

func (YAML) Dump(doc *YAMLDocument) (string, error) {
	if doc == nil || len(doc.Root) == 0 {
		return "", nil
	}
	out, err := yaml.MarshalWithOptions(doc.Root,
		yaml.Indent(2), yaml.IndentSequence(true),
		yaml.UseLiteralStyleIfMultiline(true),
		yaml.WithComment(doc.Comments))
	if err != nil {
		return "", fmt.Errorf("serialize yaml: %w", err)
	}
	return ensureTrailingNewline(string(out)), nil
}

func (YAML) Empty() *YAMLDocument {
	return &YAMLDocument{Comments: yaml.CommentMap{}}
}

// Get returns the value stored under the nested key path.
func (d *YAMLDocument) Get(keys ...string) (any, bool) {
	var cur any = d.Root
	for _, k := range keys {
		ms, ok := cur.(yaml.MapSlice)
		if !ok {
			return nil, false
		}
		cur, ok = mapSliceGet(ms, k)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores val under the nested key path, creating intermediate mappings
// as needed. Existing keys keep their position.
func (d *YAMLDocument) Set(val any, keys ...string) {
	d.Root = mapSliceSet(d.Root, val, keys)
}

// Delete removes the nested key path. Missing keys are a no-op.
func (d *YAMLDocument) Delete(keys ...string) {
	d.Root = mapSliceDelete(d.Root, keys)
}

// SetEOLComment attaches an end-of-line comment at the given comment path.
// Pass an empty text to clear a previous comment.
func (d *YAMLDocument) SetEOLComment(path, text string) {
	if d.Comments == nil {
		d.Comments = yaml.CommentMap{}
	}
	if text == "" {
		delete(d.Comments, path)
		return
	}
	d.Comments[path] = []*yaml.Comment{yaml.LineComment(" " + text)}
}

// CommentPath builds a comment-map key from mapping keys and sequence
// indexes, e.g. CommentPath("repos", 0, "hooks") -> "$.repos[0].hooks".
func CommentPath(segments ...any) string {
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range segments {
		switch s := seg.(type) {
		case string:
			b.WriteString(".")
			b.WriteString(s)
		case int:
			fmt.Fprintf(&b, "[%d]", s)
		default:
			panic(fmt.Sprintf("comment path segment %T", seg))
		}
	}
	return b.String()
}

func mapSliceGet(ms yaml.MapSlice, key string) (any, bool) {
	for _, item := range ms {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value, true
		}
	}
	return nil, false
}

func mapSliceSet(ms yaml.MapSlice, val any, keys []string) yaml.MapSlice {
	if len(keys) == 0 {
		return ms
	}
	k := keys[0]
	for i, item := range ms {
		ik, ok := item.Key.(string)
		if !ok || ik != k {
			continue
		}
		if len(keys) == 1 {
			ms[i].Value = val
			return ms
		}
		sub, _ := item.Value.(yaml.MapSlice)
		ms[i].Value = mapSliceSet(sub, val, keys[1:])
		return ms
	}
	if len(keys) == 1 {
		return append(ms, yaml.MapItem{Key: k, Value: val})
	}
	return append(ms, yaml.MapItem{
		Key:   k,
		Value: mapSliceSet(yaml.MapSlice{}, val, keys[1:]),
	})
}

func mapSliceDelete(ms yaml.MapSlice, keys []string) yaml.MapSlice {
	if len(keys) == 0 {
		return ms
	}
	k := keys[0]
	for i, item := range ms {
		ik, ok := item.Key.(string)
		if !ok || ik != k {
			continue
		}
		if len(keys) == 1 {
			return append(ms[:i], ms[i+1:]...)
		}
		if sub, ok := item.Value.(yaml.MapSlice); ok {
			ms[i].Value = mapSliceDelete(sub, keys[1:])
		}
		return ms
	}
	return ms
}
