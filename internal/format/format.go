// Package format provides the per-format load/serialize pairs that plug
// into the scoped edit lifecycle. The structured formats delegate to
// libraries tuned for round-trip fidelity (stable key order, preserved
// comments where the library supports them); the JSON5 dialect has its own
// comment-preserving model in internal/json5.
//
// Every adapter returns an empty serialization for an empty tree, so the
// edit layer can tell "nothing to write" apart from "write an empty file".
// Dump must be deterministic: Dump(Load(Dump(t))) == Dump(t). The edit
// layer relies on this to use the post-load serialization as the
// change-detection baseline.
package format

import (
	"strings"
)

// Text treats the whole file as one opaque string. The content is boxed
// in a pointer so an edit body can replace it.
type Text struct{}

// Load returns the text unchanged.
func (Text) Load(text string) (*string, error) { return &text, nil }

// Dump returns the content unchanged.
func (Text) Dump(content *string) (string, error) {
	if content == nil {
		return "", nil
	}
	return *content, nil
}

// Empty returns an empty content box.
func (Text) Empty() *string { return new(string) }

// ensureTrailingNewline appends a final newline when content is non-empty
// and does not end with one.
func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
