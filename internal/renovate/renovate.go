// Package renovate edits the dependency-update configuration kept as a
// commented JSON5 document. Manager and rule entries are matched by their
// attached comment first, then by content, so re-running an automation
// replaces its own earlier entry instead of stacking duplicates.
package renovate

import (
	"slices"
	"sort"

	"github.com/dkw-au/mra/internal/json5"
)

const (
	managersKey = "customManagers"
	rulesKey    = "packageRules"
)

// Config wraps the parsed renovate document.
type Config struct {
	root *json5.Object
}

// Load wraps a parsed document root.
func Load(root *json5.Object) *Config {
	return &Config{root: root}
}

// Root returns the underlying document for serialization.
func (c *Config) Root() *json5.Object { return c.root }

// AddRegexManager inserts or replaces a custom manager. Identity is the
// attached comment when given, otherwise full structural equality of
// fields. A match is replaced in place, keeping list order; otherwise the
// manager is appended.
func (c *Config) AddRegexManager(fields map[string]any, comment ...string) {
	entry := buildEntry(fields, comment)
	list := c.list(managersKey, true)
	if i := managerIndex(list, fields, comment); i >= 0 {
		list.Replace(i, entry)
		return
	}
	list.AppendNode(entry)
}

// RemoveRegexManager deletes the manager matching fields or comment.
// A missing match is a no-op.
func (c *Config) RemoveRegexManager(fields map[string]any, comment ...string) {
	list := c.list(managersKey, false)
	if list == nil {
		return
	}
	if i := managerIndex(list, fields, comment); i >= 0 {
		list.Remove(i)
	}
}

// AddPackageRule inserts or replaces a package rule. Identity is decided
// in three tiers: exact comment match, then equality on matchKeys when
// given, then full structural equality.
func (c *Config) AddPackageRule(fields map[string]any, comment []string, matchKeys ...string) {
	entry := buildEntry(fields, comment)
	list := c.list(rulesKey, true)
	if i := ruleIndex(list, fields, comment, matchKeys); i >= 0 {
		list.Replace(i, entry)
		return
	}
	list.AppendNode(entry)
}

// RemovePackageRule deletes the rule matched by the same three-tier
// identity as AddPackageRule. A missing match is a no-op.
func (c *Config) RemovePackageRule(fields map[string]any, comment []string, matchKeys ...string) {
	list := c.list(rulesKey, false)
	if list == nil {
		return
	}
	if i := ruleIndex(list, fields, comment, matchKeys); i >= 0 {
		list.Remove(i)
	}
}

func (c *Config) list(key string, create bool) *json5.Array {
	if n, ok := c.root.Get(key); ok {
		if arr, ok := n.(*json5.Array); ok {
			return arr
		}
	}
	if !create {
		return nil
	}
	arr := json5.NewArray()
	c.root.SetNode(key, arr)
	return arr
}

func buildEntry(fields map[string]any, comment []string) *json5.Object {
	entry := json5.NewObject()
	if len(comment) > 0 {
		entry.SetComment(comment...)
	}
	for _, key := range sortedKeys(fields) {
		entry.Set(key, fields[key])
	}
	return entry
}

// managerIndex scans for a manager entry matching the comment, else for
// one structurally equal to fields. First match wins; manager lists are
// small, so a linear scan is fine.
func managerIndex(list *json5.Array, fields map[string]any, comment []string) int {
	for i := 0; i < list.Len(); i++ {
		if len(comment) > 0 && slices.Equal(entryComment(list.At(i)), comment) {
			return i
		}
		if len(fields) > 0 && subsetMatch(list.At(i), fields, sortedKeys(fields)) {
			return i
		}
	}
	return -1
}

func ruleIndex(list *json5.Array, fields map[string]any, comment []string, matchKeys []string) int {
	if len(comment) > 0 {
		for i := 0; i < list.Len(); i++ {
			if slices.Equal(entryComment(list.At(i)), comment) {
				return i
			}
		}
	}
	if len(matchKeys) > 0 {
		for i := 0; i < list.Len(); i++ {
			if subsetMatch(list.At(i), fields, matchKeys) {
				return i
			}
		}
		return -1
	}
	for i := 0; i < list.Len(); i++ {
		if fullMatch(list.At(i), fields) {
			return i
		}
	}
	return -1
}

// entryComment returns the comment identifying a list entry. Hand-written
// configs often put the comment inside the braces, above the entry's first
// key; when the entry object carries no comment of its own, that first-key
// comment is the identity.
func entryComment(n json5.Node) []string {
	if c := n.Comment(); len(c) > 0 {
		return c
	}
	obj, ok := n.(*json5.Object)
	if !ok || obj.Len() == 0 {
		return nil
	}
	first, _ := obj.Get(obj.Keys()[0])
	return first.Comment()
}

// subsetMatch reports whether the entry is an object carrying every given
// key with a value equal to the one in fields.
func subsetMatch(n json5.Node, fields map[string]any, keys []string) bool {
	obj, ok := n.(*json5.Object)
	if !ok {
		return false
	}
	for _, key := range keys {
		child, ok := obj.Get(key)
		if !ok {
			return false
		}
		if !json5.EqualValue(child.Plain(), fields[key]) {
			return false
		}
	}
	return true
}

// fullMatch requires the same key set and equal values.
func fullMatch(n json5.Node, fields map[string]any) bool {
	obj, ok := n.(*json5.Object)
	if !ok || obj.Len() != len(fields) {
		return false
	}
	return subsetMatch(n, fields, sortedKeys(fields))
}

func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
