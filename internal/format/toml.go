package format

import (
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// TOML loads and serializes TOML documents as generic maps. Comments and
// key order are not preserved across a load/dump cycle, which is why edits
// compare against the post-load serialization before touching the file.
type TOML struct{}

func (TOML) Load(text string) (map[string]any, error) {
	doc := map[string]any{}
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}
	if err := toml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	return doc, nil
}

func (TOML) Dump(doc map[string]any) (string, error) {
	if len(doc) == 0 {
		return "", nil
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serialize toml: %w", err)
	}
	return ensureTrailingNewline(string(out)), nil
}

func (TOML) Empty() map[string]any {
	return map[string]any{}
}
