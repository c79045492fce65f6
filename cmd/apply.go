// apply.go bridges the generic edit lifecycle to commands that dispatch
// on a file's format at runtime. The tree is handed to the body as `any`;
// bodies type-switch on the adapter's tree type.

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	ini "gopkg.in/ini.v1"

	"github.com/dkw-au/mra/internal/edit"
	"github.com/dkw-au/mra/internal/format"
	"github.com/dkw-au/mra/internal/json5"
)

type fileFormat int

const (
	formatText fileFormat = iota
	formatYAML
	formatTOML
	formatINI
	formatJSON5
)

// detectFormat picks the adapter for a path by extension. Unknown
// extensions fall back to plain text.
func detectFormat(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".toml":
		return formatTOML
	case ".ini", ".cfg":
		return formatINI
	case ".json5", ".json":
		return formatJSON5
	default:
		return formatText
	}
}

// applyAny runs body over path's parsed tree, whatever its format.
func applyAny(ctx context.Context, path string, opts edit.Options, body func(tree any) error) (edit.Result, error) {
	switch detectFormat(path) {
	case formatYAML:
		return edit.Apply(ctx, path, format.YAML{}, opts,
			func(doc *format.YAMLDocument) error { return body(doc) })
	case formatTOML:
		return edit.Apply(ctx, path, format.TOML{}, opts,
			func(doc map[string]any) error { return body(doc) })
	case formatINI:
		return edit.Apply(ctx, path, format.INI{}, opts,
			func(f *ini.File) error { return body(f) })
	case formatJSON5:
		return edit.Apply(ctx, path, format.JSON5{}, opts,
			func(obj *json5.Object) error { return body(obj) })
	default:
		return edit.Apply(ctx, path, format.Text{}, opts,
			func(content *string) error { return body(content) })
	}
}

// reportResult prints a one-line outcome for an edit.
func reportResult(path string, res edit.Result) {
	switch res.Status {
	case edit.Committed:
		if res.Changed || res.Reformatted {
			fmt.Fprintf(out, "%s: written\n", path)
		} else {
			fmt.Fprintf(out, "%s: rewritten (unchanged)\n", path)
		}
	case edit.Skipped:
		if res.Changed || res.Diff != "" {
			fmt.Fprintf(out, "%s: preview only\n", path)
		} else {
			fmt.Fprintf(out, "%s: unchanged\n", path)
		}
	case edit.Failed:
		fmt.Fprintf(out, "%s: failed\n", path)
	}
}
