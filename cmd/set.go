// set.go implements `mra set`: set a value in a structured file through
// the scoped edit lifecycle, so comments and formatting survive.

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	ini "gopkg.in/ini.v1"

	"github.com/dkw-au/mra/internal/format"
	"github.com/dkw-au/mra/internal/json5"
	"github.com/dkw-au/mra/internal/log"
)

var setCmd = &cobra.Command{
	Use:   "set <file> <key> <value>",
	Short: "Set a value in a structured file",
	Long: `Set the value under a dotted key path, creating intermediate
mappings as needed. Values are plain scalars (true, 42, text), or JSON
for lists and objects:

  mra set .pre-commit-config.yaml ci.autofix_prs false
  mra set .github/renovate.json5 schedule '["before 5am"]'`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, key := args[0], args[1]
		val := parseValue(args[2])
		s := currentSession(ctx)

		res, err := applyAny(ctx, path, editOptions(path), func(tree any) error {
			return writeValue(tree, path, key, val)
		})
		log.Event("edit:set", "edit").
			Path(path).
			Repo(s.Repo.Name).
			Status(string(res.Status)).
			Changed(res.Changed).
			Detail("key", key).
			Write(firstErr(err, res.Err))
		if err != nil {
			return err
		}
		reportResult(path, res)
		return res.Err
	},
}

// parseValue interprets the CLI value: JSON for compound values, then
// bool, integer, float, falling back to the raw string.
func parseValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}
	if b, err := strconv.ParseBool(trimmed); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return raw
}

func writeValue(tree any, path, key string, val any) error {
	keys := strings.Split(key, ".")
	switch doc := tree.(type) {
	case *format.YAMLDocument:
		doc.Set(val, keys...)
		return nil
	case map[string]any:
		return mapSet(doc, keys, val)
	case *ini.File:
		section, name := format.SplitSectionKey(key)
		doc.Section(section).Key(name).SetValue(fmt.Sprintf("%v", val))
		return nil
	case *json5.Object:
		return json5Set(doc, keys, val)
	case *string:
		if key != "" {
			return fmt.Errorf("%s: plain text files have no keys", path)
		}
		*doc = fmt.Sprintf("%v", val)
		return nil
	default:
		return fmt.Errorf("%s: unsupported tree %T", path, tree)
	}
}

func mapSet(doc map[string]any, keys []string, val any) error {
	for _, k := range keys[:len(keys)-1] {
		next, ok := doc[k]
		if !ok {
			next = map[string]any{}
			doc[k] = next
		}
		doc, ok = next.(map[string]any)
		if !ok {
			return fmt.Errorf("key %q is not a table", k)
		}
	}
	doc[keys[len(keys)-1]] = val
	return nil
}

func json5Set(obj *json5.Object, keys []string, val any) error {
	for _, k := range keys[:len(keys)-1] {
		node, ok := obj.Get(k)
		if !ok {
			child := json5.NewObject()
			obj.SetNode(k, child)
			obj = child
			continue
		}
		obj, ok = node.(*json5.Object)
		if !ok {
			return fmt.Errorf("key %q is not an object", k)
		}
	}
	obj.Set(keys[len(keys)-1], val)
	return nil
}

func init() {
	rootCmd.AddCommand(setCmd)
}
