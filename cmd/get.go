// get.go implements `mra get`: print a value from a structured file.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkw-au/mra/internal/format"
	"github.com/dkw-au/mra/internal/json5"
)

var getCmd = &cobra.Command{
	Use:   "get <file> [key]",
	Short: "Print a value from a structured file",
	Long: `Print the value stored under a dotted key path, e.g.

  mra get .pre-commit-config.yaml ci.autofix_prs
  mra get setup.cfg flake8.max-line-length

Without a key the whole file content is printed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		path := args[0]
		if len(args) == 1 {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
			return nil
		}

		val, err := readValue(path, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%v\n", val)
		return nil
	},
}

func readValue(path, key string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)

	switch detectFormat(path) {
	case formatYAML:
		doc, err := format.YAML{}.Load(text)
		if err != nil {
			return nil, err
		}
		val, ok := doc.Get(strings.Split(key, ".")...)
		if !ok {
			return nil, fmt.Errorf("%s: key %q not found", path, key)
		}
		return val, nil
	case formatTOML:
		doc, err := format.TOML{}.Load(text)
		if err != nil {
			return nil, err
		}
		return mapGet(doc, path, key)
	case formatINI:
		f, err := format.INI{}.Load(text)
		if err != nil {
			return nil, err
		}
		section, name := format.SplitSectionKey(key)
		sec, err := f.GetSection(section)
		if err != nil {
			return nil, fmt.Errorf("%s: section %q not found", path, section)
		}
		if !sec.HasKey(name) {
			return nil, fmt.Errorf("%s: key %q not found", path, key)
		}
		return sec.Key(name).String(), nil
	case formatJSON5:
		obj, err := format.JSON5{}.Load(text)
		if err != nil {
			return nil, err
		}
		node, err := json5Lookup(obj, path, strings.Split(key, "."))
		if err != nil {
			return nil, err
		}
		return node.Plain(), nil
	default:
		return nil, fmt.Errorf("%s: plain text files have no keys", path)
	}
}

func mapGet(doc map[string]any, path, key string) (any, error) {
	var cur any = doc
	for _, k := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: key %q not found", path, key)
		}
		cur, ok = m[k]
		if !ok {
			return nil, fmt.Errorf("%s: key %q not found", path, key)
		}
	}
	return cur, nil
}

func json5Lookup(obj *json5.Object, path string, keys []string) (json5.Node, error) {
	var node json5.Node = obj
	for _, k := range keys {
		o, ok := node.(*json5.Object)
		if !ok {
			return nil, fmt.Errorf("%s: key %q not found", path, strings.Join(keys, "."))
		}
		node, ok = o.Get(k)
		if !ok {
			return nil, fmt.Errorf("%s: key %q not found", path, strings.Join(keys, "."))
		}
	}
	return node, nil
}

func init() {
	rootCmd.AddCommand(getCmd)
}
