// renovate.go implements `mra renovate`: maintenance of the renovate
// configuration with its comments preserved byte for byte.

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkw-au/mra/internal/edit"
	"github.com/dkw-au/mra/internal/format"
	"github.com/dkw-au/mra/internal/json5"
	"github.com/dkw-au/mra/internal/log"
	"github.com/dkw-au/mra/internal/renovate"
)

// DefaultRenovatePath is where renovate configuration conventionally
// lives.
const DefaultRenovatePath = ".github/renovate.json5"

var renovateCmd = &cobra.Command{
	Use:   "renovate",
	Short: "Maintain .github/renovate.json5",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var (
	renovateFile    string
	renovateFields  []string
	renovateComment string
	renovateKeys    []string
)

// fieldMap parses repeated --field k=v flags. Values go through the same
// interpretation as `mra set`.
func fieldMap() (map[string]any, error) {
	fields := map[string]any{}
	for _, f := range renovateFields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("--field %q: expected key=value", f)
		}
		fields[k] = parseValue(v)
	}
	return fields, nil
}

func commentLines() []string {
	if renovateComment == "" {
		return nil
	}
	return strings.Split(renovateComment, "\n")
}

// editRenovate runs body against the renovate config through the scoped
// edit lifecycle and logs the outcome.
func editRenovate(ctx context.Context, source, action string, body func(cfg *renovate.Config) error) error {
	s := currentSession(ctx)
	res, err := edit.Apply(ctx, renovateFile, format.JSON5{}, editOptions(renovateFile),
		func(root *json5.Object) error {
			return body(renovate.Load(root))
		})
	log.Event(source, action).
		Path(renovateFile).
		Repo(s.Repo.Name).
		Status(string(res.Status)).
		Changed(res.Changed).
		Write(firstErr(err, res.Err))
	if err != nil {
		return err
	}
	reportResult(renovateFile, res)
	return res.Err
}

var addManagerCmd = &cobra.Command{
	Use:   "add-manager",
	Short: "Insert or replace a custom manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields, err := fieldMap()
		if err != nil {
			return err
		}
		return editRenovate(cmd.Context(), "renovate:add-manager", "add", func(cfg *renovate.Config) error {
			cfg.AddRegexManager(fields, commentLines()...)
			return nil
		})
	},
}

var removeManagerCmd = &cobra.Command{
	Use:   "remove-manager",
	Short: "Remove the matching custom manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields, err := fieldMap()
		if err != nil {
			return err
		}
		return editRenovate(cmd.Context(), "renovate:remove-manager", "remove", func(cfg *renovate.Config) error {
			cfg.RemoveRegexManager(fields, commentLines()...)
			return nil
		})
	},
}

var addRuleCmd = &cobra.Command{
	Use:   "add-rule",
	Short: "Insert or replace a package rule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields, err := fieldMap()
		if err != nil {
			return err
		}
		return editRenovate(cmd.Context(), "renovate:add-rule", "add", func(cfg *renovate.Config) error {
			cfg.AddPackageRule(fields, commentLines(), renovateKeys...)
			return nil
		})
	},
}

var removeRuleCmd = &cobra.Command{
	Use:   "remove-rule",
	Short: "Remove the matching package rule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields, err := fieldMap()
		if err != nil {
			return err
		}
		return editRenovate(cmd.Context(), "renovate:remove-rule", "remove", func(cfg *renovate.Config) error {
			cfg.RemovePackageRule(fields, commentLines(), renovateKeys...)
			return nil
		})
	},
}

func init() {
	renovateCmd.PersistentFlags().StringVar(&renovateFile, "file", DefaultRenovatePath, "Renovate config file")
	renovateCmd.PersistentFlags().StringArrayVar(&renovateFields, "field", nil, "Entry field as key=value (repeatable)")
	renovateCmd.PersistentFlags().StringVar(&renovateComment, "comment", "", "Comment identifying the entry")
	renovateCmd.PersistentFlags().StringArrayVar(&renovateKeys, "match-key", nil, "Key that identifies a rule (repeatable)")

	renovateCmd.AddCommand(addManagerCmd, removeManagerCmd, addRuleCmd, removeRuleCmd)
	rootCmd.AddCommand(renovateCmd)
}
