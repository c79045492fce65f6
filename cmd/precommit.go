// precommit.go implements `mra precommit`: idempotent maintenance of the
// pre-commit configuration.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	yaml "github.com/goccy/go-yaml"

	"github.com/dkw-au/mra/internal/edit"
	"github.com/dkw-au/mra/internal/format"
	"github.com/dkw-au/mra/internal/hosting"
	"github.com/dkw-au/mra/internal/log"
	"github.com/dkw-au/mra/internal/precommit"
)

var precommitCmd = &cobra.Command{
	Use:   "precommit",
	Short: "Maintain .pre-commit-config.yaml",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// releases is swappable for tests.
var releases hosting.Releases

func releaseLookup() hosting.Releases {
	if releases != nil {
		return releases
	}
	return hosting.NewGH(out)
}

// editPreCommit runs body against the indexed pre-commit config through
// the scoped edit lifecycle and logs the outcome.
func editPreCommit(ctx context.Context, source string, body func(cfg *precommit.Config) error) error {
	s := currentSession(ctx)
	opts := editOptions(precommit.Path)
	res, err := edit.Apply(ctx, precommit.Path, precommit.Adapter{}, opts, body)
	log.Event(source, "edit").
		Path(precommit.Path).
		Repo(s.Repo.Name).
		Status(string(res.Status)).
		Changed(res.Changed).
		Write(firstErr(err, res.Err))
	if err != nil {
		return err
	}
	reportResult(precommit.Path, res)
	return res.Err
}

var addRepoRev string

var addRepoCmd = &cobra.Command{
	Use:   "add-repo <url>",
	Short: "Add a check repo, resolving its latest release when --rev is omitted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return editPreCommit(ctx, "precommit:add-repo", func(cfg *precommit.Config) error {
			return cfg.AddRepo(ctx, args[0], addRepoRev, releaseLookup())
		})
	},
}

var addHookSkipCI bool

var addHookCmd = &cobra.Command{
	Use:   "add-hook <repo-url> <hook-id>",
	Short: "Add a hook to a repo entry (no-op when the id already exists)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPreCommit(cmd.Context(), "precommit:add-hook", func(cfg *precommit.Config) error {
			hook := yaml.MapSlice{{Key: "id", Value: args[1]}}
			return cfg.AddHook(args[0], hook, addHookSkipCI)
		})
	},
}

var addDepsRegistry string

var addDepsCmd = &cobra.Command{
	Use:   "add-deps <repo-url> <hook-id> <dep>...",
	Short: "Add dependency pins to a hook, merging by base package name",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPreCommit(cmd.Context(), "precommit:add-deps", func(cfg *precommit.Config) error {
			return cfg.AddDependencies(args[0], args[1], args[2:], addDepsRegistry)
		})
	},
}

var fixFilesCmd = &cobra.Command{
	Use:   "fix-files",
	Short: "Rewrite over-long files regexes into the verbose form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s := currentSession(ctx)
		// Here the canonicalization is the edit itself, so it runs in the
		// body, after the baseline, and counts as a change.
		res, err := edit.Apply(ctx, precommit.Path, format.YAML{}, editOptions(precommit.Path),
			func(doc *format.YAMLDocument) error {
				precommit.Load(doc).FixFiles()
				return nil
			})
		log.Event("precommit:fix-files", "edit").
			Path(precommit.Path).
			Repo(s.Repo.Name).
			Status(string(res.Status)).
			Changed(res.Changed).
			Write(firstErr(err, res.Err))
		if err != nil {
			return err
		}
		reportResult(precommit.Path, res)
		return res.Err
	},
}

func init() {
	addRepoCmd.Flags().StringVar(&addRepoRev, "rev", "", "Revision to pin (default: latest release tag)")
	addHookCmd.Flags().BoolVar(&addHookSkipCI, "skip-ci", false, "Also list the hook under ci.skip")
	addDepsCmd.Flags().StringVar(&addDepsRegistry, "registry", "pypi", "Registry comment for the pins (pypi, npm, ...)")

	precommitCmd.AddCommand(addRepoCmd, addHookCmd, addDepsCmd, fixFilesCmd)
	rootCmd.AddCommand(precommitCmd)
}
