/*
Copyright © 2026 Daniel K. White (dkw-au) <daniel@dkw.dev>
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Separated from root.go to isolate flag definitions from command logic.
// Commands build their edit.Options through editOptions so the shared
// flags apply uniformly.

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkw-au/mra/internal/edit"
	"github.com/dkw-au/mra/internal/precommit"
)

var (
	diffOnly bool
	force    bool
	noChecks bool
)

// out is the output writer for commands. Defaults to os.Stdout.
// Tests can replace this to capture output.
var out io.Writer = os.Stdout

// Out returns the output writer.
func Out() io.Writer { return out }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// Force returns the force flag value.
func Force() bool { return force }

// DiffOnly returns the diff flag value.
func DiffOnly() bool { return diffOnly }

// editOptions builds the edit options for one file from the shared flags,
// wiring the format hook registration appropriate for the file's type.
func editOptions(path string) edit.Options {
	return edit.Options{
		Force:      force,
		DiffOnly:   diffOnly,
		Checks:     !noChecks,
		OnModified: formatHook(path),
		Out:        out,
	}
}

// formatHook returns the companion-hook registration for path's file
// type: YAML and TOML files are formatted by prettier, TOML with its
// plugin. The pre-commit config itself gets no hook so registering the
// hook does not recurse.
func formatHook(path string) func(context.Context) error {
	if filepath.Base(path) == precommit.Path {
		return nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return precommit.PrettierHook(out)
	case ".toml":
		return precommit.PrettierHook(out, "prettier-plugin-toml@0.3.1")
	default:
		return nil
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&diffOnly, "diff", false, "Print a unified diff instead of writing")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Write even when content is unchanged")
	rootCmd.PersistentFlags().BoolVar(&noChecks, "no-checks", false, "Skip post-write pre-commit verification")
}
