/*
Copyright © 2026 Daniel K. White (dkw-au) <daniel@dkw.dev>
*/

// root.go defines the root command and CLI execution entry point.
//
// Design: the per-repository session (.repo.yaml, remotes) is discovered
// lazily on first use, so commands that never look at the repository
// (guide, log) work anywhere, including outside a git checkout.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkw-au/mra/internal/log"
	"github.com/dkw-au/mra/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "mra",
	Short: "Format-preserving config editing for repository maintenance",
	Long: `mra edits structured configuration files (YAML, TOML, INI, JSON5 with
comments) in place, preserving comments, key order and formatting so the
resulting diff shows only the intended change. Higher-level commands
maintain pre-commit and renovate configurations idempotently.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var sess *session.Session

// currentSession discovers the repository session once and caches it.
// Discovery failure is tolerated: commands still run, they just log
// without a repository name.
func currentSession(ctx context.Context) *session.Session {
	if sess == nil {
		s, err := session.Discover(ctx, ".", out)
		if err != nil {
			s = &session.Session{Out: out}
		}
		sess = s
	}
	return sess
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, executes the command, and exits 1 on error.
func Execute() {
	// Initialise audit logger (warn if it fails, but continue)
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	if wd, err := os.Getwd(); err == nil {
		log.SetProject(wd)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
