// log.go implements "mra log": show recent audit log entries.

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkw-au/mra/internal/log"
)

var (
	logLimit int
	logAll   bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent edits from the audit log",
	Long: `Shows what mra changed recently: which file, with which outcome.
By default only entries for the current repository are listed; --all
shows entries across every repository.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		entries, err := log.Recent(logLimit, logAll)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No log entries.")
			return nil
		}
		for _, e := range entries {
			when := time.Unix(e.Start, 0).Format("2006-01-02 15:04:05")
			outcome := e.Status
			if outcome == "" {
				if e.Success {
					outcome = "ok"
				} else {
					outcome = "error"
				}
			}
			line := fmt.Sprintf("%s  %-22s %-9s %s", when, e.Source, outcome, e.Path)
			if e.Error != "" {
				line += "  (" + e.Error + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Maximum entries to show")
	logCmd.Flags().BoolVar(&logAll, "all", false, "Show entries from every repository")
	rootCmd.AddCommand(logCmd)
}
