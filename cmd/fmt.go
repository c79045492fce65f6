// fmt.go implements `mra fmt`: rewrite files into their adapter's
// canonical serialization without changing their logical content.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dkw-au/mra/internal/log"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>...",
	Short: "Rewrite files into canonical form",
	Long: `Load each file through its format adapter and write it back in the
adapter's canonical serialization. The logical content is untouched;
only formatting (indentation, trailing newline, quoting) changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := currentSession(ctx)
		for _, path := range args {
			opts := editOptions(path)
			opts.Force = true
			res, err := applyAny(ctx, path, opts, func(any) error { return nil })
			log.Event("edit:fmt", "edit").
				Path(path).
				Repo(s.Repo.Name).
				Status(string(res.Status)).
				Changed(res.Changed).
				Write(firstErr(err, res.Err))
			if err != nil {
				return err
			}
			reportResult(path, res)
		}
		return nil
	},
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
