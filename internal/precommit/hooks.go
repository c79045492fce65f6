package precommit

import (
	"context"
	"io"

	yaml "github.com/goccy/go-yaml"

	"github.com/dkw-au/mra/internal/edit"
)

const (
	prettierRepo = "https://github.com/pre-commit/mirrors-prettier"
	prettierRev  = "v2.7.1"
	prettierPin  = "prettier@2.8.4"
)

// PrettierHook returns a callback that registers the prettier format hook
// for the current project, with any extra npm plugin pins the file type
// needs. Wired as the edit layer's OnModified hook so formatted file types
// gain their formatter the first time one of their files changes.
func PrettierHook(out io.Writer, plugins ...string) func(context.Context) error {
	return func(ctx context.Context) error {
		res, err := edit.Apply(ctx, Path, Adapter{}, edit.Options{Out: out},
			func(cfg *Config) error {
				if err := cfg.AddRepo(ctx, prettierRepo, prettierRev, nil); err != nil {
					return err
				}
				hook := yaml.MapSlice{{Key: "id", Value: "prettier"}}
				if err := cfg.AddHook(prettierRepo, hook, false); err != nil {
					return err
				}
				deps := append([]string{prettierPin}, plugins...)
				return cfg.AddDependencies(prettierRepo, "prettier", deps, "npm")
			})
		if err != nil {
			return err
		}
		return res.Err
	}
}
