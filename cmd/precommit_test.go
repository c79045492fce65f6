package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testPreCommitConfig = `repos:
  - repo: https://github.com/psf/black
    rev: 22.3.0
    hooks:
      - id: black
`

func TestPrecommitAddRepoWithRev(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", testPreCommitConfig)

	output := env.run("precommit", "add-repo", "--no-checks",
		"--rev", "v3.3.1", "https://github.com/asottile/pyupgrade")

	env.contains(output, ".pre-commit-config.yaml: written")
	config := env.read(".pre-commit-config.yaml")
	env.contains(config, "repo: https://github.com/asottile/pyupgrade")
	env.contains(config, "rev: v3.3.1")
	env.contains(config, "repo: https://github.com/psf/black")
}

func TestPrecommitAddRepoExistingIsUnchanged(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", testPreCommitConfig)

	output := env.run("precommit", "add-repo", "--no-checks",
		"--rev", "v9.9.9", "https://github.com/psf/black")

	env.contains(output, ".pre-commit-config.yaml: unchanged")
	env.contains(env.read(".pre-commit-config.yaml"), "rev: 22.3.0")
}

func TestPrecommitAddHook(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", testPreCommitConfig)

	output := env.run("precommit", "add-hook", "--no-checks",
		"https://github.com/psf/black", "black-jupyter")

	env.contains(output, ".pre-commit-config.yaml: written")
	env.contains(env.read(".pre-commit-config.yaml"), "id: black-jupyter")
}

func TestPrecommitAddHookIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", testPreCommitConfig)

	env.run("precommit", "add-hook", "--no-checks",
		"https://github.com/psf/black", "black-jupyter")
	output := env.run("precommit", "add-hook", "--no-checks",
		"https://github.com/psf/black", "black-jupyter")

	env.contains(output, ".pre-commit-config.yaml: unchanged")
	config := env.read(".pre-commit-config.yaml")
	assert.Equal(t, 1, strings.Count(config, "id: black-jupyter"))
}

func TestPrecommitAddHookUnknownRepo(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", testPreCommitConfig)

	output, err := env.runErr("precommit", "add-hook", "--no-checks",
		"https://github.com/nowhere/nothing", "noop")

	assert.Error(t, err)
	env.contains(output, "nowhere/nothing")
}

func TestPrecommitAddHookSkipCI(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", testPreCommitConfig)

	env.run("precommit", "add-hook", "--no-checks", "--skip-ci",
		"https://github.com/psf/black", "black-jupyter")

	config := env.read(".pre-commit-config.yaml")
	env.contains(config, "ci:")
	env.contains(config, "black-jupyter")
	env.contains(config, "skip:")
}

func TestPrecommitAddDeps(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", testPreCommitConfig)

	output := env.run("precommit", "add-deps", "--no-checks",
		"https://github.com/psf/black", "black", "click==8.1.3")

	env.contains(output, ".pre-commit-config.yaml: written")
	config := env.read(".pre-commit-config.yaml")
	env.contains(config, "additional_dependencies")
	env.contains(config, "click==8.1.3 # pypi")
}

func TestPrecommitAddDepsExistingPinWins(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", testPreCommitConfig)

	env.run("precommit", "add-deps", "--no-checks",
		"https://github.com/psf/black", "black", "click==8.0.0")
	env.run("precommit", "add-deps", "--no-checks",
		"https://github.com/psf/black", "black", "click==8.1.3")

	config := env.read(".pre-commit-config.yaml")
	env.contains(config, "click==8.0.0")
	assert.NotContains(t, config, "click==8.1.3")
}

func TestPrecommitFixFiles(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", `repos:
  - repo: https://github.com/psf/black
    rev: 22.3.0
    hooks:
      - id: black
        files: ^(path/to/some/really/long/first\.yaml|path/to/some/other/second\.yaml)$
`)

	output := env.run("precommit", "fix-files", "--no-checks")

	env.contains(output, ".pre-commit-config.yaml: written")
	config := env.read(".pre-commit-config.yaml")
	env.contains(config, "(?x)^(")
	env.contains(config, `path/to/some/really/long/first\.yaml`)
}

func TestPrecommitNoopLeavesLongRegexAlone(t *testing.T) {
	env := newTestEnv(t)
	config := `repos:
  - repo: https://github.com/psf/black
    rev: 22.3.0
    hooks:
      - id: black
        files: ^(path/to/some/really/long/first\.yaml|path/to/some/other/second\.yaml)$
`
	env.write(".pre-commit-config.yaml", config)

	output := env.run("precommit", "add-repo", "--no-checks",
		"--rev", "v9.9.9", "https://github.com/psf/black")

	env.contains(output, ".pre-commit-config.yaml: unchanged")
	assert.Equal(t, config, env.read(".pre-commit-config.yaml"))
}

func TestPrecommitFixFilesShortRegexUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.write(".pre-commit-config.yaml", `repos:
  - repo: https://github.com/psf/black
    rev: 22.3.0
    hooks:
      - id: black
        files: ^src/.*\.py$
`)

	output := env.run("precommit", "fix-files", "--no-checks")

	env.contains(output, ".pre-commit-config.yaml: unchanged")
	env.contains(env.read(".pre-commit-config.yaml"), `files: ^src/.*\.py$`)
}
