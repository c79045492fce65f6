package precommit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	yaml "github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkw-au/mra/internal/edit"
	"github.com/dkw-au/mra/internal/format"
)

type fakeReleases struct {
	tag  string
	err  error
	seen []string
}

func (f *fakeReleases) Latest(_ context.Context, repo string) (string, error) {
	f.seen = append(f.seen, repo)
	return f.tag, f.err
}

func load(t *testing.T, text string) *Config {
	t.Helper()
	doc, err := format.YAML{}.Load(text)
	require.NoError(t, err)
	return Load(doc)
}

func dump(t *testing.T, c *Config) string {
	t.Helper()
	out, err := format.YAML{}.Dump(c.Doc())
	require.NoError(t, err)
	return out
}

const base = `repos:
  - repo: https://github.com/psf/black
    rev: 23.1.0
    hooks:
      - id: black
`

func TestAddRepo(t *testing.T) {
	c := load(t, base)
	rel := &fakeReleases{tag: "v4.4.0"}

	err := c.AddRepo(context.Background(), "https://github.com/pre-commit/pre-commit-hooks", "", rel)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/pre-commit/pre-commit-hooks"}, rel.seen)

	out := dump(t, c)
	assert.Contains(t, out, "repo: https://github.com/pre-commit/pre-commit-hooks")
	assert.Contains(t, out, "rev: v4.4.0")
}

func TestAddRepo_ExistingIsNoop(t *testing.T) {
	c := load(t, base)
	rel := &fakeReleases{tag: "ignored"}

	err := c.AddRepo(context.Background(), "https://github.com/psf/black", "", rel)
	require.NoError(t, err)
	assert.Empty(t, rel.seen)
	assert.Contains(t, dump(t, c), "rev: 23.1.0")
}

func TestAddRepo_ReleaseLookupFailure(t *testing.T) {
	c := load(t, base)
	rel := &fakeReleases{err: errors.New("gh: not found")}

	err := c.AddRepo(context.Background(), "https://github.com/nobody/nothing", "", rel)
	assert.Error(t, err)
	assert.NotContains(t, dump(t, c), "nobody/nothing")
}

func TestAddHook_Idempotent(t *testing.T) {
	c := load(t, base)
	hook := yaml.MapSlice{{Key: "id", Value: "black-jupyter"}}

	require.NoError(t, c.AddHook("https://github.com/psf/black", hook, false))
	require.NoError(t, c.AddHook("https://github.com/psf/black", hook, false))

	out := dump(t, c)
	assert.Equal(t, 1, strings.Count(out, "id: black-jupyter"))
}

func TestAddHook_UnknownRepo(t *testing.T) {
	c := load(t, base)
	err := c.AddHook("https://github.com/unknown/repo", yaml.MapSlice{{Key: "id", Value: "x"}}, false)
	assert.Error(t, err)
}

func TestAddHook_SkipCI(t *testing.T) {
	c := load(t, base)
	hook := yaml.MapSlice{{Key: "id", Value: "pip-compile"}}
	require.NoError(t, c.AddHook("https://github.com/psf/black", hook, true))

	out := dump(t, c)
	assert.Contains(t, out, "ci:")
	assert.Contains(t, out, "- pip-compile")

	// Listing the same hook again must not duplicate the skip entry.
	require.NoError(t, c.AddHook("https://github.com/psf/black", hook, true))
	assert.Equal(t, 1, strings.Count(dump(t, c), "- pip-compile"))
}

func TestAddDependencies_FirstWins(t *testing.T) {
	c := load(t, `repos:
  - repo: https://github.com/psf/black
    rev: 23.1.0
    hooks:
      - id: black
        additional_dependencies:
          - black==22.0
`)
	err := c.AddDependencies("https://github.com/psf/black", "black",
		[]string{"black==23.0", "click==8.1.3"}, "pypi")
	require.NoError(t, err)

	out := dump(t, c)
	assert.Equal(t, 1, strings.Count(out, "black=="))
	assert.Contains(t, out, "black==22.0")
	assert.Contains(t, out, "click==8.1.3 # pypi")
}

func TestAddDependencies_ScopedNpmPackages(t *testing.T) {
	c := load(t, base)
	url := "https://github.com/psf/black"
	require.NoError(t, c.AddDependencies(url, "black", []string{"@scope/tool@1.0.0"}, "npm"))
	require.NoError(t, c.AddDependencies(url, "black", []string{"@scope/tool@2.0.0"}, "npm"))

	out := dump(t, c)
	assert.Equal(t, 1, strings.Count(out, "@scope/tool"))
	assert.Contains(t, out, "@scope/tool@1.0.0")
}

func TestAddDependencies_UnknownHook(t *testing.T) {
	c := load(t, base)
	err := c.AddDependencies("https://github.com/psf/black", "missing", []string{"x@1"}, "npm")
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"black==22.0":       "black",
		"prettier@2.8.4":    "prettier",
		"@scope/tool@1.0.0": "@scope/tool",
		"poetry>=1.4":       "poetry",
		"plain":             "plain",
		"pkg~=1.0":          "pkg",
	}
	for dep, want := range cases {
		assert.Equal(t, want, baseName(dep), dep)
	}
}

func TestFilesRegex(t *testing.T) {
	assert.Equal(t, "^a.py$", FilesRegex([]string{"a.py"}, true))
	assert.Equal(t, "a.py", FilesRegex([]string{"a.py"}, false))
	assert.Equal(t, "(?x)^(\n  a.py\n  |b/c.py\n)$", FilesRegex([]string{"a.py", "b/c.py"}, true))
	assert.Equal(t, "(?x)(\n  a.py\n  |b/c.py\n)", FilesRegex([]string{"a.py", "b/c.py"}, false))
}

func TestFixFiles(t *testing.T) {
	long := "^(" + strings.Join([]string{
		"docs/very/long/path/one.py",
		"docs/very/long/path/two.py",
		"docs/very/long/path/three.py",
	}, "|") + ")$"
	require.Greater(t, len(long), fixFilesThreshold)

	c := load(t, "repos:\n  - repo: https://github.com/psf/black\n    rev: 23.1.0\n    hooks:\n      - id: black\n        files: "+long+"\n")
	c.FixFiles()

	out := dump(t, c)
	assert.Contains(t, out, "(?x)")
	assert.Contains(t, out, "|docs/very/long/path/two.py")
}

func TestFixFiles_ShortAndOpaqueLeftAlone(t *testing.T) {
	c := load(t, "repos:\n  - repo: https://github.com/psf/black\n    rev: 23.1.0\n    hooks:\n      - id: black\n        files: ^short$\n        exclude: "+strings.Repeat("x", 70)+"\n")
	c.FixFiles()

	out := dump(t, c)
	assert.Contains(t, out, "files: ^short$")
	assert.NotContains(t, out, "(?x)")
}

const longFilesConfig = `repos:
  - repo: https://github.com/psf/black
    rev: 23.1.0
    hooks:
      - id: black
        files: ^(docs/very/long/nested/path/one\.py|docs/very/long/nested/path/two\.py)$
`

func TestAdapter_FixedRegexIsNotAChangeOnItsOwn(t *testing.T) {
	// The adapter canonicalizes over-long regexes on load, before the edit
	// lifecycle captures its baseline. An edit that touches nothing else
	// must leave the file alone.
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(longFilesConfig), 0o644))

	res, err := edit.Apply(context.Background(), path, Adapter{}, edit.Options{},
		func(*Config) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, edit.Skipped, res.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, longFilesConfig, string(data))
}

func TestAdapter_FixedRegexRidesAlongWithRealChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(longFilesConfig), 0o644))

	res, err := edit.Apply(context.Background(), path, Adapter{}, edit.Options{},
		func(c *Config) error {
			return c.AddHook("https://github.com/psf/black",
				yaml.MapSlice{{Key: "id", Value: "black-jupyter"}}, false)
		})
	require.NoError(t, err)
	assert.Equal(t, edit.Committed, res.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(?x)^(")
	assert.Contains(t, string(data), "id: black-jupyter")
}

func TestVerbosify(t *testing.T) {
	got, ok := verbosify("^(a.py|b.py)$")
	require.True(t, ok)
	assert.Equal(t, "(?x)^(\n  a.py\n  |b.py\n)$", got)

	got, ok = verbosify("(?x)^( a.py | b.py )$")
	require.True(t, ok)
	assert.Equal(t, "(?x)^(\n  a.py\n  |b.py\n)$", got)

	_, ok = verbosify("no-group-here")
	assert.False(t, ok)
}
