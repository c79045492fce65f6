// Package precommit maintains .pre-commit-config.yaml documents: adding
// check repos and hooks idempotently, merging dependency pins, and keeping
// files regexes in the readable verbose form.
//
// A Config indexes the document by repo URL and hook id once on load, so
// repeated add calls within one editing session are cheap no-ops.
package precommit

import (
	"context"
	"fmt"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"github.com/dkw-au/mra/internal/format"
	"github.com/dkw-au/mra/internal/hosting"
)

// Path is the conventional location of the pre-commit configuration.
const Path = ".pre-commit-config.yaml"

// fixFilesThreshold is the regex length beyond which a single-line
// alternation is rewritten into the verbose (?x) form.
const fixFilesThreshold = 60

type hookIndex struct {
	repoPos int
	hooks   map[string]int
}

// Config wraps a loaded pre-commit document with a repo/hook index.
type Config struct {
	doc   *format.YAMLDocument
	index map[string]*hookIndex
}

// Load indexes doc by repo URL and hook id.
func Load(doc *format.YAMLDocument) *Config {
	c := &Config{doc: doc}
	c.reindex()
	return c
}

// Adapter is the edit adapter for pre-commit configurations. Its load pass
// rewrites over-long files regexes into the verbose form before the edit
// lifecycle captures its change baseline, so the canonical form rides
// along with real changes instead of forcing a write on its own.
type Adapter struct{}

func (Adapter) Load(text string) (*Config, error) {
	doc, err := format.YAML{}.Load(text)
	if err != nil {
		return nil, err
	}
	c := Load(doc)
	c.FixFiles()
	return c, nil
}

func (Adapter) Dump(c *Config) (string, error) {
	return format.YAML{}.Dump(c.doc)
}

func (Adapter) Empty() *Config {
	return Load(format.YAML{}.Empty())
}

// Doc returns the underlying document for serialization.
func (c *Config) Doc() *format.YAMLDocument { return c.doc }

func (c *Config) repos() []any {
	v, _ := c.doc.Get("repos")
	list, _ := v.([]any)
	return list
}

func (c *Config) reindex() {
	c.index = map[string]*hookIndex{}
	for i, entry := range c.repos() {
		ms, ok := entry.(yaml.MapSlice)
		if !ok {
			continue
		}
		url, _ := get(ms, "repo").(string)
		if url == "" {
			continue
		}
		if _, dup := c.index[url]; dup {
			continue
		}
		idx := &hookIndex{repoPos: i, hooks: map[string]int{}}
		hooks, _ := get(ms, "hooks").([]any)
		for j, h := range hooks {
			hms, ok := h.(yaml.MapSlice)
			if !ok {
				continue
			}
			if id, _ := get(hms, "id").(string); id != "" {
				idx.hooks[id] = j
			}
		}
		c.index[url] = idx
	}
}

// AddRepo registers a check repo. Resolves the pinned revision through the
// release lookup when rev is empty. Adding a repo that is already present
// is a no-op, whatever its pinned revision.
func (c *Config) AddRepo(ctx context.Context, url, rev string, releases hosting.Releases) error {
	if _, ok := c.index[url]; ok {
		return nil
	}
	if rev == "" {
		var err error
		rev, err = releases.Latest(ctx, url)
		if err != nil {
			return err
		}
	}
	entry := yaml.MapSlice{
		{Key: "repo", Value: url},
		{Key: "rev", Value: rev},
		{Key: "hooks", Value: []any{}},
	}
	c.doc.Set(append(c.repos(), entry), "repos")
	c.reindex()
	return nil
}

// AddHook appends hook to the repo's hook list unless a hook with the same
// id is already registered. With skipCI the hook id is also listed under
// ci.skip so the hosted runner leaves it to local runs.
func (c *Config) AddHook(url string, hook yaml.MapSlice, skipCI bool) error {
	idx, ok := c.index[url]
	if !ok {
		return fmt.Errorf("pre-commit repo %s not in config, call AddRepo first", url)
	}
	id, _ := get(hook, "id").(string)
	if id == "" {
		return fmt.Errorf("pre-commit hook for %s has no id", url)
	}
	if _, ok := idx.hooks[id]; ok {
		if skipCI {
			c.SkipCI(id)
		}
		return nil
	}

	repos := c.repos()
	entry := repos[idx.repoPos].(yaml.MapSlice)
	hooks, _ := get(entry, "hooks").([]any)
	repos[idx.repoPos] = set(entry, "hooks", append(hooks, hook))
	c.doc.Set(repos, "repos")
	c.reindex()

	if skipCI {
		c.SkipCI(id)
	}
	return nil
}

// AddDependencies merges deps into the hook's additional_dependencies,
// keyed by base package name: a pin that already exists for a base name
// wins over the incoming one. Every entry gets an end-of-line registry
// comment, which the dependency updater uses to pick the right datasource.
func (c *Config) AddDependencies(url, hookID string, deps []string, registry string) error {
	idx, ok := c.index[url]
	if !ok {
		return fmt.Errorf("pre-commit repo %s not in config", url)
	}
	hookPos, ok := idx.hooks[hookID]
	if !ok {
		return fmt.Errorf("pre-commit hook %s not registered for %s", hookID, url)
	}

	repos := c.repos()
	entry := repos[idx.repoPos].(yaml.MapSlice)
	hooks, _ := get(entry, "hooks").([]any)
	hook := hooks[hookPos].(yaml.MapSlice)

	existing, _ := get(hook, "additional_dependencies").([]any)
	pinned := map[string]bool{}
	for _, d := range existing {
		if s, ok := d.(string); ok {
			pinned[baseName(s)] = true
		}
	}
	for _, d := range deps {
		if pinned[baseName(d)] {
			continue
		}
		existing = append(existing, d)
		pinned[baseName(d)] = true
	}

	hooks[hookPos] = set(hook, "additional_dependencies", existing)
	repos[idx.repoPos] = set(entry, "hooks", hooks)
	c.doc.Set(repos, "repos")

	for k := range existing {
		path := format.CommentPath("repos", idx.repoPos, "hooks", hookPos, "additional_dependencies", k)
		c.doc.SetEOLComment(path, registry)
	}
	return nil
}

// SkipCI lists hookID under ci.skip. The hosted pre-commit runner skips
// hooks on that list.
func (c *Config) SkipCI(hookID string) {
	v, _ := c.doc.Get("ci", "skip")
	skip, _ := v.([]any)
	for _, s := range skip {
		if s == hookID {
			return
		}
	}
	c.doc.Set(append(skip, any(hookID)), "ci", "skip")
}

// FixFiles rewrites files and exclude regexes longer than the threshold
// into the verbose multi-line form when they are simple alternations.
func (c *Config) FixFiles() {
	repos := c.repos()
	for i, entry := range repos {
		ms, ok := entry.(yaml.MapSlice)
		if !ok {
			continue
		}
		hooks, _ := get(ms, "hooks").([]any)
		changed := false
		for j, h := range hooks {
			hms, ok := h.(yaml.MapSlice)
			if !ok {
				continue
			}
			for _, attr := range []string{"files", "exclude"} {
				val, _ := get(hms, attr).(string)
				if len(val) <= fixFilesThreshold {
					continue
				}
				fixed, ok := verbosify(val)
				if !ok {
					continue
				}
				hms = set(hms, attr, fixed)
				hooks[j] = hms
				changed = true
			}
		}
		if changed {
			repos[i] = set(ms, "hooks", hooks)
		}
	}
	if len(repos) > 0 {
		c.doc.Set(repos, "repos")
	}
}

// FilesRegex builds a regex matching the given paths. A single path stays
// on one line; two or more become a verbose (?x) alternation, one path per
// line, so config diffs stay reviewable.
func FilesRegex(files []string, anchored bool) string {
	if len(files) == 1 {
		if anchored {
			return "^" + files[0] + "$"
		}
		return files[0]
	}
	start, end := "", ""
	if anchored {
		start, end = "^", "$"
	}
	return fmt.Sprintf("(?x)%s(\n  %s\n)%s", start, strings.Join(files, "\n  |"), end)
}

// verbosify splits a single-line alternation regex into the verbose form.
// Regexes that are not plain `(a|b)` or `^(a|b)$` groups (with an optional
// (?x) prefix already stripped of meaning) are left alone.
func verbosify(val string) (string, bool) {
	s := strings.TrimSpace(val)
	s = strings.TrimPrefix(s, "(?x)")
	s = strings.TrimSpace(s)

	anchored := false
	switch {
	case strings.HasPrefix(s, "^(") && strings.HasSuffix(s, ")$"):
		anchored = true
		s = s[2 : len(s)-2]
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		s = s[1 : len(s)-1]
	default:
		return "", false
	}

	parts := strings.Split(s, "|")
	files := make([]string, 0, len(parts))
	for _, p := range parts {
		files = append(files, strings.TrimSpace(p))
	}
	return FilesRegex(files, anchored), true
}

// baseName strips the version specifier from a dependency pin, so pins of
// the same package compare equal regardless of pinned version.
func baseName(dep string) string {
	// npm scoped packages start with @; the version separator is the next @.
	search := dep
	offset := 0
	if strings.HasPrefix(dep, "@") {
		search = dep[1:]
		offset = 1
	}
	cut := len(search)
	for _, sep := range []string{"==", ">=", "<=", "!=", "~=", "@", ">", "<", "="} {
		if i := strings.Index(search, sep); i >= 0 && i < cut {
			cut = i
		}
	}
	return dep[:offset+cut]
}

func get(ms yaml.MapSlice, key string) any {
	for _, item := range ms {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value
		}
	}
	return nil
}

func set(ms yaml.MapSlice, key string, val any) yaml.MapSlice {
	for i, item := range ms {
		if k, ok := item.Key.(string); ok && k == key {
			ms[i].Value = val
			return ms
		}
	}
	return append(ms, yaml.MapItem{Key: key, Value: val})
}
