// Package session carries the per-repository context for one run: the
// repository description from .repo.yaml, completed from the git remotes
// when fields are missing, plus the operator's editor and browser. The
// session is built once at startup and passed down explicitly.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkw-au/mra/internal/run"
)

// ConfigFile is the per-repository description file.
const ConfigFile = ".repo.yaml"

// Repo describes the repository a session operates on.
type Repo struct {
	Dir                   string            `yaml:"dir"`
	Name                  string            `yaml:"name"`
	MasterBranch          string            `yaml:"master_branch"`
	Remote                string            `yaml:"remote"`
	StabilizationBranches []string          `yaml:"stabilization_branches"`
	VersionToBranch       map[string]string `yaml:"stabilization_version_to_branch"`
	FoldersToClean        []string          `yaml:"folders_to_clean"`
	Clean                 bool              `yaml:"clean"`
}

// BaseBranch returns the configured master branch, defaulting to master.
func (r Repo) BaseBranch() string {
	if r.MasterBranch != "" {
		return r.MasterBranch
	}
	return "master"
}

// Session is the explicit context threaded through commands.
type Session struct {
	Repo    Repo
	Editor  string
	Browser string
	Out     io.Writer
}

// Discover builds a session for the repository at dir. Fields absent from
// .repo.yaml are completed from the git remotes: the remote prefers
// upstream over origin over the first one listed, and the repository name
// is taken from the chosen remote's URL.
func Discover(ctx context.Context, dir string, out io.Writer) (*Session, error) {
	s := &Session{
		Editor:  os.Getenv("EDITOR"),
		Browser: os.Getenv("BROWSER"),
		Out:     out,
	}

	cfgPath := filepath.Join(dir, ConfigFile)
	if data, err := os.ReadFile(cfgPath); err == nil {
		if err := yaml.Unmarshal(data, &s.Repo); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if s.Repo.Dir == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		s.Repo.Dir = abs
	}

	if s.Repo.Remote == "" || s.Repo.Name == "" {
		remotes, err := gitRemotes(ctx, dir, out)
		if err != nil && s.Repo.Name == "" {
			return nil, err
		}
		if s.Repo.Remote == "" {
			s.Repo.Remote = pickRemote(remotes)
		}
		if s.Repo.Name == "" {
			var url string
			for _, rem := range remotes {
				if rem.name == s.Repo.Remote {
					url = rem.url
					break
				}
			}
			s.Repo.Name = repoName(url)
			if s.Repo.Name == "" {
				return nil, fmt.Errorf("cannot derive repository name from remote %q (%q)", s.Repo.Remote, url)
			}
		}
	}

	return s, nil
}

type remote struct {
	name string
	url  string
}

// gitRemotes returns the remotes with their fetch URLs in listing order.
func gitRemotes(ctx context.Context, dir string, out io.Writer) ([]remote, error) {
	r := run.New(dir, out)
	listing, err := r.Output(ctx, "git", "remote", "--verbose")
	if err != nil {
		return nil, fmt.Errorf("list git remotes: %w", err)
	}
	var remotes []remote
	seen := map[string]bool{}
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true
		remotes = append(remotes, remote{name: fields[0], url: fields[1]})
	}
	return remotes, nil
}

// pickRemote prefers upstream, then origin, then whichever remote git
// listed first.
func pickRemote(remotes []remote) string {
	for _, want := range []string{"upstream", "origin"} {
		for _, rem := range remotes {
			if rem.name == want {
				return want
			}
		}
	}
	if len(remotes) > 0 {
		return remotes[0].name
	}
	return ""
}

// repoName extracts owner/name from a remote URL, for both the ssh form
// git@host:owner/name.git and the https form.
func repoName(url string) string {
	var name string
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		rest := url[strings.Index(url, "//")+2:]
		i := strings.Index(rest, "/")
		if i < 0 {
			return ""
		}
		name = rest[i+1:]
	} else if i := strings.LastIndex(url, ":"); i >= 0 {
		name = url[i+1:]
	} else {
		name = url
	}
	name = strings.TrimSuffix(strings.Trim(name, "/"), ".git")
	if !strings.Contains(name, "/") {
		return ""
	}
	return name
}
