// Package hosting wraps the code-hosting CLI. The editing core only needs
// release-tag lookup and pull-request creation; both shell out to gh so
// authentication stays the CLI's problem.
package hosting

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dkw-au/mra/internal/run"
)

// Releases resolves release tags for a hosted repository.
type Releases interface {
	// Latest returns the tag name of the repository's latest release.
	Latest(ctx context.Context, repo string) (string, error)
}

// PullRequests opens pull requests on a hosted repository.
type PullRequests interface {
	Create(ctx context.Context, repo, title, body string) (url string, err error)
}

// GH implements the hosting interfaces on top of the gh CLI.
type GH struct {
	runner *run.Runner
}

// NewGH builds a GH client echoing commands to out.
func NewGH(out io.Writer) *GH {
	return &GH{runner: run.New("", out)}
}

func (g *GH) Latest(ctx context.Context, repo string) (string, error) {
	tag, err := g.runner.Output(ctx, "gh", "release", "view",
		"--repo="+repo, "--json=tagName", "--template={{.tagName}}")
	if err != nil {
		return "", fmt.Errorf("latest release of %s: %w", repo, err)
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", fmt.Errorf("latest release of %s: no release found", repo)
	}
	return tag, nil
}

func (g *GH) Create(ctx context.Context, repo, title, body string) (string, error) {
	url, err := g.runner.Output(ctx, "gh", "pr", "create",
		"--repo="+repo, "--title="+title, "--body="+body)
	if err != nil {
		return "", fmt.Errorf("create pull request on %s: %w", repo, err)
	}
	return strings.TrimSpace(url), nil
}
