// Package run executes external commands for the editing core: the
// post-write verifier, the editor launcher and the hosting CLI.
//
// Every invocation is echoed to the output writer as "$ cmd args" so a
// batch run over many repositories leaves a readable trail of what was
// executed where. Commands block until completion; there is no timeout
// unless the MRA_COMMAND_TIMEOUT environment variable supplies one.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// TimeoutEnv is the environment variable holding an optional duration
// (Go syntax, e.g. "90s") applied to every external command.
const TimeoutEnv = "MRA_COMMAND_TIMEOUT"

// Runner executes commands in a fixed directory, echoing them to Out.
type Runner struct {
	// Dir is the working directory for commands. Empty means inherit.
	Dir string
	// Out receives the echo line and, for Command, the process output.
	Out io.Writer
}

// New returns a Runner writing to out.
func New(dir string, out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	return &Runner{Dir: dir, Out: out}
}

// Command runs a command, streaming its combined output to Out.
func (r *Runner) Command(ctx context.Context, name string, args ...string) error {
	cmd, cancel := r.prepare(ctx, name, args)
	defer cancel()
	cmd.Stdout = r.Out
	cmd.Stderr = r.Out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Output runs a command and returns its trimmed standard output.
// Standard error passes through to Out.
func (r *Runner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd, cancel := r.prepare(ctx, name, args)
	defer cancel()
	var stdout strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = r.Out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *Runner) prepare(ctx context.Context, name string, args []string) (*exec.Cmd, context.CancelFunc) {
	fmt.Fprintf(r.Out, "$ %s\n", Quote(append([]string{name}, args...)))

	cancel := context.CancelFunc(func() {})
	if d := Timeout(); d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	return cmd, cancel
}

// Timeout returns the duration configured through TimeoutEnv, or zero.
// An unparseable value counts as unset.
func Timeout() time.Duration {
	v := os.Getenv(TimeoutEnv)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Quote renders an argv the way a shell user would type it, quoting only
// arguments that need it.
func Quote(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = quoteArg(a)
	}
	return strings.Join(parts, " ")
}

func quoteArg(a string) string {
	if a == "" {
		return "''"
	}
	if !strings.ContainsAny(a, " \t\n'\"\\$&|;<>()*?[]{}~#") {
		return a
	}
	return "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
}
