// Package edit implements the scoped document edit lifecycle: load a file
// through a format adapter, hand the parsed tree to a mutation body, and
// write the serialization back only when it differs from the post-load
// baseline. Comparing serializations rather than raw bytes means cosmetic
// differences the adapter normalizes away never count as changes.
package edit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"golang.org/x/term"

	"github.com/dkw-au/mra/internal/diff"
	"github.com/dkw-au/mra/internal/editor"
	"github.com/dkw-au/mra/internal/run"
)

// DebugEnv, when set, turns pre-commit check failures into an interactive
// repair round: the check re-runs with colour and the file opens in the
// operator's editor.
const DebugEnv = "MRA_DEBUG"

// PreCommitConfig is the file whose presence enables post-write checks.
const PreCommitConfig = ".pre-commit-config.yaml"

// Adapter converts between a file's text and an editable tree. Dump must
// be deterministic so the post-load serialization can serve as the
// change-detection baseline, and must map an empty tree to "".
type Adapter[T any] interface {
	Load(text string) (T, error)
	Dump(tree T) (string, error)
	Empty() T
}

// Status is the outcome of one scoped edit.
type Status string

const (
	// Committed means the file was written (or removed).
	Committed Status = "committed"
	// Skipped means the edit produced no change to persist.
	Skipped Status = "skipped"
	// Failed means the mutation body failed and the file was left alone.
	Failed Status = "failed"
)

// Options tunes a scoped edit.
type Options struct {
	// Force writes the file even when the serialization is unchanged.
	Force bool
	// DiffOnly previews the change as a unified diff instead of writing.
	DiffOnly bool
	// Checks runs pre-commit against the file after a write.
	Checks bool
	// OnModified runs once before a changed file is written or previewed.
	// Callers use it to register companion state, such as the format hook
	// for the file's type.
	OnModified func(ctx context.Context) error
	// Out receives command echo, failure reports and diff previews.
	// Defaults to os.Stderr.
	Out io.Writer
}

// Result describes what one scoped edit did.
type Result struct {
	Status Status
	// Changed means the edited serialization differs from the post-load
	// baseline, so the mutation body changed the logical content.
	Changed bool
	// Reformatted means the serialization differs from the bytes that were
	// on disk. A canonicalizing rewrite is Reformatted but not Changed.
	Reformatted bool
	Diff        string
	Err         error
}

// Apply loads path through the adapter, runs fn on the tree and persists
// the outcome. A load or dump failure on the way in is returned as the
// error, aborting callers that batch over many files. Failures inside fn
// are contained: the file stays untouched and the Result carries the
// error. A non-nil Result.Err together with Committed means the file was
// written but its post-write check failed.
func Apply[T any](ctx context.Context, path string, a Adapter[T], opts Options, fn func(tree T) error) (Result, error) {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}

	raw, err := os.ReadFile(path)
	existed := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Result{Status: Failed, Err: err}, fmt.Errorf("read %s: %w", path, err)
	}

	var tree T
	if existed {
		tree, err = a.Load(string(raw))
		if err != nil {
			err = fmt.Errorf("load %s: %w", path, err)
			return Result{Status: Failed, Err: err}, err
		}
	} else {
		tree = a.Empty()
	}

	baseline, err := a.Dump(tree)
	if err != nil {
		err = fmt.Errorf("serialize baseline of %s: %w", path, err)
		return Result{Status: Failed, Err: err}, err
	}

	if err := contain(path, opts.Out, func() error { return fn(tree) }); err != nil {
		return Result{Status: Failed, Err: err}, nil
	}

	edited, err := a.Dump(tree)
	if err != nil {
		fmt.Fprintf(opts.Out, "Error serializing %s: %s\n", path, err)
		return Result{Status: Failed, Err: err}, nil
	}

	if edited == "" {
		// Remove only when the body emptied the document. A file that was
		// already empty after load must survive a no-op scope.
		if !existed || edited == baseline {
			return Result{Status: Skipped}, nil
		}
		if err := os.Remove(path); err != nil {
			return Result{Status: Failed, Err: err}, nil
		}
		return Result{Status: Committed, Changed: true, Reformatted: true}, nil
	}

	changed := edited != baseline || !existed
	reformatted := !existed || edited != string(raw)
	if !changed && !opts.Force {
		return Result{Status: Skipped}, nil
	}

	if opts.OnModified != nil {
		if err := opts.OnModified(ctx); err != nil {
			return Result{Status: Failed, Err: err}, nil
		}
	}

	if opts.DiffOnly {
		// A forced preview shows what the write would do to the on-disk
		// bytes, cosmetic canonicalization included.
		base := baseline
		if opts.Force {
			base = string(raw)
		}
		d := diff.Compute(base, edited, path+" (current)", path+" (edited)")
		fmt.Fprint(opts.Out, d.Format(isTerminal(opts.Out)))
		return Result{Status: Skipped, Changed: changed, Reformatted: reformatted, Diff: d.Diff}, nil
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{Status: Failed, Err: err}, nil
		}
	}
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		return Result{Status: Failed, Err: err}, nil
	}

	res := Result{Status: Committed, Changed: changed, Reformatted: reformatted}
	if opts.Checks {
		res.Err = check(ctx, path, opts.Out)
	}
	return res, nil
}

// isTerminal reports whether the writer is an interactive terminal, in
// which case diff previews are coloured.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// contain runs body and converts a panic into an error, printing a
// structured report either way so batch runs show which file failed and
// how.
func contain(path string, out io.Writer, body func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("edit of %s panicked: %v", path, r)
			fmt.Fprintf(out, "Error editing %s\npanic: %v\n%s", path, r, debug.Stack())
		}
	}()
	if err = body(); err != nil {
		fmt.Fprintf(out, "Error editing %s: %s\n", path, err)
	}
	return err
}

// check runs pre-commit against the freshly written file when the project
// carries a pre-commit configuration. With MRA_DEBUG set, a failing check
// re-runs with colour and opens the file for a manual repair round.
func check(ctx context.Context, path string, out io.Writer) error {
	if _, err := os.Stat(PreCommitConfig); err != nil {
		return nil
	}
	r := run.New("", out)
	err := r.Command(ctx, "pre-commit", "run", "--color=never", "--files", path)
	if err == nil {
		return nil
	}
	if os.Getenv(DebugEnv) != "" {
		_ = r.Command(ctx, "pre-commit", "run", "--color=always", "--files", path)
		e := editor.New("", os.Stdin, out)
		if editErr := e.Open(ctx, path); editErr == nil {
			return nil
		}
	}
	return fmt.Errorf("pre-commit checks on %s: %w", path, err)
}
