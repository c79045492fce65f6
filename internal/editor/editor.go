// Package editor opens files in the operator's editor and blocks until
// they confirm the manual round is done. Files left empty after the
// session are removed again.
package editor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dkw-au/mra/internal/run"
)

// DefaultEditor is used when neither the session nor $EDITOR names one.
const DefaultEditor = "vim"

// Editor launches an interactive editor on files, one at a time.
type Editor struct {
	Command string
	In      io.Reader
	Out     io.Writer
}

// New builds an Editor resolving the command from $EDITOR when command is
// empty.
func New(command string, in io.Reader, out io.Writer) *Editor {
	if command == "" {
		command = os.Getenv("EDITOR")
	}
	if command == "" {
		command = DefaultEditor
	}
	return &Editor{Command: command, In: in, Out: out}
}

// Open edits each file in turn. Missing files are created first so the
// editor has something to open, and files still empty afterwards are
// removed. After each file the operator confirms with enter.
func (e *Editor) Open(ctx context.Context, paths ...string) error {
	r := run.New("", e.Out)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		fmt.Fprintln(e.Out, abs)

		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("prepare %s for editing: %w", path, err)
		}
		f.Close()

		if err := r.Command(ctx, e.Command, path); err != nil {
			return fmt.Errorf("editor on %s: %w", path, err)
		}

		fmt.Fprintln(e.Out, "Press enter to continue")
		bufio.NewReader(e.In).ReadString('\n')

		if info, err := os.Stat(path); err == nil && info.Size() == 0 {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove empty %s: %w", path, err)
			}
		}
	}
	return nil
}
