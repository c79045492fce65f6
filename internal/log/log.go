// Package log provides centralised audit logging for mra operations.
// Logs are stored in ~/.mra/log/mra-log.db and track which files were
// edited with which outcome across repositories.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("edit:fmt", "edit").
//		Path(p).
//		Status(string(res.Status)).
//		Changed(res.Changed).
//		Write(res.Err)
//
// The source parameter follows the format "{command-group}:{command}",
// for example "edit:set", "precommit:add-hook" or "renovate:add-rule".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "edit:fmt", "precommit:add-repo"
	Action string // verb: edit, add, remove, etc.
	Path   string // file the operation targeted
	Repo   string // repository name the session operated on

	// Outcome fields, populated after the operation finishes
	Status  string // committed, skipped or failed
	Changed bool   // whether the file content changed

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call
// [Builder.Write] to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated, as
// "{command-group}:{command}". The action describes what was done:
// "edit", "add", "remove", "preview", etc.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Path sets the file this operation affects.
func (b *Builder) Path(path string) *Builder {
	b.entry.Path = path
	return b
}

// Repo sets the repository name the session operated on.
func (b *Builder) Repo(name string) *Builder {
	b.entry.Repo = name
	return b
}

// Status records the edit outcome: committed, skipped or failed.
func (b *Builder) Status(status string) *Builder {
	b.entry.Status = status
	return b
}

// Changed records whether the file content changed.
func (b *Builder) Changed(changed bool) *Builder {
	b.entry.Changed = changed
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure
// from err. This is the standard way to complete a log entry after an
// operation.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort
// logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path to the repository root.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Recent returns the most recent entries for the current project, newest
// first. With all true, entries from every project are returned.
func Recent(limit int, all bool) ([]Entry, error) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return nil, nil
	}
	return l.recent(limit, all)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
