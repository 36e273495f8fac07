// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when library configuration files change.
//
// A Watcher observes a set of library root directories (not their subtrees)
// and fires a debounced callback when a file matching one of its patterns
// changes. Events within the debounce window are coalesced so the callback
// fires once with the full set of changed paths. The directory set can be
// replaced while running, since a rebuild may load different libraries.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/twist/twistconfig/pkg/document"
	"github.com/twist/twistconfig/pkg/library"
)

// defaultDebounce is the delay before firing the onChange callback after the
// last filesystem event.
const defaultDebounce = 300 * time.Millisecond

// ErrInvalidPattern is wrapped by pattern validation errors.
var ErrInvalidPattern = errors.New("invalid watch pattern")

var (
	// defaultPatterns select the files that influence a configuration build.
	defaultPatterns = []string{
		"**/" + document.StaticFileName,
		"**/" + document.DynamicFileName,
		"**/" + library.ManifestFileName,
	}

	// defaultIgnores cover editor swap files and OS metadata.
	defaultIgnores = []string{
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dirs are the library root directories to observe.
		Dirs []string

		// Patterns are doublestar globs matched against the file name and
		// its slash-separated absolute path. Empty means the twist configuration and manifest
		// file names.
		Patterns []string

		// Ignore are additional globs merged with the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each
		// callback.
		ClearScreen bool

		// OnChange receives the sorted, deduplicated absolute paths that
		// changed. When fsnotify drops events the watched directories are
		// reported instead. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr default to os.Stdout / os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Watcher monitors library directories and fires a debounced callback
	// when matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		ignores  []string
		stdout   io.Writer
		stderr   io.Writer
		debounce time.Duration
		started  atomic.Bool

		dirsMu sync.Mutex
		dirs   map[string]struct{}
	}
)

// New creates a Watcher and registers cfg.Dirs.
func New(cfg Config) (*Watcher, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = defaultPatterns
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: slices.Clone(patterns),
		ignores:  ignores,
		stdout:   stdout,
		stderr:   stderr,
		debounce: debounce,
		dirs:     make(map[string]struct{}),
	}

	if err := w.SetDirs(cfg.Dirs); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// SetDirs replaces the observed directory set. Directories that disappeared
// are skipped with a message; any other registration failure is returned.
func (w *Watcher) SetDirs(dirs []string) error {
	want := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("watch: resolve directory %q: %w", dir, err)
		}
		want[abs] = struct{}{}
	}

	w.dirsMu.Lock()
	defer w.dirsMu.Unlock()

	for dir := range w.dirs {
		if _, keep := want[dir]; keep {
			continue
		}
		// the directory may already be gone; fsnotify drops its watch then
		_ = w.fsw.Remove(dir) //nolint:errcheck // best-effort
		delete(w.dirs, dir)
	}

	for _, dir := range slices.Sorted(maps.Keys(want)) {
		if _, have := w.dirs[dir]; have {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(w.stderr, "watch: skipping missing directory %q\n", dir)
				continue
			}
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	return nil
}

// Dirs returns the observed directories in sorted order.
func (w *Watcher) Dirs() []string {
	w.dirsMu.Lock()
	defer w.dirsMu.Unlock()
	return slices.Sorted(maps.Keys(w.dirs))
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes the callback. A fire that
	// lands while a callback is still running reschedules itself.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			fmt.Fprintf(w.stderr, "watch: skipping rebuild (previous run still in progress)\n")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: rebuild failed: %v\n", err)
			}
		}
	}

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		pending[path] = struct{}{}
		if timer == nil {
			timer = time.AfterFunc(w.debounce, fire)
		} else {
			timer.Reset(w.debounce)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if !w.Matches(evt.Name) {
				continue
			}

			schedule(evt.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// events were dropped; report every directory as changed
				fmt.Fprintf(w.stderr, "watch: event queue overflowed, rebuilding\n")
				for _, dir := range w.Dirs() {
					schedule(dir)
				}
				continue
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// isFatal reports whether err leaves the watcher unable to deliver events.
func isFatal(err error) bool {
	return slices.ContainsFunc(fatalErrnos, func(errno syscall.Errno) bool {
		return errors.Is(err, errno)
	})
}

// Matches reports whether path selects a rebuild: it matches a watch pattern
// and no ignore pattern. Patterns are tried against the file name and the
// slash-separated path without its leading separator.
func (w *Watcher) Matches(path string) bool {
	candidates := []string{
		filepath.Base(path),
		strings.TrimPrefix(filepath.ToSlash(path), "/"),
	}
	if matchAny(w.ignores, candidates) {
		return false
	}
	return matchAny(w.patterns, candidates)
}

// DefaultPatterns returns a copy of the built-in watch patterns.
func DefaultPatterns() []string {
	return slices.Clone(defaultPatterns)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func matchAny(patterns, paths []string) bool {
	for _, pat := range patterns {
		for _, path := range paths {
			if matched, err := doublestar.Match(pat, path); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// validatePatterns checks that every pattern is a valid doublestar glob. The
// label (e.g., "watch" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: %s pattern %q: %w", label, pat, ErrInvalidPattern)
		}
	}
	return nil
}
