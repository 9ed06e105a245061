// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds on library changes.
//
// It monitors a library root and the configuration files in effect with
// fsnotify and invokes a callback after a configurable debounce period. Events within the debounce window are
// coalesced so the callback fires once with the full set of changed paths,
// and a callback that outlives the window is never run concurrently with
// itself.
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
	"sync"
	"strings"
	"sync/atomic"
	"time"

	"github.com/globdeck/globdeck/internal/scan"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the onChange callback after the
// last filesystem event. This allows rapid successive events (e.g., an editor
// writing then renaming a temp file) to coalesce into a single callback.
const defaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Ignorer excludes paths from watching. nil applies only the built-in
		// scan ignores; pass the library's ignorer so the watcher and the
		// scanner agree on what belongs to the library.
		Ignorer *scan.Ignorer

		// Files are extra files watched by path, such as the configuration
		// file in effect. They are reported even when ignored or outside
		// BaseDir. A file need not exist yet, but its directory must.
		Files []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen controls whether the terminal is cleared before each
		// callback invocation by writing ANSI escape sequences to Stdout.
		ClearScreen bool

		// BaseDir is the root directory to watch. An empty value defaults to
		// the current working directory.
		BaseDir string

		// OnChange is called after the debounce window closes with the sorted,
		// deduplicated list of changed paths (slash-separated, relative to
		// BaseDir; entries of Files outside BaseDir start with ".."). A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// OnReload is called before OnChange when a batch includes one of
		// Files. It reports its own errors; when it fails, OnChange is
		// skipped for that batch.
		OnReload func(ctx context.Context) error

		// Stdout receives the clear-screen sequence. nil means os.Stdout.
		Stdout io.Writer

		// Logger receives diagnostics. nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors a directory tree and fires a debounced callback when
	// matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignorer  atomic.Pointer[scan.Ignorer]
		files    map[string]string
		stdout   io.Writer
		logger   *log.Logger
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}
)

// New creates a Watcher from the given Config. It resolves BaseDir to an
// absolute path, initialises the underlying fsnotify watcher, and registers
// all non-ignored directories under BaseDir, plus the directory of every
// entry in Files, for monitoring.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	ignorer := cfg.Ignorer
	if ignorer == nil {
		if ignorer, err = scan.NewIgnorer(nil); err != nil {
			return nil, err
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		files:    make(map[string]string, len(cfg.Files)),
		stdout:   stdout,
		logger:   logger,
		debounce: debounce,
		baseDir:  absBase,
	}
	w.ignorer.Store(ignorer)

	err = w.addDirectories()
	if err == nil {
		err = w.addFiles()
	}
	if err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// SetIgnorer replaces the ignore rules applied to later events, for example
// after the configuration was reloaded. A nil ignorer is ignored. Directories
// already watched stay watched.
func (w *Watcher) SetIgnorer(ig *scan.Ignorer) {
	if ig != nil {
		w.ignorer.Store(ig)
	}
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		reload  bool
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes the callbacks. A fire that
	// finds a previous callback still running re-arms the timer instead of
	// running concurrently, so pending events are delivered once it finishes.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("skipping rebuild, previous run still in progress")
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
		reloaded := reload
		reload = false
		mu.Unlock()

		if w.cfg.ClearScreen {
			// ANSI escape: clear screen and move cursor to top-left.
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		w.logger.Debug("change detected", "paths", len(changed), "reload", reloaded)
		if reloaded && w.cfg.OnReload != nil {
			if err := w.cfg.OnReload(ctx); err != nil {
				w.logger.Debug("reload failed, skipping rebuild", "error", err)
				return
			}
		}
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}
		}
	}

	// schedule records name as changed and restarts the debounce window.
	schedule := func(name string, file bool) {
		mu.Lock()
		defer mu.Unlock()
		pending[name] = struct{}{}
		reload = reload || file
		if timer == nil {
			timer = time.AfterFunc(w.debounce, fire)
		} else {
			timer.Reset(w.debounce)
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil {
			localTimer.Stop()
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			if name, ok := w.files[filepath.Clean(evt.Name)]; ok {
				schedule(name, true)
				continue
			}

			rel := w.relName(evt.Name)
			if !isLocal(rel) {
				// A sibling of a watched file outside BaseDir.
				continue
			}
			if w.ignorer.Load().Ignored(rel) {
				continue
			}

			// Auto-add newly created directories so recursive watches
			// extend to directories created after startup.
			if evt.Has(fsnotify.Create) && w.maybeAddDir(evt.Name, rel) {
				w.logger.Debug("watching new directory", "path", rel)
			}
			schedule(rel, false)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if exhausted(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// addDirectories walks BaseDir and adds every non-ignored directory to the
// fsnotify watcher.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			// Skip directories we cannot access rather than aborting the walk.
			w.logger.Warn("skipping inaccessible path", "path", path, "error", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}

		if rel != "." && w.ignorer.Load().IgnoredDir(rel) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir adds path to the fsnotify watcher if it is a non-ignored
// directory and reports whether it did.
func (w *Watcher) maybeAddDir(path, rel string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	if w.ignorer.Load().IgnoredDir(rel) {
		return false
	}
	if addErr := w.fsw.Add(path); addErr != nil {
		w.logger.Warn("add new directory", "path", path, "error", addErr)
		return false
	}
	return true
}

// addFiles watches the directory of every configured file, so that editors
// which replace a file by renaming over it are still observed.
func (w *Watcher) addFiles() error {
	for _, f := range w.cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch: resolve file %q: %w", f, err)
		}
		w.files[abs] = w.relName(abs)
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch: add directory of %q: %w", f, err)
		}
	}
	return nil
}

// relName returns path relative to BaseDir in slash form. Paths outside
// BaseDir come back with a leading "..".
func (w *Watcher) relName(path string) string {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func isLocal(rel string) bool {
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// exhausted reports whether err is a platform resource limit after which
// the watcher cannot recover.
func exhausted(err error) bool {
	for _, target := range exhaustionErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
