// Package watch re-runs a callback when Monkey source files change.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors source files and directories for changes
type Watcher struct {
	watcher  *fsnotify.Watcher
	paths    []string
	exts     []string
	debounce time.Duration
	onChange func(path string)
	stdout   io.Writer
	stderr   io.Writer

	// files named explicitly; their parent directories are watched instead
	files map[string]bool
	// directories watched for any matching file
	dirs []string

	mu         sync.Mutex
	lastChange map[string]time.Time
	changeSeq  uint64
}

// New creates a watcher over paths, which may be files or directories.
// Directories are watched recursively for files whose extension is in exts.
func New(paths []string, exts []string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	lower := make([]string, len(exts))
	for i, ext := range exts {
		lower[i] = strings.ToLower(ext)
	}

	return &Watcher{
		watcher:    fsWatcher,
		paths:      paths,
		exts:       lower,
		debounce:   debounce,
		onChange:   onChange,
		stdout:     io.Discard,
		stderr:     io.Discard,
		files:      make(map[string]bool),
		lastChange: make(map[string]time.Time),
	}, nil
}

// SetOutput directs the [WATCH] status lines to stdout and stderr.
func (w *Watcher) SetOutput(stdout, stderr io.Writer) {
	w.stdout = stdout
	w.stderr = stderr
}

// Start registers every path and begins processing events in the background.
func (w *Watcher) Start(ctx context.Context) error {
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}

		if info.IsDir() {
			if err := w.watchDirRecursive(abs); err != nil {
				return fmt.Errorf("watching %s: %w", p, err)
			}
			w.dirs = append(w.dirs, abs)
			w.logInfo("watching directory: %s", p)
			continue
		}

		// Editors often replace files on save, so watch the directory.
		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		w.files[abs] = true
		w.logInfo("watching file: %s", p)
	}

	go w.eventLoop(ctx)
	return nil
}

// Run starts the watcher and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		w.Close()
		return err
	}
	<-ctx.Done()
	return w.Close()
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logError("watcher error: %v", err)
		}
	}
}

// handleEvent filters and debounces a single event, calling onChange when
// it survives both.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only handle write and create events
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.matches(event.Name) {
		return
	}

	w.mu.Lock()
	if last, seen := w.lastChange[event.Name]; seen && time.Since(last) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.lastChange[event.Name] = time.Now()
	w.changeSeq++
	w.mu.Unlock()

	w.logInfo("changed: %s", event.Name)
	if w.onChange != nil {
		w.onChange(event.Name)
	}
}

// matches reports whether path is a named file or a source file under a
// watched directory.
func (w *Watcher) matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}

	if !w.hasSourceExt(abs) {
		return false
	}
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, abs)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

func (w *Watcher) hasSourceExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Changes returns how many changes have been reported so far.
func (w *Watcher) Changes() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changeSeq
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) logInfo(format string, args ...any) {
	fmt.Fprintf(w.stdout, "[WATCH] "+format+"\n", args...)
}

func (w *Watcher) logError(format string, args ...any) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+format+"\n", args...)
}
