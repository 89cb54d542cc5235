// Package watch re-runs a callback when definition files change.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// callback runs.
const DefaultDebounce = 300 * time.Millisecond

// Func is called with the changed files, sorted.
type Func func(ctx context.Context, changed []string) error

// Watcher watches a set of files through their directories.
type Watcher struct {
	files    map[string]string // absolute path -> path as given
	onChange Func
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch events and callback errors.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New returns a watcher for files. Call Run to start it and Close to
// release it.
func New(files []string, onChange Func, opts ...Option) (*Watcher, error) {
	w, err := newWatcher(files, onChange, opts...)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	dirs := make(map[string]bool)
	for abs := range w.files {
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	w.fsw = fsw
	return w, nil
}

func newWatcher(files []string, onChange Func, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]string, len(files)),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
		w.files[abs] = f
	}
	return w, nil
}

// Run blocks until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	return w.loop(ctx, w.fsw.Events, w.fsw.Errors)
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var (
		fire    <-chan time.Time
		pending = make(map[string]bool)
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			name, ok := w.match(ev)
			if !ok {
				continue
			}
			w.logger.Debug("file changed", "file", name, "op", ev.Op.String())
			pending[name] = true
			timer.Reset(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			sort.Strings(changed)
			if err := w.onChange(ctx, changed); err != nil {
				w.logger.Error("watch callback failed", "files", changed, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// match reports whether ev touches a watched file. Editors often replace
// files instead of writing them, so creates and renames count too.
func (w *Watcher) match(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	name, ok := w.files[abs]
	return name, ok
}
