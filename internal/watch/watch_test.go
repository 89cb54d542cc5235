package watch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan struct{}
	err   error
}

func newRecorder() *recorder { return &recorder{ch: make(chan struct{}, 16)} }

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return r.err
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not called")
	}
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func TestWatcher_Debounce(t *testing.T) {
	rec := newRecorder()
	w, err := newWatcher([]string{"defs/a.yaml", "defs/b.yaml"}, rec.onChange, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.loop(ctx, events, errs) }()

	events <- fsnotify.Event{Name: "defs/b.yaml", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "defs/a.yaml", Op: fsnotify.Create}
	events <- fsnotify.Event{Name: "defs/b.yaml", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "defs/other.yaml", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "defs/a.yaml", Op: fsnotify.Chmod}
	rec.wait(t)
	assert.Equal(t, [][]string{{"defs/a.yaml", "defs/b.yaml"}}, rec.snapshot())

	events <- fsnotify.Event{Name: "defs/a.yaml", Op: fsnotify.Rename}
	rec.wait(t)
	assert.Equal(t, []string{"defs/a.yaml"}, rec.snapshot()[1])

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_CallbackError(t *testing.T) {
	var logs bytes.Buffer
	rec := newRecorder()
	rec.err = errors.New("boom")
	w, err := newWatcher([]string{"a.yaml"}, rec.onChange,
		WithDebounce(time.Millisecond), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	done := make(chan error, 1)
	go func() { done <- w.loop(context.Background(), events, errs) }()

	events <- fsnotify.Event{Name: "a.yaml", Op: fsnotify.Write}
	rec.wait(t)
	errs <- errors.New("overflow")
	close(events)
	require.NoError(t, <-done)
	assert.Contains(t, logs.String(), "watch callback failed")
	assert.Contains(t, logs.String(), "overflow")
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte("statements: []\n"), 0o644))

	rec := newRecorder()
	w, err := New([]string{path}, rec.onChange, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("statements: [ ]\n"), 0o644))
	rec.wait(t)
	assert.Equal(t, []string{path}, rec.snapshot()[0])
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "a.yaml")}, func(context.Context, []string) error { return nil })
	require.Error(t, err)
}
