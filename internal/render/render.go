// Package render compiles definition documents into SQL scripts.
package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/sqlgen/dialect"
	"github.com/syssam/sqlgen/dialect/sql"
	"github.com/syssam/sqlgen/internal/document"
)

// Renderer renders documents from a filesystem.
type Renderer struct {
	fs       afero.Fs
	dialect  dialect.Dialect
	prepared bool
	workers  int
	logger   *slog.Logger
	cache    *Cache
	stats    *Stats

	mu sync.Mutex
	// keys holds the last cache key of each path, so that the entry of a
	// previous version of a file is evicted once the file changes.
	keys map[string]uint64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDialect sets the dialect of documents that do not name one.
// The default is MySQL.
func WithDialect(d dialect.Dialect) Option {
	return func(r *Renderer) { r.dialect = d }
}

// WithPrepared renders queries with bind markers followed by an args comment.
func WithPrepared(on bool) Option {
	return func(r *Renderer) { r.prepared = on }
}

// WithWorkers bounds the number of documents rendered at once.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger for per-file events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithCache serves unchanged documents from c.
func WithCache(c *Cache) Option {
	return func(r *Renderer) { r.cache = c }
}

// New returns a Renderer reading from fs.
func New(fs afero.Fs, opts ...Option) *Renderer {
	r := &Renderer{
		fs:      fs,
		dialect: dialect.MySQL,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		stats:   &Stats{},
		keys:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats returns the counters of r.
func (r *Renderer) Stats() *Stats { return r.stats }

// Result is a rendered document.
type Result struct {
	Path       string
	Dialect    dialect.Dialect
	Text       string
	Statements int
	Cached     bool
}

// RenderFile renders the document at path.
func (r *Renderer) RenderFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { r.stats.Duration.Add(int64(time.Since(start))) }()

	res, err := r.renderFile(path)
	if err != nil {
		r.stats.Errors.Add(1)
		r.logger.Error("render failed", "file", path, "error", err)
		return nil, err
	}
	r.stats.Files.Add(1)
	r.stats.Statements.Add(int64(res.Statements))
	if res.Cached {
		r.stats.CacheHits.Add(1)
	}
	r.logger.Debug("rendered", "file", path, "dialect", res.Dialect, "statements", res.Statements,
		"cached", res.Cached, "duration", time.Since(start))
	return res, nil
}

func (r *Renderer) renderFile(path string) (*Result, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	var key uint64
	if r.cache != nil {
		key = CacheKey(data, r.dialect, r.prepared)
		r.track(path, key)
		if e, ok := r.cache.Get(key); ok {
			return &Result{Path: path, Dialect: e.Dialect, Text: e.Text, Statements: e.Statements, Cached: true}, nil
		}
	}
	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.ToSlash(path), err)
	}
	d := r.effective(doc)
	text, err := Compile(doc, d, r.prepared)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.ToSlash(path), err)
	}
	if r.cache != nil {
		r.cache.Set(key, CacheEntry{Dialect: d, Text: text, Statements: len(doc.Statements)})
	}
	return &Result{Path: path, Dialect: d, Text: text, Statements: len(doc.Statements)}, nil
}

// track records key as the current cache key of path and evicts the
// entry of the previous one.
func (r *Renderer) track(path string, key uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.keys[path]; ok && prev != key {
		r.cache.Delete(prev)
		r.logger.Debug("evicted stale cache entry", "file", path)
	}
	r.keys[path] = key
}

func (r *Renderer) effective(doc *document.Document) dialect.Dialect {
	if doc.Dialect != "" {
		return doc.Dialect
	}
	return r.dialect
}

// RenderFiles renders paths concurrently. Results keep the order of
// paths. The first error cancels the remaining work.
func (r *Renderer) RenderFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)
	for i, p := range paths {
		eg.Go(func() error {
			res, err := r.RenderFile(ctx, p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Compile renders every statement of doc for d, one per paragraph. In
// prepared mode, statements with arguments are followed by an
// "-- args:" comment listing them as literals.
func Compile(doc *document.Document, d dialect.Dialect, prepared bool) (string, error) {
	var b strings.Builder
	for i, s := range doc.Statements {
		out, err := s.Compile(d, prepared)
		if err != nil {
			return "", fmt.Errorf("statement %d (%s): %w", i, s.Kind, err)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(out.SQL)
		b.WriteString("\n")
		if len(out.Args) > 0 {
			args := make([]string, len(out.Args))
			for j, a := range out.Args {
				lit, err := sql.Stringify(a)
				if err != nil {
					return "", fmt.Errorf("statement %d (%s): %w", i, s.Kind, err)
				}
				args[j] = lit
			}
			b.WriteString("-- args: ")
			b.WriteString(strings.Join(args, ", "))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// OutputPath returns the script path of a document written to dir:
// the base name with its extension replaced by .sql.
func OutputPath(dir, path string) string {
	base := filepath.Base(path)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".sql")
}

// Write stores res under dir on the renderer's filesystem and returns the
// written path.
func (r *Renderer) Write(res *Result, dir string) (string, error) {
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("render: create output directory: %w", err)
	}
	out := OutputPath(dir, res.Path)
	if err := afero.WriteFile(r.fs, out, []byte(res.Text), 0o644); err != nil {
		return "", fmt.Errorf("render: write %s: %w", out, err)
	}
	r.logger.Info("wrote", "file", out, "statements", res.Statements)
	return out, nil
}
