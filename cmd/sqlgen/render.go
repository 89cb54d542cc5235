package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/sqlgen/internal/config"
	"github.com/syssam/sqlgen/internal/render"
	"github.com/syssam/sqlgen/internal/watch"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		watchFiles bool
		clearCache bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render documents to SQL",
		Long: "Render each document to SQL. Scripts go to stdout, or to <name>.sql\n" +
			"in the --out directory. With --watch, documents are rendered again\n" +
			"whenever they change.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, cache, err := a.renderer(clearCache)
			if err != nil {
				return err
			}
			run := func(ctx context.Context, paths []string) error {
				return a.render(ctx, r, cache, cmd.OutOrStdout(), paths)
			}
			if !watchFiles {
				return run(cmd.Context(), args)
			}
			if err := run(cmd.Context(), args); err != nil {
				a.logger.Error("initial render failed", "error", err)
			}
			w, err := watch.New(args, run, watch.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer w.Close()
			a.logger.Info("watching for changes", "files", len(args))
			return w.Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.Bool("prepared", false, "render queries with bind markers and an args comment")
	f.StringP("out", "o", "", "output directory (default stdout)")
	f.String("cache", "", "cache file for unchanged documents")
	f.BoolVar(&clearCache, "clear-cache", false, "drop every cache entry before rendering")
	f.BoolVarP(&watchFiles, "watch", "w", false, "render again when documents change")
	bind(a.v, config.KeyPrepared, f.Lookup("prepared"))
	bind(a.v, config.KeyOut, f.Lookup("out"))
	bind(a.v, config.KeyCache, f.Lookup("cache"))
	return cmd
}

func (a *app) renderer(clearCache bool) (*render.Renderer, *render.Cache, error) {
	opts := []render.Option{
		render.WithDialect(a.cfg.Dialect),
		render.WithPrepared(a.cfg.Prepared),
		render.WithWorkers(a.cfg.Workers),
		render.WithLogger(a.logger),
	}
	var cache *render.Cache
	if a.cfg.Cache != "" {
		c, err := render.LoadCache(a.fs, a.cfg.Cache)
		if err != nil {
			return nil, nil, err
		}
		if clearCache {
			a.logger.Info("cache cleared", "file", a.cfg.Cache, "entries", c.Len())
			c.Clear()
		}
		cache = c
		opts = append(opts, render.WithCache(c))
	}
	return render.New(a.fs, opts...), cache, nil
}

// render renders paths to out, or to the output directory when one is
// configured. Multiple scripts on out are headed by their file name.
func (a *app) render(ctx context.Context, r *render.Renderer, cache *render.Cache, out io.Writer, paths []string) error {
	r.Stats().Reset()
	results, err := r.RenderFiles(ctx, paths)
	if err != nil {
		return err
	}
	for i, res := range results {
		if a.cfg.Out != "" {
			if _, err := r.Write(res, a.cfg.Out); err != nil {
				return err
			}
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		if len(results) > 1 {
			fmt.Fprintf(out, "-- %s\n", res.Path)
		}
		fmt.Fprint(out, res.Text)
	}
	if cache != nil {
		if err := cache.Save(a.fs, a.cfg.Cache); err != nil {
			return err
		}
	}
	a.logger.Info("render complete", "stats", r.Stats().Snapshot().String())
	return nil
}
