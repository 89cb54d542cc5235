package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/sqlgen/dialect"
	"github.com/syssam/sqlgen/internal/config"
	"github.com/syssam/sqlgen/internal/document"
)

// app is the state shared by the commands of one invocation.
type app struct {
	fs     afero.Fs
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, v: config.New(fs)}
	var configFile string

	cmd := &cobra.Command{
		Use:   "sqlgen",
		Short: "Render SQL scripts from YAML definitions",
		Long: "sqlgen turns YAML documents describing tables, databases and queries\n" +
			"into SQL for MySQL, PostgreSQL, SQLite and SQL Server.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configFile != "" {
				a.v.SetConfigFile(configFile)
			}
			cfg, err := config.Load(a.fs, a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
			if cfg.File != "" {
				a.logger.Debug("using config file", "file", cfg.File)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default .sqlgen.yaml)")
	pf.String("dialect", "", "target dialect: mysql, postgres, sqlite or sqlserver")
	pf.String("dsn", "", "database URL the dialect is inferred from")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.Int(config.KeyWorkers, 0, "documents rendered concurrently (default GOMAXPROCS)")
	bind(a.v, config.KeyDialect, pf.Lookup("dialect"))
	bind(a.v, config.KeyDSN, pf.Lookup("dsn"))
	bind(a.v, config.KeyLogLevel, pf.Lookup("log-level"))
	bind(a.v, config.KeyWorkers, pf.Lookup(config.KeyWorkers))

	cmd.AddCommand(
		newRenderCommand(a),
		newCheckCommand(a),
		newGenCommand(a),
		newDialectsCommand(a),
		newVersionCommand(),
	)
	return cmd
}

// bind panics on a nil flag, which only a typo in this package can cause.
func bind(v *viper.Viper, key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// load decodes the documents at paths.
func (a *app) load(paths []string) ([]*document.Document, error) {
	docs := make([]*document.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := document.Load(a.fs, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// dialectOf returns the dialect doc renders for.
func (a *app) dialectOf(doc *document.Document) dialect.Dialect {
	if doc.Dialect != "" {
		return doc.Dialect
	}
	return a.cfg.Dialect
}
