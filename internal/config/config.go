// Package config loads the settings of the sqlgen command from flags,
// SQLGEN_ environment variables, .env files and an optional .sqlgen.yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/syssam/sqlgen/dialect"
)

// Keys read from viper.
const (
	KeyDialect  = "dialect"
	KeyDSN      = "dsn"
	KeyPrepared = "prepared"
	KeyLogLevel = "log_level"
	KeyOut      = "out"
	KeyCache    = "cache"
	KeyWorkers  = "workers"
)

// Config holds the resolved settings.
type Config struct {
	Dialect  dialect.Dialect
	DSN      string
	Prepared bool
	LogLevel slog.Level
	// Out is the output directory. Empty writes to stdout.
	Out string
	// Cache is the path of the render cache file. Empty disables it.
	Cache   string
	Workers int
	// File is the config file that was read, if any.
	File string
}

// New returns a viper instance with the defaults, environment binding and
// config file search paths of sqlgen.
func New(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(".sqlgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "sqlgen"))
	}
	v.SetEnvPrefix("SQLGEN")
	v.AutomaticEnv()

	v.SetDefault(KeyPrepared, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyWorkers, runtime.GOMAXPROCS(0))
	return v
}

// Load reads the environment files and the config file, then resolves
// the settings of v. A missing config file is not an error.
//
// .env does not override variables already set; .env.local does.
func Load(fs afero.Fs, v *viper.Viper) (*Config, error) {
	if err := loadEnv(fs, ".env", false); err != nil {
		return nil, err
	}
	if err := loadEnv(fs, ".env.local", true); err != nil {
		return nil, err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	cfg := &Config{
		DSN:      v.GetString(KeyDSN),
		Prepared: v.GetBool(KeyPrepared),
		Out:      v.GetString(KeyOut),
		Cache:    v.GetString(KeyCache),
		Workers:  v.GetInt(KeyWorkers),
		File:     v.ConfigFileUsed(),
	}
	if cfg.DSN == "" {
		cfg.DSN = os.Getenv("DATABASE_URL")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}

	d, err := resolveDialect(v.GetString(KeyDialect), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Dialect = d
	return cfg, nil
}

// resolveDialect prefers an explicit name, then the DSN, then MySQL.
func resolveDialect(name, dsn string) (dialect.Dialect, error) {
	switch {
	case name != "":
		return dialect.Parse(name)
	case dsn != "":
		return dialect.FromDSN(dsn)
	}
	return dialect.MySQL, nil
}

func loadEnv(fs afero.Fs, path string, override bool) error {
	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	for k, val := range env {
		if _, ok := os.LookupEnv(k); ok && !override {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return fmt.Errorf("config: %s: %w", path, err)
		}
	}
	return nil
}
