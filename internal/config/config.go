// Package config loads settings for the d1 command line tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config files are read from and written to.
var AppFs = afero.NewOsFs()

const (
	configName = ".go-d1"
	envPrefix  = "GO_D1"
)

// Config holds the application configuration
type Config struct {
	// Database is the SQLite file (or DSN) the CLI opens.
	Database      string
	Debug         bool
	LogJSON       bool
	WatchDebounce time.Duration
	// File is the config file that was read, empty when none was found.
	File string
}

// Option adjusts how Load searches for configuration.
type Option func(*viper.Viper)

// WithConfigFile reads exactly the given file instead of searching.
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) {
		v.SetConfigFile(path)
	}
}

// Load reads .go-d1.yaml from the working directory, $HOME or
// $HOME/.config/go-d1, then applies .env, .env.local and GO_D1_* variables.
// D1_DATABASE is accepted in place of GO_D1_DATABASE. A missing config file
// is not an error.
func Load(opts ...Option) (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "go-d1"))

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("database", envPrefix+"_DATABASE", "D1_DATABASE")

	v.SetDefault("database", "d1.sqlite")
	v.SetDefault("debug", false)
	v.SetDefault("log_json", false)
	v.SetDefault("watch_debounce", 500*time.Millisecond)

	for _, opt := range opts {
		opt(v)
	}

	var file string
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		file = v.ConfigFileUsed()
	}

	// .env files fill variables that are not already set; .env.local wins.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		Database:      v.GetString("database"),
		Debug:         v.GetBool("debug"),
		LogJSON:       v.GetBool("log_json"),
		WatchDebounce: v.GetDuration("watch_debounce"),
		File:          file,
	}

	return cfg, nil
}

// Save writes cfg to $HOME/.config/go-d1/.go-d1.yaml and returns the path.
func Save(cfg *Config) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", "go-d1")
	if err := AppFs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, configName+".yaml")
	return path, SaveAs(cfg, path)
}

// SaveAs writes cfg to path.
func SaveAs(cfg *Config, path string) error {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("database", cfg.Database)
	v.Set("debug", cfg.Debug)
	v.Set("log_json", cfg.LogJSON)
	v.Set("watch_debounce", cfg.WatchDebounce.String())
	return v.WriteConfigAs(path)
}
