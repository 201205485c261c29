package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvHome    = "LONGREAD_HOME"
	EnvAPIURL  = "LONGREAD_API_URL"
	EnvFile    = "LONGREAD_FILE"
	EnvTheme   = "LONGREAD_THEME"
	EnvHistory = "LONGREAD_HISTORY"
)

// Config is resolved in layers: defaults, the YAML file, .env in the
// working directory, then the process environment. Flags override last.
type Config struct {
	APIURL      string `yaml:"api_url"`
	File        string `yaml:"file"`
	Theme       string `yaml:"theme"`
	HistoryPath string `yaml:"history"`

	// Dir holds credentials and the default history database.
	Dir string `yaml:"-"`
}

// Dir is the per-user directory: $LONGREAD_HOME, or ~/.longread.
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv(EnvHome)); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".longread"), nil
}

func Default(dir string) Config {
	return Config{
		APIURL:      "http://localhost:3000",
		File:        "longread.json",
		Theme:       "classic",
		HistoryPath: filepath.Join(dir, "history.sqlite"),
		Dir:         dir,
	}
}

// DefaultPath is where Load looks for the YAML file when none is given.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "config.yaml")
}

// Load resolves the configuration. A missing YAML file is fine unless path
// was given explicitly.
func Load(dir, path string) (Config, error) {
	cfg := Default(dir)

	explicit := path != ""
	if !explicit {
		path = DefaultPath(dir)
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	for env, field := range map[string]*string{
		EnvAPIURL:  &cfg.APIURL,
		EnvFile:    &cfg.File,
		EnvTheme:   &cfg.Theme,
		EnvHistory: &cfg.HistoryPath,
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*field = v
		}
	}
	cfg.HistoryPath = expandHome(cfg.HistoryPath)
	return cfg, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
