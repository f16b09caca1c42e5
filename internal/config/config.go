// Package config loads application configuration from environment variables,
// an optional .env file, and an optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Local storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`

	// Local backend.
	LocalDriver string `yaml:"local_driver"`
	DataPath    string `yaml:"data_path"`
	DBPath      string `yaml:"db_path"`

	// Remote backend. Enabled when both token and repo are set.
	GitHubToken  string `yaml:"github_token"`
	GitHubRepo   string `yaml:"github_repo"`
	GitHubBranch string `yaml:"github_branch"`
	GitHubPath   string `yaml:"github_path"`
}

// HasGitHubStorage returns true when both GitHubToken and GitHubRepo are
// non-empty. Used by the composition root to decide whether to create the
// GitHub-backed store.
func (c *Config) HasGitHubStorage() bool {
	return c.GitHubToken != "" && c.GitHubRepo != ""
}

// SlogLevel parses LogLevel. Load has already validated it.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads configuration and returns a validated Config. Sources, lowest
// precedence first: built-in defaults, the YAML file named by
// BINVAULT_CONFIG_PATH, then environment variables (a .env file in the working
// directory is loaded into the environment first without overriding it).
//
// Optional variables with defaults: BINVAULT_LISTEN_ADDR (127.0.0.1:8080),
// BINVAULT_LOG_LEVEL (info), BINVAULT_LOCAL_DRIVER (json),
// BINVAULT_DATA_PATH (bins.json), BINVAULT_DB_PATH (binvault.db),
// BINVAULT_GITHUB_BRANCH (main), BINVAULT_GITHUB_PATH (bins.json).
// BINVAULT_GITHUB_TOKEN and BINVAULT_GITHUB_REPO have no default; the
// unprefixed GITHUB_TOKEN, GITHUB_REPO and GITHUB_BRANCH are accepted too.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:   "127.0.0.1:8080",
		LogLevel:     "info",
		LocalDriver:  DriverJSON,
		DataPath:     "bins.json",
		DBPath:       "binvault.db",
		GitHubBranch: "main",
		GitHubPath:   "bins.json",
	}

	if path, ok := os.LookupEnv("BINVAULT_CONFIG_PATH"); ok && path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	overrideFromEnv(&cfg.ListenAddr, "BINVAULT_LISTEN_ADDR")
	overrideFromEnv(&cfg.LogLevel, "BINVAULT_LOG_LEVEL")
	overrideFromEnv(&cfg.LocalDriver, "BINVAULT_LOCAL_DRIVER")
	overrideFromEnv(&cfg.DataPath, "BINVAULT_DATA_PATH")
	overrideFromEnv(&cfg.DBPath, "BINVAULT_DB_PATH")
	overrideFromEnv(&cfg.GitHubToken, "BINVAULT_GITHUB_TOKEN", "GITHUB_TOKEN")
	overrideFromEnv(&cfg.GitHubRepo, "BINVAULT_GITHUB_REPO", "GITHUB_REPO")
	overrideFromEnv(&cfg.GitHubBranch, "BINVAULT_GITHUB_BRANCH", "GITHUB_BRANCH")
	overrideFromEnv(&cfg.GitHubPath, "BINVAULT_GITHUB_PATH")

	cfg.GitHubRepo = strings.TrimSpace(cfg.GitHubRepo)
	if cfg.GitHubBranch == "" {
		cfg.GitHubBranch = "main"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LocalDriver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("BINVAULT_LOCAL_DRIVER has invalid value %q: expected %q or %q", c.LocalDriver, DriverJSON, DriverSQLite)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("BINVAULT_LOG_LEVEL has invalid value %q: %w", c.LogLevel, err)
	}

	if c.GitHubRepo != "" && !isValidRepoName(c.GitHubRepo) {
		return fmt.Errorf("BINVAULT_GITHUB_REPO has invalid value %q: expected owner/repo", c.GitHubRepo)
	}

	if c.GitHubPath == "" {
		return fmt.Errorf("BINVAULT_GITHUB_PATH must not be empty")
	}

	return nil
}

// overrideFromEnv sets *dst from the first key that is present and non-empty.
func overrideFromEnv(dst *string, keys ...string) {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
			return
		}
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// isValidRepoName validates that name is in owner/repo format where each part
// contains only alphanumeric characters, hyphens, dots, or underscores.
func isValidRepoName(name string) bool {
	parts := strings.SplitN(name, "/", 3)
	if len(parts) != 2 {
		return false
	}

	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, ch := range part {
			if !isValidRepoChar(ch) {
				return false
			}
		}
	}

	return true
}

func isValidRepoChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}
