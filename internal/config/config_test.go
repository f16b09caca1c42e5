package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"BINVAULT_CONFIG_PATH",
	"BINVAULT_LISTEN_ADDR",
	"BINVAULT_LOG_LEVEL",
	"BINVAULT_LOCAL_DRIVER",
	"BINVAULT_DATA_PATH",
	"BINVAULT_DB_PATH",
	"BINVAULT_GITHUB_TOKEN",
	"BINVAULT_GITHUB_REPO",
	"BINVAULT_GITHUB_BRANCH",
	"BINVAULT_GITHUB_PATH",
	"GITHUB_TOKEN",
	"GITHUB_REPO",
	"GITHUB_BRANCH",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment (e.g. a CI runner's GITHUB_TOKEN).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "binvault.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverJSON, cfg.LocalDriver)
	assert.Equal(t, "bins.json", cfg.DataPath)
	assert.Equal(t, "binvault.db", cfg.DBPath)
	assert.Equal(t, "main", cfg.GitHubBranch)
	assert.Equal(t, "bins.json", cfg.GitHubPath)
	assert.False(t, cfg.HasGitHubStorage())
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("BINVAULT_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("BINVAULT_LOG_LEVEL", "debug")
	t.Setenv("BINVAULT_LOCAL_DRIVER", "sqlite")
	t.Setenv("BINVAULT_DB_PATH", "/tmp/test.db")
	t.Setenv("BINVAULT_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("BINVAULT_GITHUB_REPO", "owner/repo")
	t.Setenv("BINVAULT_GITHUB_BRANCH", "data")
	t.Setenv("BINVAULT_GITHUB_PATH", "store/bins.json")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, DriverSQLite, cfg.LocalDriver)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.Equal(t, "owner/repo", cfg.GitHubRepo)
	assert.Equal(t, "data", cfg.GitHubBranch)
	assert.Equal(t, "store/bins.json", cfg.GitHubPath)
	assert.True(t, cfg.HasGitHubStorage())
}

func TestLoad_TokenWithoutRepoUsesLocal(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("BINVAULT_GITHUB_TOKEN", "ghp_test123")

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.HasGitHubStorage())
}

func TestLoad_UnprefixedGitHubVars(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_plain")
	t.Setenv("GITHUB_REPO", "plain/repo")
	t.Setenv("GITHUB_BRANCH", "gh-pages")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_plain", cfg.GitHubToken)
	assert.Equal(t, "plain/repo", cfg.GitHubRepo)
	assert.Equal(t, "gh-pages", cfg.GitHubBranch)
	assert.True(t, cfg.HasGitHubStorage())
}

func TestLoad_PrefixedVarsWin(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_plain")
	t.Setenv("BINVAULT_GITHUB_TOKEN", "ghp_prefixed")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_prefixed", cfg.GitHubToken)
}

func TestLoad_EmptyBranchDefaultsToMain(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("BINVAULT_GITHUB_BRANCH", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "main", cfg.GitHubBranch)
}

func TestLoad_InvalidRepo(t *testing.T) {
	for _, repo := range []string{"no-slash", "a/b/c", "/repo", "owner/", "own er/repo"} {
		t.Run(repo, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("BINVAULT_GITHUB_REPO", repo)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "BINVAULT_GITHUB_REPO")
		})
	}
}

func TestLoad_InvalidLocalDriver(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("BINVAULT_LOCAL_DRIVER", "postgres")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BINVAULT_LOCAL_DRIVER")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("BINVAULT_LOG_LEVEL", "loud")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BINVAULT_LOG_LEVEL")
}

func TestLoad_YAMLFile(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfigFile(t, `
listen_addr: 0.0.0.0:7070
local_driver: sqlite
github_repo: yaml/repo
github_token: ghp_yaml
`)
	t.Setenv("BINVAULT_CONFIG_PATH", path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7070", cfg.ListenAddr)
	assert.Equal(t, DriverSQLite, cfg.LocalDriver)
	assert.Equal(t, "yaml/repo", cfg.GitHubRepo)
	assert.Equal(t, "main", cfg.GitHubBranch)
	assert.True(t, cfg.HasGitHubStorage())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfigFile(t, "listen_addr: 0.0.0.0:7070\ndata_path: /data/bins.json\n")
	t.Setenv("BINVAULT_CONFIG_PATH", path)
	t.Setenv("BINVAULT_LISTEN_ADDR", "127.0.0.1:9999")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.Equal(t, "/data/bins.json", cfg.DataPath)
}

func TestLoad_MissingYAMLFile(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("BINVAULT_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_MalformedYAMLFile(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("BINVAULT_CONFIG_PATH", writeConfigFile(t, "listen_addr: [unterminated"))

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}
