package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// isolate runs the test in an empty working directory and home so that no
// real config or .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("SKILLISSUE_BASE_PATH", filepath.Join(dir, "base"))
	return dir
}

// unsetForTest clears key for the duration of the test and restores it afterwards.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, catalog.AgentClaudeCode, cfg.DefaultAgent())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, filepath.Join(dir, "base", "catalog.db"), cfg.Database.DSN)
	assert.Equal(t, filepath.Join(dir, "base", "seed.lock"), cfg.Seed.LockFile)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"data"}, cfg.Seed.Paths)
	assert.Equal(t, uint(3), cfg.Seed.Retries)
	assert.Equal(t, 500*time.Millisecond, cfg.Seed.Debounce)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "skillissue", cfg.Tracing.ServiceName)
	assert.Equal(t, "info", cfg.Logger().Level)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".skillissue"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".skillissue", "config.yaml"), []byte(`
log_level: debug
agent: cursor
server:
  port: 9090
  cors_origins:
    - "*.skillissue.world"
  shutdown_timeout: 3s
seed:
  paths: [skills, extra]
tracing:
  enabled: true
  sampler: ratio
  ratio: 0.25
`), 0o644))

	t.Setenv("SKILLISSUE_SERVER_HOST", "0.0.0.0")
	t.Setenv("SKILLISSUE_LOG_FORMAT", "json")
	t.Setenv("SKILLISSUE_SEED_DEBOUNCE", "2s")
	t.Setenv("SKILLISSUE_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, catalog.AgentCursor, cfg.DefaultAgent())
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"skills", "extra"}, cfg.Seed.Paths)
	assert.Equal(t, 2*time.Second, cfg.Seed.Debounce)
	assert.True(t, cfg.Tracing.Enabled)
	assert.InDelta(t, 0.25, cfg.Tracing.SamplerRatio, 1e-9)
}

func TestInitExplicitConfigFile(t *testing.T) {
	dir := isolate(t)

	v := viper.New()
	err := Init(v, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: postgres\n  dsn: postgres://localhost/skills\n"), 0o644))
	v = viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/skills", cfg.Database.DSN)
	assert.Empty(t, cfg.Seed.LockFile)
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	unsetForTest(t, "SKILLISSUE_AGENT")
	t.Setenv("SKILLISSUE_LOG_LEVEL", "warn")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SKILLISSUE_AGENT=gemini-cli\nSKILLISSUE_LOG_LEVEL=trace\n"), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, catalog.AgentGeminiCLI, cfg.DefaultAgent())
	assert.Equal(t, "warn", cfg.LogLevel, "existing environment wins over .env")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: "sqlite", DSN: "catalog.db"},
			Server:   ServerConfig{Host: "localhost", Port: 8080},
			Seed:     SeedConfig{Retries: 3},
			Agent:    "claude-code",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unsupported database driver: mysql"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Database = DatabaseConfig{Driver: "postgres"} }, wantErr: "database.dsn is required"},
		{name: "empty host", mutate: func(c *Config) { c.Server.Host = "" }, wantErr: "server.host cannot be empty"},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "between 1 and 65535, got 70000"},
		{name: "no retries", mutate: func(c *Config) { c.Seed.Retries = 0 }, wantErr: "seed.retries"},
		{name: "bad ratio", mutate: func(c *Config) { c.Tracing.SamplerRatio = 2 }, wantErr: "tracing.ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUnknownAgentFallsBack(t *testing.T) {
	cfg := Config{Agent: "vim"}
	assert.Equal(t, catalog.DefaultAgent, cfg.DefaultAgent())
}
