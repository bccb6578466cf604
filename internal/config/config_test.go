package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "/api/tasks", cfg.Server.BasePath)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 200, cfg.Validation.MaxTitleLength)
	assert.True(t, cfg.IsDevelopment())
	require.NoError(t, cfg.ValidateConfig())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskdeck.yaml")
	content := `
server:
  http_port: "9090"
  base_path: /v1/tasks
  request_timeout: 3s
database:
  driver: sqlite3
  dsn: "file:test.db"
tasks:
  timezone: Europe/Moscow
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://127.0.0.1:3000, http://localhost:3000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.HTTPPort, "env overrides file")
	assert.Equal(t, "/v1/tasks", cfg.Server.BasePath)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, []string{"http://127.0.0.1:3000", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
	require.NoError(t, cfg.ValidateConfig())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad http port", func(c *Config) { c.Server.HTTPPort = "http" }},
		{"base path without slash", func(c *Config) { c.Server.BasePath = "api/tasks" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"sqlite without dsn", func(c *Config) { c.Database.Driver = DriverSQLite; c.Database.DSN = "" }},
		{"unknown zone", func(c *Config) { c.Tasks.TimeZone = "Mars/Olympus" }},
		{"title limit below minimum", func(c *Config) { c.Validation.MaxTitleLength = 3 }},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "TRACE" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.ValidateConfig())
		})
	}
}

func TestValidateConfig_MemoryDriver(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = DriverMemory
	cfg.Database.Host = ""
	assert.NoError(t, cfg.ValidateConfig())
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = DriverSQLite
	cfg.Validation.MaxTitleLength = 80

	db := cfg.ToDatabaseConfig()
	assert.Equal(t, "sqlite3", db.Driver)
	assert.Equal(t, cfg.Database.DSN, db.DSN)
	assert.Equal(t, cfg.Database.ConnMaxLifetime, db.ConnMaxLifetime)

	v := cfg.ToValidationConfig()
	assert.Equal(t, 80, v.MaxTitleLength)
	assert.Equal(t, 5000, v.MaxDescriptionLength)
}
