package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orderdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.LedgerEnabled())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
catalog:
  path: /etc/orderdesk/catalog.yaml
queue:
  size: 50
  workers: 2
shutdown_timeout: 10s
log:
  level: debug
  format: console
redis:
  addr: localhost:6379
  idempotency_ttl: 1h
mysql:
  dsn: "root:root@tcp(localhost:3306)/orderdesk?parseTime=true"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, ":50051", cfg.GRPC.Addr)
	assert.Equal(t, "/etc/orderdesk/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, "€", cfg.Catalog.Currency)
	assert.Equal(t, QueueConfig{Size: 50, Workers: 2}, cfg.Queue)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, 100, cfg.Redis.PoolSize)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.LedgerEnabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "http:\n  addr: \":9090\"\nqueue:\n  workers: 2\n")
	t.Setenv("ORDERDESK_HTTP_ADDR", ":7070")
	t.Setenv("ORDERDESK_WORKERS", "4")
	t.Setenv("ORDERDESK_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("ORDERDESK_CURRENCY", "$")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, 4, cfg.Queue.Workers)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "$", cfg.Catalog.Currency)
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv("ORDERDESK_QUEUE_SIZE", "lots")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "ORDERDESK_QUEUE_SIZE")
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "htp:\n  addr: x\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty http addr", func(c *Config) { c.HTTP.Addr = "" }},
		{"empty grpc addr", func(c *Config) { c.GRPC.Addr = "" }},
		{"negative queue", func(c *Config) { c.Queue.Size = -1 }},
		{"no workers", func(c *Config) { c.Queue.Workers = 0 }},
		{"zero shutdown", func(c *Config) { c.ShutdownTimeout = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"redis without pool", func(c *Config) { c.Redis.Addr = "localhost:6379"; c.Redis.PoolSize = 0 }},
		{"bad dsn", func(c *Config) { c.MySQL.DSN = "root@tcp(localhost:3306" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLedgerDisabledWithoutQueue(t *testing.T) {
	cfg := Default()
	cfg.MySQL.DSN = "root:root@tcp(localhost:3306)/orderdesk"
	cfg.Queue.Size = 0
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.LedgerEnabled())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	logger, err = NewLogger(LogConfig{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLogger(LogConfig{Level: "info", Format: "xml"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
