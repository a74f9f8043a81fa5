// Package config loads the order desk configuration.
//
// Values are resolved in this order, later sources winning: built-in
// defaults, an optional YAML file, ORDERDESK_* environment variables.
// The result is validated before it is returned.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ORDERDESK_"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	HTTP            HTTPConfig    `yaml:"http"`
	GRPC            GRPCConfig    `yaml:"grpc"`
	Catalog         CatalogConfig `yaml:"catalog"`
	Queue           QueueConfig   `yaml:"queue"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Log             LogConfig     `yaml:"log"`
	Redis           RedisConfig   `yaml:"redis"`
	MySQL           MySQLConfig   `yaml:"mysql"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// CatalogConfig points at the catalog file. An empty path selects the
// embedded sample catalog.
type CatalogConfig struct {
	Path     string `yaml:"path"`
	Currency string `yaml:"currency"`
}

// QueueConfig sizes the export queue. Size 0 disables export.
type QueueConfig struct {
	Size    int `yaml:"size"`
	Workers int `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// RedisConfig enables the stock mirror when Addr is set.
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	PoolSize       int           `yaml:"pool_size"`
	Namespace      string        `yaml:"namespace"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

// MySQLConfig enables the ledger when DSN is set.
type MySQLConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func Default() Config {
	return Config{
		HTTP:            HTTPConfig{Addr: ":8080"},
		GRPC:            GRPCConfig{Addr: ":50051"},
		Catalog:         CatalogConfig{Currency: "€"},
		Queue:           QueueConfig{Size: 10000, Workers: 10},
		ShutdownTimeout: 5 * time.Second,
		Log:             LogConfig{Level: "info", Format: "json"},
		Redis:           RedisConfig{PoolSize: 100, IdempotencyTTL: 24 * time.Hour},
		MySQL: MySQLConfig{
			MaxOpenConns:    50,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}
}

// Load resolves the configuration. path may be empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.merge(data); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// LoadFromEnv applies ORDERDESK_* overrides.
func (c *Config) LoadFromEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s=%q: %w", envPrefix, key, v, ErrInvalidConfig)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s=%q: %w", envPrefix, key, v, ErrInvalidConfig)
		}
		*dst = d
		return nil
	}

	str("HTTP_ADDR", &c.HTTP.Addr)
	str("GRPC_ADDR", &c.GRPC.Addr)
	str("CATALOG", &c.Catalog.Path)
	str("CURRENCY", &c.Catalog.Currency)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_NAMESPACE", &c.Redis.Namespace)
	str("MYSQL_DSN", &c.MySQL.DSN)

	return errors.Join(
		num("QUEUE_SIZE", &c.Queue.Size),
		num("WORKERS", &c.Queue.Workers),
		num("REDIS_POOL_SIZE", &c.Redis.PoolSize),
		num("MYSQL_MAX_OPEN_CONNS", &c.MySQL.MaxOpenConns),
		dur("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout),
		dur("REDIS_IDEMPOTENCY_TTL", &c.Redis.IdempotencyTTL),
	)
}

func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig))
	}

	if c.HTTP.Addr == "" {
		invalid("http.addr is required")
	}
	if c.GRPC.Addr == "" {
		invalid("grpc.addr is required")
	}
	if c.Queue.Size < 0 {
		invalid("queue.size %d is negative", c.Queue.Size)
	}
	if c.Queue.Workers < 1 {
		invalid("queue.workers %d must be at least 1", c.Queue.Workers)
	}
	if c.ShutdownTimeout <= 0 {
		invalid("shutdown_timeout must be positive")
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		invalid("log.level %q", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		invalid("log.format %q must be json or console", c.Log.Format)
	}
	if c.Redis.Addr != "" && c.Redis.PoolSize < 1 {
		invalid("redis.pool_size %d must be at least 1", c.Redis.PoolSize)
	}
	if c.MySQL.DSN != "" {
		if _, err := mysql.ParseDSN(c.MySQL.DSN); err != nil {
			invalid("mysql.dsn: %v", err)
		}
	}
	return errors.Join(errs...)
}

// RedisEnabled reports whether the stock mirror is configured.
func (c Config) RedisEnabled() bool { return c.Redis.Addr != "" }

// LedgerEnabled reports whether accepted orders are exported to MySQL.
func (c Config) LedgerEnabled() bool { return c.MySQL.DSN != "" && c.Queue.Size > 0 }
