package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a JSON production logger or a console development
// logger at the configured level.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("log format %q: %w", cfg.Format, ErrInvalidConfig)
	}
	zc.Level = level
	return zc.Build()
}
