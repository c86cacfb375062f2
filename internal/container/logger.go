package container

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger: "json" uses the production config, anything else
// the development console config.
func NewLogger(format, level string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}

	cfg.Level = atomic

	return cfg.Build()
}
