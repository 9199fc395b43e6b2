package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process logger: JSON in production, console when dev is set.
func New(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}
