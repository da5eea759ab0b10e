// Package logger builds the process-wide zap logger.
package logger

import "go.uber.org/zap"

// New constructs a production JSON logger at the given level.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	return cfg.Build()
}
