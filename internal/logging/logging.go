// Package logging builds the zap logger shared by the CLI, service and server.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/seqalign/internal/config"
)

// New creates a logger from cfg: the development preset (console encoder,
// stack traces on warn) when cfg.Development is set, the production preset
// (JSON, sampling) otherwise. cfg.Level overrides the preset level.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}

	return logger.With(zap.String("service", "seqalign")), nil
}

// NewWriter is New with every entry written to w instead of stderr.
// The CLI uses it so command output and logs can be captured separately.
func NewWriter(cfg config.LogConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var enc zapcore.Encoder
	if cfg.Development {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)

	return zap.New(core).With(zap.String("service", "seqalign")), nil
}

// Sync flushes logger, ignoring the harmless errors returned for
// stdout/stderr on some platforms.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
