// Package logging sets up the process-wide structured logger.
package logging

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config returns the zap configuration used by the CLI: human-readable
// output on stderr so stdout carries only the report.
func Config(verbose bool) zap.Config {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Development = false
	cfg.DisableStacktrace = !verbose
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// Init builds the logger and installs it as the otelzap global so call sites
// can use otelzap.Ctx(ctx). The returned func flushes and restores the
// previous globals.
func Init(verbose bool) (*otelzap.Logger, func(), error) {
	zl, err := Config(verbose).Build()
	if err != nil {
		return nil, nil, err
	}

	logger := otelzap.New(zl)
	undoOtel := otelzap.ReplaceGlobals(logger)
	undoZap := zap.ReplaceGlobals(zl)

	return logger, func() {
		_ = zl.Sync()
		undoZap()
		undoOtel()
	}, nil
}
