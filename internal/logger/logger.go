// Package logger builds the zap logger used for efm-perl's own messages.
// It always writes to stderr; stdout carries the diagnostics.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger at the given level. A positive debug counter
// forces the debug level.
func New(level string, debug int) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	if debug > 0 {
		lvl.SetLevel(zapcore.DebugLevel)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().Named("efm-perl"), nil
}
