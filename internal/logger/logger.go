// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger for env "production" and a development
// logger otherwise, and installs it as the zap global.
func New(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(l)
	return l, nil
}

// Named returns l.Named(name), falling back to the global logger when l is nil.
func Named(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		l = zap.L()
	}
	return l.Named(name)
}
