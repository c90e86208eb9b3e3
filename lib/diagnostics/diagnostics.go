// METADATA
//
// Package diagnostics - Structured Stderr Sink
//
// Component Type: LIBRARY - logging facade
// Role: The one place every component writes a diagnostic, so every line
// carries the same prefix and structured fields
//
// Purpose & Function: Wraps a package-level zap logger, selected between
// development and production encoder config on an environment variable.
// Every call site funnels through Warn/Error/Sync here instead of calling
// fmt.Fprintln(os.Stderr, ...) directly.
//
// Dependencies: go.uber.org/zap.
package diagnostics

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const prefix = "[quadruple-verify]"

var (
	once   sync.Once
	logger *zap.Logger
)

// Logger returns the process-wide diagnostics logger, building it on first
// use. QUADRUPLE_VERIFY_DEBUG=1 selects a human-readable development
// encoder; otherwise a compact production JSON encoder is used, matching
// the dev/production split of mcpproxy's logger setup.
func Logger() *zap.Logger {
	once.Do(func() {
		var cfg zap.Config
		if os.Getenv("QUADRUPLE_VERIFY_DEBUG") != "" {
			cfg = zap.NewDevelopmentConfig()
		} else {
			cfg = zap.NewProductionConfig()
			cfg.EncoderConfig.TimeKey = "ts"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			l = zap.NewNop()
		}
		logger = l.With(zap.String("component", prefix))
	})
	return logger
}

// Warn emits a warning-level diagnostic. Callers should use this for every
// fail-open degradation described by the error handling design: config
// errors, rule errors, state-file errors, and audit errors all warn and
// continue rather than propagating.
func Warn(msg string, fields ...zap.Field) {
	Logger().Warn(msg, fields...)
}

// Error emits an error-level diagnostic for conditions the supervisor
// recovers from but that an operator should be able to see.
func Error(msg string, fields ...zap.Field) {
	Logger().Error(msg, fields...)
}

// Sync flushes any buffered log entries. Hook processes are short-lived, so
// main() should defer this before exit.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
