// Package logger builds the structured loggers every other package in Ignite
// accepts as a constructor dependency. Keeping construction in one place means
// callers never choose an encoding or log level ad hoc, and tests can swap in
// a no-op logger without touching the packages that consume it.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-shaped *zap.SugaredLogger tagged with the given
// service name. It logs JSON at info level and above to stderr, matching the
// teacher's usage of zap.SugaredLogger throughout internal/engine,
// internal/index and internal/storage.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap's production config is validated at compile time by its own test
		// suite; a build failure here means the process environment itself is
		// broken (e.g. stderr unavailable), so fall back to a no-op logger
		// rather than panic during store construction.
		return zap.NewNop().Sugar()
	}

	return log.Sugar().With("service", service)
}

// Noop returns a logger that discards everything, for tests that only care
// about behavior, not log output.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
