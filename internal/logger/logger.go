// Package logger builds the zap loggers used by the CLI.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a production logger writing JSON to stderr. debug lowers the
// level to Debug; otherwise only warnings and errors are written so that command
// output on stdout stays clean.
func NewLogger(debug bool) *zap.Logger {
	if debug {
		return build(zapcore.DebugLevel)
	}
	return build(zapcore.WarnLevel)
}

// NewLoggerLevel is NewLogger with an explicit level name ("debug", "info", ...).
func NewLoggerLevel(level string) *zap.Logger {
	return build(ParseLevel(level))
}

// ParseLevel maps a config level name to a zap level. Unknown names yield Warn.
func ParseLevel(name string) zapcore.Level {
	var lvl zapcore.Level
	if name == "" {
		return zapcore.WarnLevel
	}
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}

func build(lvl zapcore.Level) *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		// 로거를 만들 수 없으면 조용히 진행한다.
		return zap.NewNop()
	}

	return logger
}
