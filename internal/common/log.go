package common

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/profilehub/internal/timeutil"
)

var (
	loggerOnce  sync.Once
	baseLogger  *zap.Logger
	sugarLogger *zap.SugaredLogger
	loggerErr   error
)

// encodeTimeMicros formats timestamps as RFC 3339 with fixed microsecond precision.
func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

// initLogger lazily constructs the shared zap logger instance.
func initLogger() {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = encodeTimeMicros
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	baseLogger, loggerErr = cfg.Build(zap.AddCaller())
	if loggerErr != nil {
		baseLogger = zap.NewNop()
	}
	sugarLogger = baseLogger.Sugar()
}

// Logger returns the process-wide zap.Logger instance.
func Logger() *zap.Logger {
	loggerOnce.Do(initLogger)
	return baseLogger
}

// Sugar returns a sugared logger sharing the same core as Logger.
func Sugar() *zap.SugaredLogger {
	loggerOnce.Do(initLogger)
	return sugarLogger
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	loggerOnce.Do(initLogger)
	return baseLogger.Sync()
}

// Err reports initialization failure, if any.
func Err() error {
	loggerOnce.Do(initLogger)
	return loggerErr
}
