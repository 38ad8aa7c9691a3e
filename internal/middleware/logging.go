package middleware

import (
	"context"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/profilehub/internal/common"
)

type (
	ctxLoggerKey    struct{}
	ctxRequestIDKey struct{}
)

// RequestLogger enriches the request context with a zap logger carrying the
// request identifier, so every log line within a request correlates.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := common.Logger()
			if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
				logger = logger.With(zap.String("requestId", reqID))
				ctx = context.WithValue(ctx, ctxRequestIDKey{}, reqID)
			}
			ctx = context.WithValue(ctx, ctxLoggerKey{}, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger writes structured request summaries using the request-scoped logger.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			LoggerFromContext(r.Context()).Info(
				"request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// LoggerFromContext returns the request-scoped logger if present, otherwise
// the process-wide logger.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return common.Logger()
	}
	if l, ok := ctx.Value(ctxLoggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return common.Logger()
}

// RequestIDFromContext returns the request identifier if one was assigned.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// LogInfo writes an informational message using the request-aware logger.
func LogInfo(ctx context.Context, msg string, fields ...zap.Field) {
	LoggerFromContext(ctx).Info(msg, fields...)
}

// LogWarn writes a warning message using the request-aware logger.
func LogWarn(ctx context.Context, msg string, fields ...zap.Field) {
	LoggerFromContext(ctx).Warn(msg, fields...)
}

// LogError writes an error message using the request-aware logger and appends
// the error field when provided.
func LogError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	logger := LoggerFromContext(ctx)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Error(msg, fields...)
}

// LogFatal logs with fatal severity and terminates the process.
func LogFatal(ctx context.Context, msg string, err error, fields ...zap.Field) {
	logger := LoggerFromContext(ctx)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Fatal(msg, fields...)
}
