package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	apiinternal "github.com/janisto/profilehub/internal/api"
	appmiddleware "github.com/janisto/profilehub/internal/middleware"
)

const (
	msgNotFound          = "Route not found"
	msgMethodNotAllowed  = "Method not allowed"
	msgValidationFailed  = "Validation failed"
	msgInternalServerErr = "Internal server error"
)

var installOnce sync.Once

// exposeDetail controls whether underlying fault detail is included in error
// envelopes. Enabled outside production only.
var exposeDetail atomic.Bool

// SetDebug toggles fault-detail exposure in error responses.
func SetDebug(enabled bool) {
	exposeDetail.Store(enabled)
}

// Install ensures huma renders every error, including its own request schema
// failures, as the shared envelope. Schema failures surface as 400 with a
// field error list rather than huma's default 422 problem document.
func Install() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return statusError(context.Background(), status, msg, fieldErrorsFromErrors(errs), errs...)
		}

		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			goCtx := context.Background()
			if hctx != nil {
				goCtx = hctx.Context()
			}
			return statusError(goCtx, status, msg, fieldErrorsFromErrors(errs), errs...)
		}
	})
}

// Error returns a status error rendered as the shared envelope.
func Error(ctx context.Context, status int, msg string, fieldErrors []apiinternal.FieldError, errs ...error) huma.StatusError {
	return statusError(ctx, status, msg, fieldErrors, errs...)
}

// Write serializes an envelope directly to the ResponseWriter, for handlers
// living outside huma (the router's 404/405 and the panic recoverer).
func Write[T any](w http.ResponseWriter, status int, env apiinternal.Envelope[T]) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(env)
}

// WriteError renders an error envelope with optional field errors, logging as needed.
func WriteError(w http.ResponseWriter, ctx context.Context, status int, msg string, fieldErrors []apiinternal.FieldError, errs ...error) error {
	se := statusError(ctx, status, msg, fieldErrors, errs...)
	env, ok := se.(*statusEnvelopeError)
	if !ok {
		return se
	}
	return Write(w, se.GetStatus(), env.Envelope)
}

// NotFoundHandler emits a shared-envelope 404 for unmatched routes.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := WriteError(w, r.Context(), http.StatusNotFound, msgNotFound, nil); err != nil {
			appmiddleware.LogError(r.Context(), "failed to render not found", err)
		}
	}
}

// MethodNotAllowedHandler emits a shared-envelope 405 response.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := WriteError(w, r.Context(), http.StatusMethodNotAllowed, msgMethodNotAllowed, nil); err != nil {
			appmiddleware.LogError(r.Context(), "failed to render method not allowed", err)
		}
	}
}

// Recoverer converts panics into structured 500 envelopes. The stack trace is
// attached to the fault detail, which only reaches the client in debug mode.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					var err error
					switch v := rec.(type) {
					case error:
						err = v
					default:
						err = fmt.Errorf("%v", v)
					}
					err = fmt.Errorf("%w\n%s", err, debug.Stack())
					if writeErr := WriteError(w, r.Context(), http.StatusInternalServerError, msgInternalServerErr, nil, err); writeErr != nil {
						appmiddleware.LogError(r.Context(), "failed to render internal error", writeErr)
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusEnvelopeError struct {
	apiinternal.Envelope[struct{}]
	status int
}

func (e *statusEnvelopeError) Error() string {
	if e.Envelope.Message != "" {
		return e.Envelope.Message
	}
	return http.StatusText(e.status)
}

func (e *statusEnvelopeError) GetStatus() int {
	return e.status
}

func statusError(ctx context.Context, status int, msg string, fieldErrors []apiinternal.FieldError, errs ...error) huma.StatusError {
	// The external contract reports malformed input as 400; huma raises its
	// own schema failures as 422.
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
		msg = msgValidationFailed
	}
	if strings.TrimSpace(msg) == "" {
		msg = http.StatusText(status)
	}

	joined := joinErrors(errs)
	logWithStatus(ctx, status, msg, joined, fieldErrors)

	env := apiinternal.Failure[struct{}](msg, fieldErrors)
	if joined != nil && exposeDetail.Load() {
		env.Detail = joined.Error()
	}
	return &statusEnvelopeError{Envelope: env, status: status}
}

// fieldErrorsFromErrors extracts field locations from huma's error details.
func fieldErrorsFromErrors(errs []error) []apiinternal.FieldError {
	var fieldErrors []apiinternal.FieldError
	for _, err := range errs {
		if err == nil {
			continue
		}
		fe := apiinternal.FieldError{Message: err.Error()}
		if detailer, ok := err.(huma.ErrorDetailer); ok {
			if detail := detailer.ErrorDetail(); detail != nil {
				fe.Message = detail.Message
				fe.Field = strings.TrimPrefix(detail.Location, "body.")
			}
		}
		fieldErrors = append(fieldErrors, fe)
	}
	return fieldErrors
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

func logWithStatus(ctx context.Context, status int, msg string, err error, fieldErrors []apiinternal.FieldError) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("message", msg),
	}
	if len(fieldErrors) > 0 {
		fields = append(fields, zap.Any("errors", fieldErrors))
	}
	switch {
	case status >= 500:
		appmiddleware.LogError(ctx, msg, err, fields...)
	case status >= 400:
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		appmiddleware.LogWarn(ctx, msg, fields...)
	default:
		appmiddleware.LogInfo(ctx, msg, fields...)
	}
}
