// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs handler-level failures with consistent request context
// before an error envelope is written.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger wraps a zap logger for handler error reporting.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogError records an operation failure with method/path context.
func (l *ErrorLogger) LogError(r *http.Request, op string, err error) {
	l.log.Error(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}

// LogWarn records a non-fatal handler condition.
func (l *ErrorLogger) LogWarn(r *http.Request, op string, err error) {
	l.log.Warn(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}
