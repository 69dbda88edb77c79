// file: internal/middleware/structured_logger.go
package middleware

import (
	"net/http"
	"time"

	"skillbridge/internal/contextutils"

	"go.uber.org/zap"
)

// LoggingConfig holds configuration for structured logging middleware
type LoggingConfig struct {
	SlowRequestThreshold time.Duration `json:"slow_request_threshold"`
	LogUserAgent         bool          `json:"log_user_agent"`
}

// DefaultLoggingConfig returns production-ready logging configuration
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SlowRequestThreshold: 1 * time.Second,
		LogUserAgent:         true,
	}
}

// statusRecorder captures the status code and body size written downstream
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// StructuredLogging logs one line per completed request with status, duration
// and correlation ID, warning on slow or failed requests.
func StructuredLogging(logger *zap.Logger, config *LoggingConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Duration("duration", duration),
				zap.Int("bytes", recorder.bytes),
				zap.String("remote_addr", r.RemoteAddr),
			}
			if requestID, ok := contextutils.GetRequestID(r.Context()); ok {
				fields = append(fields, zap.String("request_id", requestID))
			}
			if config.LogUserAgent {
				fields = append(fields, zap.String("user_agent", r.UserAgent()))
			}

			switch {
			case recorder.status >= http.StatusInternalServerError:
				logger.Error("Request completed", fields...)
			case recorder.status >= http.StatusBadRequest || duration > config.SlowRequestThreshold:
				logger.Warn("Request completed", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
		})
	}
}
