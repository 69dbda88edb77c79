// File: internal/middleware/recovery.go
package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"

	"skillbridge/internal/contextutils"

	"go.uber.org/zap"
)

// Recovery converts downstream panics into 500 responses. The stack trace
// goes to the log, never to the client.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := make([]byte, 8192)
					stack = stack[:runtime.Stack(stack, false)]

					fields := []zap.Field{
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", stack),
					}
					if requestID, ok := contextutils.GetRequestID(r.Context()); ok {
						fields = append(fields, zap.String("request_id", requestID))
					}
					logger.Error("Panic recovered", fields...)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"success": false,
						"error": map[string]string{
							"type":    "INTERNAL_ERROR",
							"message": "An internal error occurred",
							"code":    "INTERNAL_ERROR",
						},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
