// file: internal/response/response.go
package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"skillbridge/internal/contextutils"
	"skillbridge/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder helps construct standardized responses
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Success creates a successful API response
func (b *Builder) Success(ctx context.Context, data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: b.getRequestID(ctx),
		Timestamp: time.Now().Unix(),
	}
}

// Error creates an error response from a service error
func (b *Builder) Error(ctx context.Context, err error) *APIResponse {
	detail := b.convertError(err)

	b.logError(ctx, err, detail)

	return &APIResponse{
		Success:   false,
		Error:     detail,
		RequestID: b.getRequestID(ctx),
		Timestamp: time.Now().Unix(),
	}
}

// ===============================
// HTTP WRITERS
// ===============================

// WriteSuccess writes a 200 response with data
func (b *Builder) WriteSuccess(ctx context.Context, w http.ResponseWriter, data interface{}) {
	b.writeJSON(w, http.StatusOK, b.Success(ctx, data))
}

// WriteCreated writes a 201 response with data
func (b *Builder) WriteCreated(ctx context.Context, w http.ResponseWriter, data interface{}) {
	b.writeJSON(w, http.StatusCreated, b.Success(ctx, data))
}

// WriteNoContent writes a 204 response
func (b *Builder) WriteNoContent(_ context.Context, w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error response with the status the error carries
func (b *Builder) WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if svcErr := services.GetServiceError(err); svcErr != nil {
		status = svcErr.GetStatusCode()
	}
	b.writeJSON(w, status, b.Error(ctx, err))
}

// WriteBadRequest writes a 400 response with a message
func (b *Builder) WriteBadRequest(ctx context.Context, w http.ResponseWriter, message string) {
	b.writeJSON(w, http.StatusBadRequest, &APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Type:    "VALIDATION_ERROR",
			Message: message,
			Code:    "BAD_REQUEST",
		},
		RequestID: b.getRequestID(ctx),
		Timestamp: time.Now().Unix(),
	})
}

// WriteUnauthorized writes a 401 response
func (b *Builder) WriteUnauthorized(ctx context.Context, w http.ResponseWriter, message string) {
	if message == "" {
		message = "authentication required"
	}
	b.writeJSON(w, http.StatusUnauthorized, &APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Type:    "UNAUTHORIZED",
			Message: message,
			Code:    "UNAUTHORIZED",
		},
		RequestID: b.getRequestID(ctx),
		Timestamp: time.Now().Unix(),
	})
}

// WriteNotFound writes a 404 response
func (b *Builder) WriteNotFound(ctx context.Context, w http.ResponseWriter, message string) {
	b.writeJSON(w, http.StatusNotFound, &APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Type:    "NOT_FOUND",
			Message: message,
			Code:    "NOT_FOUND",
		},
		RequestID: b.getRequestID(ctx),
		Timestamp: time.Now().Unix(),
	})
}

func (b *Builder) writeJSON(w http.ResponseWriter, status int, payload *APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// ===============================
// HELPERS
// ===============================

// convertError maps service errors onto the wire shape, masking internals
func (b *Builder) convertError(err error) *ErrorDetail {
	svcErr := services.GetServiceError(err)
	if svcErr == nil {
		return &ErrorDetail{
			Type:    "INTERNAL_ERROR",
			Message: "An internal error occurred",
			Code:    "INTERNAL_ERROR",
		}
	}

	detail := &ErrorDetail{
		Type:    string(svcErr.Type),
		Message: svcErr.Message,
		Code:    svcErr.Code,
		Details: svcErr.Details,
	}

	if svcErr.GetStatusCode() >= http.StatusInternalServerError {
		detail.Message = "An internal error occurred"
		detail.Details = nil
	}

	return detail
}

func (b *Builder) logError(ctx context.Context, err error, detail *ErrorDetail) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_type", detail.Type),
		zap.String("error_code", detail.Code),
	}
	if requestID := b.getRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	if svcErr := services.GetServiceError(err); svcErr != nil && svcErr.GetStatusCode() < http.StatusInternalServerError {
		b.logger.Warn("Request failed", fields...)
		return
	}
	b.logger.Error("Request failed", fields...)
}

func (b *Builder) getRequestID(ctx context.Context) string {
	if requestID, ok := contextutils.GetRequestID(ctx); ok {
		return requestID
	}
	return ""
}
