package dto

import (
	"net/http"
	"time"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// Wire-level error codes. These are stable identifiers the point-of-sale
// front ends key their own messaging on; the human-readable message next
// to them is localized per Accept-Language.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInternal       = "internal_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeConflict       = "conflict"
	ErrCodeUnprocessable  = "unprocessable_entity"
	ErrCodeTimeout        = "timeout"
)

// statusCodes maps HTTP statuses onto wire error codes. Statuses without
// an entry report internal_error.
var statusCodes = map[int]string{
	http.StatusBadRequest:          ErrCodeInvalidRequest,
	http.StatusUnauthorized:        ErrCodeUnauthorized,
	http.StatusForbidden:           ErrCodeForbidden,
	http.StatusNotFound:            ErrCodeNotFound,
	http.StatusConflict:            ErrCodeConflict,
	http.StatusUnprocessableEntity: ErrCodeUnprocessable,
	http.StatusTooManyRequests:     ErrCodeRateLimit,
	http.StatusRequestTimeout:      ErrCodeTimeout,
	http.StatusGatewayTimeout:      ErrCodeTimeout,
}

// ErrCodeFromStatus returns the wire error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return ErrCodeInternal
}

// PriceResult is the rendered fare calculation payload.
// @Description Rendered fare calculation display
type PriceResult struct {
	// Display is the formatted multi-line fare calculation display.
	Display string `json:"display"`
	// Lines is Display split per terminal line.
	Lines []string `json:"lines"`
	// Messages are the collected trailer/warning records across all options.
	Messages []model.FcMessage `json:"messages,omitempty"`
} // @name PriceResult

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data carries the payload (PriceResult for the pricing endpoint).
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse is the envelope for every non-2xx reply.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"pax_types: at least one passenger type is required"`
	// Details carries per-field validation messages when present.
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-01-28T10:00:00Z"`
	TraceID   string            `json:"trace_id,omitempty" example:"trace-123"`
} // @name ErrorResponse

// NewError builds an ErrorResponse stamped with the current time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID returns a copy carrying the request ID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}
