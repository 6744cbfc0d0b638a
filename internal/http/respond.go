package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/domain/dto"
	"github.com/skyfare/farecalc-service/internal/i18n"
	"github.com/skyfare/farecalc-service/internal/middleware"
)

// Envelope pools for the pricing routes. A display response is rebuilt for
// every entry, so pooling the envelopes keeps the hot /price path from
// allocating fresh DTOs per request. Gin serializes synchronously, which
// makes returning an envelope right after c.JSON safe.
var (
	successEnvelopes = sync.Pool{
		New: func() interface{} {
			return &dto.SuccessResponse{}
		},
	}

	errorEnvelopes = sync.Pool{
		New: func() interface{} {
			return &dto.ErrorResponse{}
		},
	}
)

func claimSuccessEnvelope() *dto.SuccessResponse {
	resp := successEnvelopes.Get().(*dto.SuccessResponse)
	resp.Data = nil
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	return resp
}

func claimErrorEnvelope() *dto.ErrorResponse {
	resp := errorEnvelopes.Get().(*dto.ErrorResponse)
	resp.Error = ""
	resp.Message = ""
	resp.Details = nil
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	resp.TraceID = ""
	return resp
}

// ResponseBuilder writes the service's response envelopes: rendered displays
// and config documents on success, translated error codes on failure.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends data wrapped in the success envelope.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	resp := claimSuccessEnvelope()
	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	b.c.JSON(statusCode, resp)
	successEnvelopes.Put(resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated sends a 201 Created response with the given data.
func (b *ResponseBuilder) SuccessCreated(data interface{}) {
	b.Success(http.StatusCreated, data)
}

// Error aborts the request with a translated error envelope. The message key
// is resolved against the request's Accept-Language; err, when present, is
// attached to the context for the error handler middleware to log.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	locale := i18n.GetLocale(b.c)

	resp := claimErrorEnvelope()
	resp.Error = dto.ErrCodeFromStatus(statusCode)
	resp.Message = i18n.GetTranslator().Translate(messageKey, locale)
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	if err != nil {
		_ = b.c.Error(err)
	}

	b.c.AbortWithStatusJSON(statusCode, resp)
	errorEnvelopes.Put(resp)
}
