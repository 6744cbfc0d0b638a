package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/domain/dto"
	"github.com/skyfare/farecalc-service/internal/i18n"
	"github.com/skyfare/farecalc-service/internal/logger"
)

// ErrorHandler logs context errors accumulated during the request and,
// when no handler has written a reply yet, answers with a localized 500
// envelope. Handlers that already rendered their own error keep it.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		requestID := GetRequestID(c)

		lg := logger.Logger()
		lg.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Err(err).
			Msg("Entry processing error")

		if c.Writer.Written() {
			return
		}

		msg := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
		c.JSON(http.StatusInternalServerError,
			dto.NewError(dto.ErrCodeInternal, msg).WithRequestID(requestID))
	}
}
