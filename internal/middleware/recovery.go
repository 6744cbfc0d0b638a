package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/farecalc-service/internal/domain/dto"
	"github.com/skyfare/farecalc-service/internal/i18n"
	"github.com/skyfare/farecalc-service/internal/logger"
)

// Recovery converts a panic during entry processing into a 500 reply.
// The stack is logged with the request ID so the failing entry can be
// matched against the journal.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID := GetRequestID(c)
				lg := logger.ForComponent("recovery")
				lg.Error().
					Str("request_id", requestID).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("Panic during entry processing")

				msg := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewError(dto.ErrCodeInternal, msg).WithRequestID(requestID))
			}
		}()
		c.Next()
	}
}
