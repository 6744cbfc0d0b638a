// Package middleware provides JWT authentication middleware.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/skyfare/farecalc-service/internal/domain/dto"
	"github.com/skyfare/farecalc-service/internal/i18n"
)

// AgentClaims carry the agent identity embedded in admin tokens.
type AgentClaims struct {
	AgentID    string `json:"agent_id"`
	PseudoCity string `json:"pcc,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth returns a middleware that validates HMAC-signed JWT tokens
// against the configured secret. Write endpoints for agency config
// records sit behind it.
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		reject := func(msgKey string) {
			msg := i18n.GetTranslator().Translate(msgKey, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewError(dto.ErrCodeUnauthorized, msg).WithRequestID(GetRequestID(c)))
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			reject(i18n.ErrKeyTokenRequired)
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			reject(i18n.ErrKeyInvalidToken)
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" {
			reject(i18n.ErrKeyTokenRequired)
			return
		}

		claims := &AgentClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			reject(i18n.ErrKeyInvalidToken)
			return
		}

		// Downstream handlers stamp journal records with the agent identity
		c.Set("agent_id", claims.AgentID)
		c.Set("agent_pcc", claims.PseudoCity)
		c.Set("agent_claims", claims)

		c.Next()
	}
}
