package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "propvest/internal/errors"
)

// ServiceKeyMiddleware guards server-to-server routes. Callers present the
// shared key in the X-API-Key header; an unconfigured key disables the routes.
func ServiceKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			WriteError(c, apperrors.ErrServiceKeyNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			WriteError(c, apperrors.ErrInvalidServiceKey)
			return
		}
		c.Next()
	}
}
