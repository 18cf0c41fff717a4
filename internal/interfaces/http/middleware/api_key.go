// internal/interfaces/http/middleware/api_key.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/cafe-backend/internal/pkg/auth"
)

// APIKeyHeader carries the bot's shared secret
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware admits only requests presenting the bot API key
func APIKeyMiddleware(verifier *auth.KeyVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := verifier.Verify(c.GetHeader(APIKeyHeader)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
			})
			return
		}
		c.Next()
	}
}
