package middlewares

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"schemascope/internal/responses"
)

// RequireAPIKey gates the API behind the SCHEMASCOPE_API_KEY environment
// variable. When the variable is unset the service runs open, which is the
// expected mode for local use.
func RequireAPIKey() gin.HandlerFunc {
	expected := os.Getenv("SCHEMASCOPE_API_KEY")

	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			responses.Fail(c, http.StatusUnauthorized, nil, "Invalid or missing API key")
			c.Abort()
			return
		}

		c.Next()
	}
}
