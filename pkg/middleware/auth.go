package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simonai-git/restaurant-recommendations/pkg/log"
	"github.com/simonai-git/restaurant-recommendations/pkg/response"
)

const (
	APIKeyHeader  = "X-API-Key"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// APIKeyMiddleware guards write endpoints with a static shared key.
type APIKeyMiddleware struct {
	key string
}

// NewAPIKeyMiddleware creates a new API key middleware.
// An empty key disables the check.
func NewAPIKeyMiddleware(key string) *APIKeyMiddleware {
	return &APIKeyMiddleware{key: key}
}

// Enabled reports whether requests are checked.
func (m *APIKeyMiddleware) Enabled() bool {
	return m.key != ""
}

// RequireAPIKey returns a Gin middleware that accepts the key either in
// X-API-Key or as a bearer token.
func (m *APIKeyMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		provided := c.GetHeader(APIKeyHeader)
		if provided == "" {
			authHeader := c.GetHeader(AuthHeaderKey)
			if strings.HasPrefix(authHeader, BearerPrefix) {
				provided = strings.TrimPrefix(authHeader, BearerPrefix)
			}
		}

		if provided == "" {
			response.Unauthorized(c, "missing api key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.key)) != 1 {
			l := log.Ctx(c.Request.Context())
			l.Warn().Msg("rejected request with invalid api key")
			response.Unauthorized(c, "invalid api key")
			return
		}

		c.Next()
	}
}
