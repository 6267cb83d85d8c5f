package middleware

import (
	"linkhub/internal/pkg"

	"github.com/gin-gonic/gin"
)

// SessionUsernameKey is the context key holding the authenticated
// session username, when one exists.
const SessionUsernameKey = "session_username"

// SessionMiddleware resolves the optional viewer session. Profile
// pages are public, so session handling never rejects a request; the
// session only decides whether a view counts as an owner view.
type SessionMiddleware struct {
	jwtManager *pkg.JWTManager
	logger     *pkg.Logger
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(jwtManager *pkg.JWTManager, logger *pkg.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Optional extracts the session username from a bearer token when one
// is present and valid. Missing, malformed and expired tokens all
// leave the request anonymous.
func (m *SessionMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token := pkg.ExtractTokenFromHeader(authHeader)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.logger.Debug("session token rejected", map[string]interface{}{
				"error": err.Error(),
			})
			c.Next()
			return
		}

		c.Set(SessionUsernameKey, claims.Username)
		c.Next()
	}
}

// SessionUsername returns the authenticated username for the request,
// empty when the request is anonymous.
func SessionUsername(c *gin.Context) string {
	if v, ok := c.Get(SessionUsernameKey); ok {
		if username, ok := v.(string); ok {
			return username
		}
	}
	return ""
}
