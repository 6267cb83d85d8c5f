package middleware

import (
	"runtime/debug"

	"linkhub/internal/pkg"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware converts handler panics into 500 responses
type RecoveryMiddleware struct {
	logger *pkg.Logger
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(logger *pkg.Logger) *RecoveryMiddleware {
	return &RecoveryMiddleware{logger: logger}
}

// Recover catches panics, logs the stack and answers with the
// standard error envelope.
func (m *RecoveryMiddleware) Recover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered", map[string]interface{}{
					"request_id": c.GetString("request_id"),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"panic":      r,
					"stack":      string(debug.Stack()),
				})

				pkg.InternalServerErrorResponse(c, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
