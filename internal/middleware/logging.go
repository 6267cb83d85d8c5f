package middleware

import (
	"time"

	"linkhub/internal/pkg"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware handles request logging
type LoggingMiddleware struct {
	logger    *pkg.Logger
	skipPaths map[string]bool
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *pkg.Logger, skipPaths ...string) *LoggingMiddleware {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return &LoggingMiddleware{
		logger:    logger,
		skipPaths: skip,
	}
}

// RequestID assigns every request an identifier, echoed in the
// X-Request-ID header and the response envelope.
func (m *LoggingMiddleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = pkg.GenerateRequestID()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// AccessLog writes one structured line per completed request
func (m *LoggingMiddleware) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"ip":         c.ClientIP(),
		}
		if viewer := SessionUsername(c); viewer != "" {
			fields["viewer"] = viewer
		}

		if c.Writer.Status() >= 500 {
			m.logger.Error("request completed", fields)
		} else {
			m.logger.Info("request completed", fields)
		}
	}
}
