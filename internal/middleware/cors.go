package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig represents CORS configuration
type CORSConfig struct {
	AllowOrigins []string      `json:"allow_origins"`
	AllowMethods []string      `json:"allow_methods"`
	AllowHeaders []string      `json:"allow_headers"`
	MaxAge       time.Duration `json:"max_age"`
}

// CORSMiddleware handles Cross-Origin Resource Sharing
type CORSMiddleware struct {
	config *CORSConfig
}

// NewCORSMiddleware creates a new CORS middleware with configuration
func NewCORSMiddleware(config *CORSConfig) *CORSMiddleware {
	if config == nil {
		config = DefaultCORSConfig()
	}
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(config.AllowHeaders) == 0 {
		config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	}
	if config.MaxAge == 0 {
		config.MaxAge = 12 * time.Hour
	}

	return &CORSMiddleware{config: config}
}

// DefaultCORSConfig returns default CORS configuration. Profile pages
// are public data, so any origin may read them.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}
}

// Handle applies the CORS headers and answers preflight requests
func (m *CORSMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && m.originAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", strings.Join(m.config.AllowMethods, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join(m.config.AllowHeaders, ", "))
			c.Header("Access-Control-Max-Age", m.config.MaxAge.String())
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (m *CORSMiddleware) originAllowed(origin string) bool {
	for _, allowed := range m.config.AllowOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
