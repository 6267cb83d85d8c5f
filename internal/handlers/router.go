package handlers

import (
	"net/http"

	"linkhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RouterDeps bundles everything the router needs
type RouterDeps struct {
	ProfileHandler *ProfileHandler
	StatsHandler   *StatsHandler
	Session        *middleware.SessionMiddleware
	RateLimit      *middleware.RateLimitMiddleware
	Logging        *middleware.LoggingMiddleware
	Recovery       *middleware.RecoveryMiddleware
	CORS           *middleware.CORSMiddleware
}

// SetupRouter builds the gin engine with the full middleware chain
// and all routes registered.
func SetupRouter(mode string, deps RouterDeps) *gin.Engine {
	gin.SetMode(mode)

	router := gin.New()
	router.Use(deps.Logging.RequestID())
	router.Use(deps.Recovery.Recover())
	router.Use(deps.Logging.AccessLog())
	router.Use(deps.CORS.Handle())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(deps.RateLimit.Limit())
	api.Use(deps.Session.Optional())
	{
		api.GET("/users/:username", deps.ProfileHandler.GetProfile)
		api.POST("/users/:username/links/click", deps.ProfileHandler.ClickLink)
		api.GET("/users/:username/stats", deps.StatsHandler.GetProfileStats)
		api.GET("/stats", deps.StatsHandler.GetPlatformStats)
	}

	return router
}
