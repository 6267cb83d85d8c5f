package handlers

import (
	"net/http"
	"time"

	"linkhub/internal/pkg"
	"linkhub/internal/services"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves daily analytics read endpoints
type StatsHandler struct {
	viewService *services.ViewService
	validator   *pkg.Validator
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(viewService *services.ViewService, validator *pkg.Validator) *StatsHandler {
	return &StatsHandler{
		viewService: viewService,
		validator:   validator,
	}
}

// GetProfileStats handles GET /api/users/:username/stats. The
// optional date query parameter selects a day, defaulting to today.
func (h *StatsHandler) GetProfileStats(c *gin.Context) {
	username := c.Param("username")
	if err := h.validator.Var(username, "required,username"); err != nil {
		pkg.BadRequestResponse(c, "Invalid username")
		return
	}

	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	stat, err := h.viewService.ProfileStatsForDay(c.Request.Context(), username, day)
	if err != nil {
		if appErr, appOk := pkg.IsAppError(err); appOk {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Profile stats retrieved successfully", stat)
}

// GetPlatformStats handles GET /api/stats
func (h *StatsHandler) GetPlatformStats(c *gin.Context) {
	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	stat, err := h.viewService.PlatformStatsForDay(c.Request.Context(), day)
	if err != nil {
		if appErr, appOk := pkg.IsAppError(err); appOk {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Platform stats retrieved successfully", stat)
}

func (h *StatsHandler) parseDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}

	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		pkg.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}

	return day, true
}
