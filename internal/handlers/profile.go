package handlers

import (
	"net/http"

	"linkhub/internal/middleware"
	"linkhub/internal/models"
	"linkhub/internal/pkg"
	"linkhub/internal/services"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles profile page requests
type ProfileHandler struct {
	profileService *services.ProfileService
	viewService    *services.ViewService
	validator      *pkg.Validator
	logger         *pkg.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	profileService *services.ProfileService,
	viewService *services.ViewService,
	validator *pkg.Validator,
	logger *pkg.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		viewService:    viewService,
		validator:      validator,
		logger:         logger,
	}
}

// GetProfile handles GET /api/users/:username. It returns the merged
// profile and, as a side effect, records the view across the
// analytics counters. Accounting failures never fail the request.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")
	if err := h.validator.Var(username, "required,username"); err != nil {
		pkg.BadRequestResponse(c, "Invalid username")
		return
	}

	doc, err := h.profileService.GetDocument(c.Request.Context(), username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	viewer := middleware.SessionUsername(c)
	profile := h.viewService.RecordView(c.Request.Context(), username, viewer, doc.Location)

	response := &models.ProfileResponse{ProfileDocument: *doc}
	if profile != nil {
		response.Views = profile.Views
		response.ResolvedLocation = profile.Location
	}

	pkg.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", response)
}

// ClickLinkRequest is the body of the link click endpoint
type ClickLinkRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ClickLink handles POST /api/users/:username/links/click. Clicks on
// URLs the profile does not carry are acknowledged but not counted.
func (h *ProfileHandler) ClickLink(c *gin.Context) {
	username := c.Param("username")
	if err := h.validator.Var(username, "required,username"); err != nil {
		pkg.BadRequestResponse(c, "Invalid username")
		return
	}

	var req ClickLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request body")
		return
	}
	if validationErrors := h.validator.Validate(&req); len(validationErrors) > 0 {
		pkg.ValidationErrorResponse(c, validationErrors)
		return
	}

	doc, err := h.profileService.GetDocument(c.Request.Context(), username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.profileService.HasLink(doc, req.URL) {
		h.viewService.RecordClick(c.Request.Context(), username)
	}

	pkg.SuccessResponse(c, http.StatusOK, "Click recorded", nil)
}

func (h *ProfileHandler) respondError(c *gin.Context, err error) {
	if appErr, ok := pkg.IsAppError(err); ok {
		pkg.ErrorResponseFromAppError(c, appErr)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
	}).ErrorWithCause("unexpected handler error", err)
	pkg.InternalServerErrorResponse(c, "Internal server error")
}
