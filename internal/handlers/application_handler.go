package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
)

type ApplicationHandler struct {
	ApplicationService *services.ApplicationService
}

func NewApplicationHandler(a *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{ApplicationService: a}
}

// Apply is POST /apply.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		middleware.RespondError(c, apperrors.InvalidInput("Invalid JSON format: "+err.Error(), err))
		return
	}
	res, err := h.ApplicationService.CreateApplication(c.Request.Context(), doc)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListApplications is GET /applications.
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	apps, err := h.ApplicationService.ListApplications(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// CurrentUserApplications is GET /currentUserApplication, behind the guard.
func (h *ApplicationHandler) CurrentUserApplications(c *gin.Context) {
	views, err := h.ApplicationService.ListApplicationsForUser(c.Request.Context(), c.Query("email"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// ListByJob is GET /applications/jobs/:id.
func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	apps, err := h.ApplicationService.ListApplicationsByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// UpdateStatus is PATCH /applications/:id.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.InvalidInput("Invalid JSON format: "+err.Error(), err))
		return
	}
	res, err := h.ApplicationService.UpdateApplicationStatus(c.Request.Context(), c.Param("id"), *req.Status)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
