package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
}

func NewJobHandler(j *services.JobService) *JobHandler {
	return &JobHandler{JobService: j}
}

// ListJobs is GET /jobs. An email query parameter narrows the list to that poster.
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListJobs(c.Request.Context(), c.Query("email"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// ListJobsWithApplicationCounts is GET /jobs/applications. The guard has
// already checked that email belongs to the caller.
func (h *JobHandler) ListJobsWithApplicationCounts(c *gin.Context) {
	jobs, err := h.JobService.ListJobsWithApplicationCounts(c.Request.Context(), c.Query("email"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob is GET /jobs/:id. An unknown id yields 200 with a null body.
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.JobService.GetJob(c.Request.Context(), c.Param("id"))
	if apperrors.Is(err, apperrors.KindNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob is POST /jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		middleware.RespondError(c, apperrors.InvalidInput("Invalid JSON format: "+err.Error(), err))
		return
	}
	res, err := h.JobService.CreateJob(c.Request.Context(), doc)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
