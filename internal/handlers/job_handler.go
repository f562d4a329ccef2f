package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billpap123/artepovera-backend-sub000/internal/auth"
	"github.com/billpap123/artepovera-backend-sub000/internal/middleware"
	"github.com/billpap123/artepovera-backend-sub000/internal/services"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", h.SearchJobs)
		jobs.GET("/:jobId", h.GetJob)
	}

	protected := rg.Group("/jobs")
	protected.Use(h.RequireAuth())
	{
		protected.POST("", middleware.RequirePermission(auth.PermJobsWrite), h.CreateJob)
		protected.DELETE("/:jobId", h.DeleteJob)
		protected.POST("/:jobId/apply", middleware.RequirePermission(auth.PermJobsApply), h.Apply)
		protected.GET("/:jobId/applications", middleware.RequirePermission(auth.PermJobsWrite), h.GetApplications)
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), h.GetDB(c), employerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) SearchJobs(c *gin.Context) {
	var req dto.JobSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.jobService.SearchJobs(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), h.GetDB(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), userID, h.IsAdmin(c), jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job posting deleted"})
}

func (h *JobHandler) Apply(c *gin.Context) {
	artistID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	app, err := h.jobService.Apply(c.Request.Context(), h.GetDB(c), artistID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Application submitted", "application": app})
}

func (h *JobHandler) GetApplications(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	apps, err := h.jobService.GetApplications(c.Request.Context(), h.GetDB(c), employerID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
