package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/job-mailer/internal/api/dto"
	"github.com/cuongbtq/job-mailer/internal/api/storage"
	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger          *slog.Logger
	jobs            JobStore
	templates       TemplateStore
	defaultPageSize int
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	pageSize := deps.DefaultPageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &JobHandler{
		logger:          deps.Logger,
		jobs:            deps.Jobs,
		templates:       deps.Templates,
		defaultPageSize: pageSize,
	}
}

// CreateJob handles POST /api/v1/jobs
// Creates a job application in DRAFT status
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Invalid request body", err)
		return
	}

	if !h.templateExists(c, req.TemplateID) {
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), req.Fields())
	if err != nil {
		respondError(c, h.logger, err, "Failed to create job")
		return
	}

	h.logger.Info("Job created",
		slog.String("job_id", job.ID),
		slog.String("contact_email", job.ContactEmail),
	)

	c.JSON(http.StatusCreated, job)
}

// GetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	job, err := h.jobs.FindJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobs handles GET /api/v1/jobs
// Lists jobs newest first with optional status filter and cursor pagination
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, h.logger, "Invalid query parameters", err)
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = h.defaultPageSize
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		badRequest(c, h.logger, "Invalid cursor", err)
		return
	}

	filter := storage.JobFilter{
		Status:   domain.JobStatus(req.Status),
		PageSize: req.PageSize,
		Cursor:   cursor,
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list jobs")
		return
	}

	// storage returns one extra row when another page exists
	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	var nextCursor string
	if hasMore {
		last := jobs[len(jobs)-1]
		nextCursor = EncodeJobCursor(&storage.JobCursor{
			CreatedAt: last.CreatedAt,
			JobID:     last.ID,
		})
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:       jobs,
		NextCursor: nextCursor,
	})
}

// UpdateJob handles PUT /api/v1/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Invalid request body", err)
		return
	}

	if !h.templateExists(c, req.TemplateID) {
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), jobID, req.Fields())
	if err != nil {
		respondError(c, h.logger, err, "Failed to update job")
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob handles DELETE /api/v1/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.jobs.DeleteJob(c.Request.Context(), jobID); err != nil {
		respondError(c, h.logger, err, "Failed to delete job")
		return
	}

	h.logger.Info("Job deleted", slog.String("job_id", jobID))
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

// ListJobEvents handles GET /api/v1/jobs/:id/events
// Returns the recorded send outcomes of a job, oldest first
func (h *JobHandler) ListJobEvents(c *gin.Context) {
	jobID, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if _, err := h.jobs.FindJob(c.Request.Context(), jobID); err != nil {
		respondError(c, h.logger, err, "Failed to get job")
		return
	}

	events, err := h.jobs.ListSendEvents(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list send events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// templateExists writes a 400 response and returns false when the template
// referenced by a request does not exist
func (h *JobHandler) templateExists(c *gin.Context, templateID string) bool {
	return referencedTemplateExists(c, h.logger, h.templates, templateID)
}

func referencedTemplateExists(c *gin.Context, logger *slog.Logger, templates TemplateStore, templateID string) bool {
	_, err := templates.FindTemplate(c.Request.Context(), templateID)
	if err == nil {
		return true
	}
	if errors.Is(err, domain.ErrTemplateNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template not found"})
		return false
	}
	respondError(c, logger, err, "Failed to get template")
	return false
}

// pathID reads and validates the :id path parameter
func pathID(c *gin.Context, logger *slog.Logger) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		logger.Warn("Invalid id format", slog.String("id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return "", false
	}
	return id, true
}
