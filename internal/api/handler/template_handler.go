package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/job-mailer/internal/api/dto"
	"github.com/cuongbtq/job-mailer/internal/api/storage"
	"github.com/cuongbtq/job-mailer/internal/render"
	"github.com/gin-gonic/gin"
)

// TemplateHandler handles email template requests
type TemplateHandler struct {
	logger    *slog.Logger
	templates TemplateStore
	jobs      JobStore
	renderer  *render.Renderer
}

// NewTemplateHandler creates a new TemplateHandler instance
func NewTemplateHandler(deps *Dependencies) *TemplateHandler {
	renderer := deps.Renderer
	if renderer == nil {
		renderer = render.NewRenderer()
	}

	return &TemplateHandler{
		logger:    deps.Logger,
		templates: deps.Templates,
		jobs:      deps.Jobs,
		renderer:  renderer,
	}
}

// ListTemplates handles GET /api/v1/templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templates.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetTemplate handles GET /api/v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	tpl, err := h.templates.FindTemplate(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch template")
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// CreateTemplate handles POST /api/v1/templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Name, subject, and body are required", err)
		return
	}

	tpl, err := h.templates.CreateTemplate(c.Request.Context(), templateFields(req))
	if err != nil {
		respondError(c, h.logger, err, "Failed to create template")
		return
	}

	h.logger.Info("Template created", slog.String("template_id", tpl.ID))
	c.JSON(http.StatusCreated, tpl)
}

// UpdateTemplate handles PUT /api/v1/templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Name, subject, and body are required", err)
		return
	}

	tpl, err := h.templates.UpdateTemplate(c.Request.Context(), id, templateFields(req))
	if err != nil {
		respondError(c, h.logger, err, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// DeleteTemplate handles DELETE /api/v1/templates/:id
// Templates still referenced by jobs are rejected with 409
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.templates.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete template")
		return
	}

	h.logger.Info("Template deleted", slog.String("template_id", id))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PreviewTemplate handles POST /api/v1/templates/:id/preview
// Renders the template against an existing job without sending anything
func (h *TemplateHandler) PreviewTemplate(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Job ID is required", err)
		return
	}

	tpl, err := h.templates.FindTemplate(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch template")
		return
	}

	job, err := h.jobs.FindJob(c.Request.Context(), req.JobID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, h.renderer.Render(tpl, job))
}

func templateFields(req dto.TemplateRequest) storage.TemplateFields {
	return storage.TemplateFields{
		Name:    req.Name,
		Subject: req.Subject,
		Body:    req.Body,
	}
}
