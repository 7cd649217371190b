package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/job-mailer/internal/api/dto"
	"github.com/cuongbtq/job-mailer/internal/api/storage"
	"github.com/gin-gonic/gin"
)

const roleConfigFieldsRequired = "Role, templateId, and resumeName are required"

// RoleConfigHandler handles role config requests
type RoleConfigHandler struct {
	logger      *slog.Logger
	roleConfigs RoleConfigStore
	templates   TemplateStore
}

// NewRoleConfigHandler creates a new RoleConfigHandler instance
func NewRoleConfigHandler(deps *Dependencies) *RoleConfigHandler {
	return &RoleConfigHandler{
		logger:      deps.Logger,
		roleConfigs: deps.RoleConfigs,
		templates:   deps.Templates,
	}
}

// ListRoleConfigs handles GET /api/v1/role-configs
func (h *RoleConfigHandler) ListRoleConfigs(c *gin.Context) {
	configs, err := h.roleConfigs.ListRoleConfigs(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch role configs")
		return
	}

	c.JSON(http.StatusOK, configs)
}

// CreateRoleConfig handles POST /api/v1/role-configs
func (h *RoleConfigHandler) CreateRoleConfig(c *gin.Context) {
	var req dto.RoleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, roleConfigFieldsRequired, err)
		return
	}

	if !referencedTemplateExists(c, h.logger, h.templates, req.TemplateID) {
		return
	}

	rc, err := h.roleConfigs.CreateRoleConfig(c.Request.Context(), roleConfigFields(req))
	if err != nil {
		respondError(c, h.logger, err, "Failed to create role config")
		return
	}

	c.JSON(http.StatusCreated, rc)
}

// UpdateRoleConfig handles PUT /api/v1/role-configs/:id
func (h *RoleConfigHandler) UpdateRoleConfig(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var req dto.RoleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, roleConfigFieldsRequired, err)
		return
	}

	if !referencedTemplateExists(c, h.logger, h.templates, req.TemplateID) {
		return
	}

	rc, err := h.roleConfigs.UpdateRoleConfig(c.Request.Context(), id, roleConfigFields(req))
	if err != nil {
		respondError(c, h.logger, err, "Failed to update role config")
		return
	}

	c.JSON(http.StatusOK, rc)
}

// DeleteRoleConfig handles DELETE /api/v1/role-configs/:id
func (h *RoleConfigHandler) DeleteRoleConfig(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.roleConfigs.DeleteRoleConfig(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete role config")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func roleConfigFields(req dto.RoleConfigRequest) storage.RoleConfigFields {
	return storage.RoleConfigFields{
		Role:       req.Role,
		TemplateID: req.TemplateID,
		ResumeName: req.ResumeName,
	}
}
