package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResumeHandler handles resume upload and management requests
type ResumeHandler struct {
	logger  *slog.Logger
	resumes ResumeStore
}

// NewResumeHandler creates a new ResumeHandler instance
func NewResumeHandler(deps *Dependencies) *ResumeHandler {
	return &ResumeHandler{
		logger:  deps.Logger,
		resumes: deps.Resumes,
	}
}

// ListResumes handles GET /api/v1/resumes
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	resumes, err := h.resumes.List()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch resumes")
		return
	}

	c.JSON(http.StatusOK, resumes)
}

// UploadResume handles POST /api/v1/resumes
// Expects a multipart form with a PDF "file" and a "displayName"
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, h.logger, "No file provided", err)
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err, "Failed to upload resume")
		return
	}
	defer f.Close()

	resume, err := h.resumes.Save(c.PostForm("displayName"), header.Header.Get("Content-Type"), header.Size, f)
	if err != nil {
		respondError(c, h.logger, err, "Failed to upload resume")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"filename": resume.Filename,
		"resume":   resume,
	})
}

// DeleteResume handles DELETE /api/v1/resumes/:filename
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	filename := c.Param("filename")

	if err := h.resumes.Delete(filename); err != nil {
		respondError(c, h.logger, err, "Failed to delete resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
