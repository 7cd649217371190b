package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/job-mailer/internal/api/dto"
	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/gin-gonic/gin"
)

// SendHandler handles email send requests
type SendHandler struct {
	logger *slog.Logger
	sender Sender
}

// NewSendHandler creates a new SendHandler instance
func NewSendHandler(deps *Dependencies) *SendHandler {
	return &SendHandler{
		logger: deps.Logger,
		sender: deps.Sender,
	}
}

// SendJob handles POST /api/v1/send
// A provider rejection is reported with 200 and success=false; the job is
// left in FAILED status
func (h *SendHandler) SendJob(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req dto.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Job ID is required", err)
		return
	}

	result, err := h.sender.SendJob(c.Request.Context(), req.JobID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to send email")
		return
	}

	c.JSON(http.StatusOK, result)
}

// SendBulk handles POST /api/v1/send/bulk
// Sends every job in the requested status (PENDING by default). The batch
// keeps running if the client disconnects.
func (h *SendHandler) SendBulk(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req dto.BulkSendRequest
	// an empty body means the default status
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, h.logger, "Invalid request body", err)
			return
		}
	}

	result, err := h.sender.SendBulk(c.Request.Context(), domain.JobStatus(req.Status))
	if err != nil {
		respondError(c, h.logger, err, "Failed to process bulk send")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SendHandler) configured(c *gin.Context) bool {
	if h.sender != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Gmail is not configured"})
	return false
}
