package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/job-mailer/internal/attachment"
	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/gin-gonic/gin"
)

// errorResponse maps a sentinel to a status code. An empty message means the
// error text is sent as is.
type errorResponse struct {
	target  error
	status  int
	message string
}

var errorResponses = []errorResponse{
	{target: domain.ErrJobNotFound, status: http.StatusNotFound, message: "Job not found"},
	{target: domain.ErrTemplateNotFound, status: http.StatusNotFound, message: "Template not found"},
	{target: domain.ErrRoleConfigNotFound, status: http.StatusNotFound, message: "Role config not found"},
	{target: attachment.ErrNotFound, status: http.StatusNotFound, message: "File not found"},
	{target: domain.ErrAlreadySent, status: http.StatusConflict, message: "Job already sent"},
	{target: domain.ErrTemplateInUse, status: http.StatusConflict},
	{target: domain.ErrInvalidStatus, status: http.StatusBadRequest},
	{target: attachment.ErrInvalidFilename, status: http.StatusBadRequest, message: "Invalid filename"},
	{target: attachment.ErrNotPDF, status: http.StatusBadRequest, message: "Only PDF files are allowed"},
	{target: attachment.ErrTooLarge, status: http.StatusBadRequest},
	{target: attachment.ErrDisplayNameRequired, status: http.StatusBadRequest, message: "Display name is required"},
}

// respondError writes the JSON error for err. Unknown errors are logged and
// answered with 500 and fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	for _, r := range errorResponses {
		if !errors.Is(err, r.target) {
			continue
		}
		msg := r.message
		if msg == "" {
			msg = err.Error()
		}
		c.JSON(r.status, gin.H{"error": msg})
		return
	}

	logger.Error(fallback,
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func badRequest(c *gin.Context, logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
