package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the Gmail OAuth consent flow
type AuthHandler struct {
	logger *slog.Logger
	auth   Authorizer
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{
		logger: deps.Logger,
		auth:   deps.Auth,
	}
}

// AuthURL handles GET /api/v1/auth/gmail
func (h *AuthHandler) AuthURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authUrl": h.auth.AuthURL()})
}

// Callback handles GET /api/v1/auth/gmail/callback
// Exchanges the authorization code and returns the tokens so the refresh
// token can be put in the configuration
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code not provided"})
		return
	}

	tokens, err := h.auth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("Authorization failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization failed"})
		return
	}

	h.logger.Info("Gmail authorization completed",
		slog.Bool("refresh_token_issued", tokens.RefreshToken != ""),
	)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Authorization successful",
		"refreshToken": tokens.RefreshToken,
		"accessToken":  tokens.AccessToken,
	})
}
