package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves application statistics
type DashboardHandler struct {
	logger    *slog.Logger
	dashboard DashboardStore
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(deps *Dependencies) *DashboardHandler {
	return &DashboardHandler{
		logger:    deps.Logger,
		dashboard: deps.Dashboard,
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboard.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch dashboard data")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
