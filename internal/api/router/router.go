package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cuongbtq/job-mailer/internal/api/handler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", healthHandler(deps))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jobHandler := handler.NewJobHandler(deps)
	templateHandler := handler.NewTemplateHandler(deps)
	roleConfigHandler := handler.NewRoleConfigHandler(deps)
	resumeHandler := handler.NewResumeHandler(deps)
	sendHandler := handler.NewSendHandler(deps)
	authHandler := handler.NewAuthHandler(deps)
	dashboardHandler := handler.NewDashboardHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/:id", jobHandler.GetJob)
			jobs.PUT("/:id", jobHandler.UpdateJob)
			jobs.DELETE("/:id", jobHandler.DeleteJob)
			jobs.GET("/:id/events", jobHandler.ListJobEvents)
		}

		templates := v1.Group("/templates")
		{
			templates.GET("", templateHandler.ListTemplates)
			templates.POST("", templateHandler.CreateTemplate)
			templates.GET("/:id", templateHandler.GetTemplate)
			templates.PUT("/:id", templateHandler.UpdateTemplate)
			templates.DELETE("/:id", templateHandler.DeleteTemplate)
			templates.POST("/:id/preview", templateHandler.PreviewTemplate)
		}

		roleConfigs := v1.Group("/role-configs")
		{
			roleConfigs.GET("", roleConfigHandler.ListRoleConfigs)
			roleConfigs.POST("", roleConfigHandler.CreateRoleConfig)
			roleConfigs.PUT("/:id", roleConfigHandler.UpdateRoleConfig)
			roleConfigs.DELETE("/:id", roleConfigHandler.DeleteRoleConfig)
		}

		resumes := v1.Group("/resumes")
		{
			resumes.GET("", resumeHandler.ListResumes)
			resumes.POST("", resumeHandler.UploadResume)
			resumes.DELETE("/:filename", resumeHandler.DeleteResume)
		}

		// POST /api/v1/send - Send one job
		v1.POST("/send", sendHandler.SendJob)

		// POST /api/v1/send/bulk - Send every job in a status
		v1.POST("/send/bulk", sendHandler.SendBulk)

		auth := v1.Group("/auth/gmail")
		{
			auth.GET("", authHandler.AuthURL)
			auth.GET("/callback", authHandler.Callback)
		}

		v1.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	return r
}

// healthCheckTimeout bounds each dependency check of the health endpoint
const healthCheckTimeout = 2 * time.Second

func healthHandler(deps *handler.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := make(map[string]string, len(deps.HealthChecks))

		for name, check := range deps.HealthChecks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			err := check(ctx)
			cancel()

			if err != nil {
				deps.Logger.Warn("Health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
				checks[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "up"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":  state,
			"service": "job-mailer-api",
			"gmail":   deps.Sender != nil,
			"checks":  checks,
		})
	}
}
