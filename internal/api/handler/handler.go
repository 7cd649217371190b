package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/cuongbtq/job-mailer/internal/api/storage"
	"github.com/cuongbtq/job-mailer/internal/attachment"
	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/cuongbtq/job-mailer/internal/mail"
	"github.com/cuongbtq/job-mailer/internal/render"
	"github.com/cuongbtq/job-mailer/internal/sender"
)

const defaultPageSize = 20

// JobStore is the job part of the record store
type JobStore interface {
	CreateJob(ctx context.Context, fields domain.JobFields) (*domain.Job, error)
	FindJob(ctx context.Context, id string) (*domain.Job, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]domain.Job, error)
	UpdateJob(ctx context.Context, id string, fields domain.JobFields) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
	ListSendEvents(ctx context.Context, jobID string) ([]domain.SendEvent, error)
}

// TemplateStore is the template part of the record store
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	FindTemplate(ctx context.Context, id string) (*domain.Template, error)
	CreateTemplate(ctx context.Context, fields storage.TemplateFields) (*domain.Template, error)
	UpdateTemplate(ctx context.Context, id string, fields storage.TemplateFields) (*domain.Template, error)
	DeleteTemplate(ctx context.Context, id string) error
}

// RoleConfigStore is the role config part of the record store
type RoleConfigStore interface {
	ListRoleConfigs(ctx context.Context) ([]domain.RoleConfig, error)
	CreateRoleConfig(ctx context.Context, fields storage.RoleConfigFields) (*domain.RoleConfig, error)
	UpdateRoleConfig(ctx context.Context, id string, fields storage.RoleConfigFields) (*domain.RoleConfig, error)
	DeleteRoleConfig(ctx context.Context, id string) error
}

// DashboardStore computes the dashboard aggregates
type DashboardStore interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

// Sender sends application emails
type Sender interface {
	SendJob(ctx context.Context, jobID string) (*sender.SendResult, error)
	SendBulk(ctx context.Context, status domain.JobStatus) (*sender.BulkResult, error)
}

// Authorizer runs the Gmail OAuth consent flow
type Authorizer interface {
	AuthURL() string
	Exchange(ctx context.Context, code string) (*mail.Tokens, error)
}

// ResumeStore manages uploaded resume files
type ResumeStore interface {
	List() ([]attachment.Resume, error)
	Save(name, contentType string, size int64, r io.Reader) (*attachment.Resume, error)
	Delete(filename string) error
}

// HealthCheck reports whether a backing service is reachable
type HealthCheck func(ctx context.Context) error

// Dependencies holds all dependencies needed by handlers. Sender is nil
// while no Gmail refresh token is configured.
type Dependencies struct {
	Logger          *slog.Logger
	Jobs            JobStore
	Templates       TemplateStore
	RoleConfigs     RoleConfigStore
	Dashboard       DashboardStore
	Sender          Sender
	Auth            Authorizer
	Resumes         ResumeStore
	Renderer        *render.Renderer
	DefaultPageSize int
	HealthChecks    map[string]HealthCheck
}
