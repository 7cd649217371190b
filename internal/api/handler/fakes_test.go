package handler

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/cuongbtq/job-mailer/internal/api/storage"
	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/cuongbtq/job-mailer/internal/mail"
	"github.com/cuongbtq/job-mailer/internal/sender"
	"github.com/gin-gonic/gin"
)

const (
	jobID1      = "3f1c2b8e-4a8d-4f3a-9a55-2a4f0c7d8e10"
	jobID2      = "7b0e9a44-0f5e-4d6f-8c1e-4b8f3c2a1d20"
	jobID3      = "9c2d7e11-5b3a-4e8f-a7d6-1f0e2c3b4a30"
	templateID1 = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	missingID   = "00000000-0000-4000-8000-000000000000"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore implements every record store interface over maps
type memStore struct {
	jobs        map[string]*domain.Job
	templates   map[string]*domain.Template
	roleConfigs map[string]*domain.RoleConfig
	events      map[string][]domain.SendEvent
	inUse       map[string]int
	lastFilter  storage.JobFilter
	failWith    error
}

func newMemStore() *memStore {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := &memStore{
		jobs: map[string]*domain.Job{},
		templates: map[string]*domain.Template{
			templateID1: {
				ID:      templateID1,
				Name:    "Software Engineer",
				Subject: "Application for {{jobTitle}} at {{company}}",
				Body:    "<p>Dear {{company}} team, {{notes}}</p>",
			},
		},
		roleConfigs: map[string]*domain.RoleConfig{},
		events:      map[string][]domain.SendEvent{},
		inUse:       map[string]int{},
	}
	for i, id := range []string{jobID1, jobID2, jobID3} {
		s.jobs[id] = &domain.Job{
			ID:           id,
			JobTitle:     "Go Developer",
			Role:         "Backend",
			ContactEmail: "hr@acme.io",
			ResumeName:   "cv.pdf",
			Status:       domain.JobStatusDraft,
			TemplateID:   templateID1,
			CreatedAt:    created.Add(time.Duration(i) * time.Hour),
		}
	}
	return s
}

func (s *memStore) CreateJob(ctx context.Context, fields domain.JobFields) (*domain.Job, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	job := &domain.Job{
		ID:           missingID,
		JobTitle:     fields.JobTitle,
		Role:         fields.Role,
		ContactEmail: fields.ContactEmail,
		Notes:        fields.Notes,
		ResumeName:   fields.ResumeName,
		TemplateID:   fields.TemplateID,
		Status:       domain.JobStatusDraft,
	}
	s.jobs[job.ID] = job
	return job, nil
}

func (s *memStore) FindJob(ctx context.Context, id string) (*domain.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

// ListJobs mimics the storage contract of returning PageSize+1 rows
func (s *memStore) ListJobs(ctx context.Context, filter storage.JobFilter) ([]domain.Job, error) {
	s.lastFilter = filter
	if s.failWith != nil {
		return nil, s.failWith
	}

	jobs := make([]domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.Cursor != nil && !j.CreatedAt.Before(filter.Cursor.CreatedAt) {
			continue
		}
		jobs = append(jobs, *j)
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].CreatedAt.After(jobs[b].CreatedAt) })

	if len(jobs) > filter.PageSize+1 {
		jobs = jobs[:filter.PageSize+1]
	}
	return jobs, nil
}

func (s *memStore) UpdateJob(ctx context.Context, id string, fields domain.JobFields) (*domain.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	job.JobTitle = fields.JobTitle
	job.CompanyName = fields.CompanyName
	return job, nil
}

func (s *memStore) DeleteJob(ctx context.Context, id string) error {
	if _, ok := s.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *memStore) ListSendEvents(ctx context.Context, jobID string) ([]domain.SendEvent, error) {
	return append([]domain.SendEvent{}, s.events[jobID]...), nil
}

func (s *memStore) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	templates := []domain.Template{}
	for _, t := range s.templates {
		templates = append(templates, *t)
	}
	return templates, nil
}

func (s *memStore) FindTemplate(ctx context.Context, id string) (*domain.Template, error) {
	tpl, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return tpl, nil
}

func (s *memStore) CreateTemplate(ctx context.Context, fields storage.TemplateFields) (*domain.Template, error) {
	tpl := &domain.Template{ID: missingID, Name: fields.Name, Subject: fields.Subject, Body: fields.Body}
	s.templates[tpl.ID] = tpl
	return tpl, nil
}

func (s *memStore) UpdateTemplate(ctx context.Context, id string, fields storage.TemplateFields) (*domain.Template, error) {
	tpl, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	tpl.Name, tpl.Subject, tpl.Body = fields.Name, fields.Subject, fields.Body
	return tpl, nil
}

func (s *memStore) DeleteTemplate(ctx context.Context, id string) error {
	if _, ok := s.templates[id]; !ok {
		return domain.ErrTemplateNotFound
	}
	if n := s.inUse[id]; n > 0 {
		return &domain.TemplateInUseError{TemplateID: id, JobCount: n}
	}
	delete(s.templates, id)
	return nil
}

func (s *memStore) ListRoleConfigs(ctx context.Context) ([]domain.RoleConfig, error) {
	configs := []domain.RoleConfig{}
	for _, rc := range s.roleConfigs {
		configs = append(configs, *rc)
	}
	return configs, nil
}

func (s *memStore) CreateRoleConfig(ctx context.Context, fields storage.RoleConfigFields) (*domain.RoleConfig, error) {
	rc := &domain.RoleConfig{ID: missingID, Role: fields.Role, TemplateID: fields.TemplateID, ResumeName: fields.ResumeName}
	s.roleConfigs[rc.ID] = rc
	return rc, nil
}

func (s *memStore) UpdateRoleConfig(ctx context.Context, id string, fields storage.RoleConfigFields) (*domain.RoleConfig, error) {
	rc, ok := s.roleConfigs[id]
	if !ok {
		return nil, domain.ErrRoleConfigNotFound
	}
	rc.Role, rc.TemplateID, rc.ResumeName = fields.Role, fields.TemplateID, fields.ResumeName
	return rc, nil
}

func (s *memStore) DeleteRoleConfig(ctx context.Context, id string) error {
	if _, ok := s.roleConfigs[id]; !ok {
		return domain.ErrRoleConfigNotFound
	}
	delete(s.roleConfigs, id)
	return nil
}

func (s *memStore) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return &domain.Dashboard{
		TotalJobs:             len(s.jobs),
		StatusStats:           domain.StatusStats{Draft: len(s.jobs)},
		ApplicationsByCompany: []domain.CompanyCount{},
		DailyApplications:     []domain.DailyCount{},
	}, nil
}

// fakeSender records calls and returns scripted results
type fakeSender struct {
	sendResult *sender.SendResult
	bulkResult *sender.BulkResult
	err        error
	sentIDs    []string
	bulkStatus []domain.JobStatus
}

func (f *fakeSender) SendJob(ctx context.Context, jobID string) (*sender.SendResult, error) {
	f.sentIDs = append(f.sentIDs, jobID)
	return f.sendResult, f.err
}

func (f *fakeSender) SendBulk(ctx context.Context, status domain.JobStatus) (*sender.BulkResult, error) {
	f.bulkStatus = append(f.bulkStatus, status)
	return f.bulkResult, f.err
}

type fakeAuthorizer struct {
	tokens *mail.Tokens
	err    error
	codes  []string
}

func (f *fakeAuthorizer) AuthURL() string {
	return "https://accounts.example.com/o/oauth2/auth?access_type=offline"
}

func (f *fakeAuthorizer) Exchange(ctx context.Context, code string) (*mail.Tokens, error) {
	f.codes = append(f.codes, code)
	return f.tokens, f.err
}
