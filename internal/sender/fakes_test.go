package sender

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/cuongbtq/job-mailer/internal/mail"
)

type memStore struct {
	mu      sync.Mutex
	jobs    map[string]*domain.Job
	order   []string
	updates []statusCall

	findErr    error
	failUpdate func(id string, u domain.StatusUpdate) error
	honorCtx   bool
}

type statusCall struct {
	JobID  string
	Status domain.JobStatus
}

func newMemStore(jobs ...*domain.Job) *memStore {
	s := &memStore{jobs: map[string]*domain.Job{}}
	for _, j := range jobs {
		s.jobs[j.ID] = j
		s.order = append(s.order, j.ID)
	}
	return s
}

func (s *memStore) FindJob(_ context.Context, id string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *memStore) FindJobsByStatus(_ context.Context, status domain.JobStatus) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []domain.Job
	for _, id := range s.order {
		if j := s.jobs[id]; j.Status == status {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *memStore) UpdateJobStatus(ctx context.Context, id string, u domain.StatusUpdate) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, statusCall{JobID: id, Status: u.Status})
	if s.honorCtx && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if s.failUpdate != nil {
		if err := s.failUpdate(id, u); err != nil {
			return nil, err
		}
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	j.Status = u.Status
	if u.CompanyName != nil {
		j.CompanyName = u.CompanyName
	}
	if u.SentAt != nil {
		j.SentAt = u.SentAt
	}
	cp := *j
	cp.Template = nil
	return &cp, nil
}

func (s *memStore) job(id string) domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.jobs[id]
}

func (s *memStore) statusesFor(id string) []domain.JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.JobStatus
	for _, u := range s.updates {
		if u.JobID == id {
			out = append(out, u.Status)
		}
	}
	return out
}

type fakeTransport struct {
	mu     sync.Mutex
	sent   []mail.Email
	failTo map[string]bool
	onSend func()
}

func (t *fakeTransport) Send(_ context.Context, email mail.Email) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.onSend != nil {
		t.onSend()
	}
	t.sent = append(t.sent, email)
	if t.failTo[email.To] {
		return "", errors.Join(domain.ErrTransport, errors.New("provider rejected message"))
	}
	return "msg-" + email.To, nil
}

func (t *fakeTransport) calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent)
}

type pathResolver struct{}

func (pathResolver) ResolvePath(name string) string { return "/resumes/" + name }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SendEvent
	err    error
}

func (p *recordingPublisher) PublishSendEvent(_ context.Context, e domain.SendEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(store JobStore, tr mail.Transport, pub EventPublisher) (*Service, *sleepRecorder) {
	svc := NewService(&Config{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:       store,
		Transport:   tr,
		Attachments: pathResolver{},
		Publisher:   pub,
	})
	rec := &sleepRecorder{}
	svc.sleep = rec.sleep
	svc.now = func() time.Time { return fixedNow }
	return svc, rec
}

var testTemplate = &domain.Template{
	ID:      "tpl-1",
	Name:    "Professional Standard",
	Subject: "Application for {{jobTitle}} Position",
	Body:    "Dear {{company}}, as a {{role}} ... {{notes}}",
}

func newJob(id, email string, status domain.JobStatus) *domain.Job {
	return &domain.Job{
		ID:           id,
		JobTitle:     "Job " + id,
		Role:         "Backend Developer",
		ContactEmail: email,
		ResumeName:   "cv.pdf",
		Status:       status,
		TemplateID:   testTemplate.ID,
		Template:     testTemplate,
	}
}

func sortedIDs(events []domain.SendEvent) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.JobID)
	}
	sort.Strings(ids)
	return ids
}
