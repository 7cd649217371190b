package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
)

const (
	recentDays   = 30
	dailyWindow  = 7
	topCompanies = 10
)

type statusCount struct {
	Status domain.JobStatus `db:"status"`
	Count  int              `db:"count"`
}

// Dashboard aggregates job statistics relative to now
func (s *Storage) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	now := s.now().UTC()
	dash := &domain.Dashboard{}

	if err := s.db.GetContext(ctx, &dash.TotalJobs, `SELECT COUNT(*) FROM jobs`); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	var byStatus []statusCount
	if err := s.db.SelectContext(ctx, &byStatus, `SELECT status, COUNT(*) AS count FROM jobs GROUP BY status`); err != nil {
		return nil, fmt.Errorf("failed to count jobs by status: %w", err)
	}
	dash.StatusStats = statusStats(byStatus)

	if err := s.db.GetContext(ctx, &dash.RecentApplications,
		`SELECT COUNT(*) FROM jobs WHERE sent_at >= $1`, now.AddDate(0, 0, -recentDays)); err != nil {
		return nil, fmt.Errorf("failed to count recent applications: %w", err)
	}

	dash.ApplicationsByCompany = []domain.CompanyCount{}
	if err := s.db.SelectContext(ctx, &dash.ApplicationsByCompany, `
		SELECT company_name AS company, COUNT(*) AS count
		FROM jobs
		WHERE company_name IS NOT NULL AND status = $1
		GROUP BY company_name
		ORDER BY count DESC, company_name ASC
		LIMIT $2`, domain.JobStatusSent, topCompanies); err != nil {
		return nil, fmt.Errorf("failed to count applications by company: %w", err)
	}

	var daily []domain.DailyCount
	if err := s.db.SelectContext(ctx, &daily, `
		SELECT to_char(sent_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM jobs
		WHERE sent_at >= $1
		GROUP BY day`, now.AddDate(0, 0, -dailyWindow)); err != nil {
		return nil, fmt.Errorf("failed to count daily applications: %w", err)
	}
	dash.DailyApplications = fillDays(now, dailyWindow, daily)

	return dash, nil
}

func statusStats(counts []statusCount) domain.StatusStats {
	var stats domain.StatusStats
	for _, c := range counts {
		switch domain.JobStatus(strings.ToUpper(string(c.Status))) {
		case domain.JobStatusDraft:
			stats.Draft = c.Count
		case domain.JobStatusPending:
			stats.Pending = c.Count
		case domain.JobStatusSent:
			stats.Sent = c.Count
		case domain.JobStatusFailed:
			stats.Failed = c.Count
		}
	}
	return stats
}

// fillDays returns one entry per UTC day ending today, oldest first, with
// days missing from counts set to zero
func fillDays(now time.Time, days int, counts []domain.DailyCount) []domain.DailyCount {
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Date] += c.Count
	}

	out := make([]domain.DailyCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.UTC().AddDate(0, 0, -i).Format(time.DateOnly)
		out = append(out, domain.DailyCount{Date: day, Count: byDay[day]})
	}
	return out
}
