package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDays(t *testing.T) {
	counts := []domain.DailyCount{
		{Date: "2025-06-10", Count: 2},
		{Date: "2025-06-07", Count: 1},
	}

	days := fillDays(testNow, 7, counts)

	require.Len(t, days, 7)
	assert.Equal(t, domain.DailyCount{Date: "2025-06-04", Count: 0}, days[0])
	assert.Equal(t, domain.DailyCount{Date: "2025-06-07", Count: 1}, days[3])
	assert.Equal(t, domain.DailyCount{Date: "2025-06-10", Count: 2}, days[6])
}

func TestStatusStats(t *testing.T) {
	stats := statusStats([]statusCount{
		{Status: domain.JobStatusDraft, Count: 4},
		{Status: domain.JobStatusSent, Count: 2},
		{Status: domain.JobStatusFailed, Count: 1},
	})

	assert.Equal(t, domain.StatusStats{Draft: 4, Pending: 0, Sent: 2, Failed: 1}, stats)
}

func TestStorage_Dashboard(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM jobs$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("DRAFT", 2).
			AddRow("SENT", 3))
	mock.ExpectQuery(`WHERE sent_at >= \$1$`).
		WithArgs(testNow.AddDate(0, 0, -30)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`GROUP BY company_name`).
		WithArgs("SENT", 10).
		WillReturnRows(sqlmock.NewRows([]string{"company", "count"}).
			AddRow("Acme", 2).
			AddRow("Globex", 1))
	mock.ExpectQuery(`GROUP BY day`).
		WithArgs(testNow.AddDate(0, 0, -7)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count"}).AddRow("2025-06-09", 3))

	dash, err := s.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, dash.TotalJobs)
	assert.Equal(t, 3, dash.RecentApplications)
	assert.Equal(t, domain.StatusStats{Draft: 2, Sent: 3}, dash.StatusStats)
	assert.Equal(t, []domain.CompanyCount{{Company: "Acme", Count: 2}, {Company: "Globex", Count: 1}}, dash.ApplicationsByCompany)
	require.Len(t, dash.DailyApplications, 7)
	assert.Equal(t, 3, dash.DailyApplications[5].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
