package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStorage(sqlx.NewDb(db, "postgres"), slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func testEvent() *domain.SendEvent {
	return &domain.SendEvent{
		EventID:    "8a4f7f8e-8a7d-4d55-9c1e-0d3c8c1c6b11",
		JobID:      "2f0f4a53-7f6e-4a55-8b8e-5b7f1f1d2c33",
		Status:     domain.JobStatusSent,
		Mode:       domain.SendModeSingle,
		OccurredAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestStorage_InsertSendEvent(t *testing.T) {
	tests := []struct {
		name     string
		result   sqlmock.Result
		err      error
		inserted bool
		wantErr  error
	}{
		{name: "inserted", result: sqlmock.NewResult(0, 1), inserted: true},
		{name: "duplicate", result: sqlmock.NewResult(0, 0), inserted: false},
		{name: "unknown job", err: &pq.Error{Code: foreignKeyViolation}, wantErr: ErrUnknownJob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			e := testEvent()

			exp := mock.ExpectExec(`INSERT INTO send_events .+ ON CONFLICT \(event_id\) DO NOTHING`).
				WithArgs(e.EventID, e.JobID, "SENT", "single", "", e.OccurredAt)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(tt.result)
			}

			inserted, err := s.InsertSendEvent(context.Background(), e)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.inserted, inserted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_InsertSendEvent_DatabaseError(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(`INSERT INTO send_events`).WillReturnError(errors.New("connection reset"))

	_, err := s.InsertSendEvent(context.Background(), testEvent())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownJob)
	assert.Contains(t, err.Error(), "connection reset")
}
