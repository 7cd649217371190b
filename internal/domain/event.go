package domain

import "time"

// SendEvent records one terminal send outcome for a job
type SendEvent struct {
	EventID    string    `db:"event_id" json:"event_id"`
	JobID      string    `db:"job_id" json:"job_id"`
	Status     JobStatus `db:"status" json:"status"`
	Mode       string    `db:"mode" json:"mode"`
	Error      string    `db:"error_message" json:"error,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

// Send modes
const (
	SendModeSingle = "single"
	SendModeBulk   = "bulk"
)
