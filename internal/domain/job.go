package domain

import "time"

// JobStatus is the lifecycle state of a job application
type JobStatus string

// Job status constants
const (
	JobStatusDraft   JobStatus = "DRAFT"
	JobStatusPending JobStatus = "PENDING"
	JobStatusSent    JobStatus = "SENT"
	JobStatusFailed  JobStatus = "FAILED"
)

// AllJobStatuses lists every status in lifecycle order
var AllJobStatuses = []JobStatus{
	JobStatusDraft,
	JobStatusPending,
	JobStatusSent,
	JobStatusFailed,
}

// ParseJobStatus converts a raw string into a JobStatus
func ParseJobStatus(s string) (JobStatus, error) {
	for _, status := range AllJobStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// IsTerminal reports whether no further send attempts are allowed
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSent
}

// Job is one job application record. Template is populated when the
// record is loaded together with its template.
type Job struct {
	ID           string     `db:"id" json:"id"`
	JobTitle     string     `db:"job_title" json:"jobTitle"`
	Role         string     `db:"role" json:"role"`
	ContactEmail string     `db:"contact_email" json:"contactEmail"`
	Notes        *string    `db:"notes" json:"notes"`
	ResumeName   string     `db:"resume_name" json:"resumeName"`
	Status       JobStatus  `db:"status" json:"status"`
	TemplateID   string     `db:"template_id" json:"templateId"`
	CompanyName  *string    `db:"company_name" json:"companyName"`
	SentAt       *time.Time `db:"sent_at" json:"sentAt"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`

	Template *Template `db:"-" json:"template,omitempty"`
}

// NotesOrEmpty returns the notes text or an empty string when unset
func (j *Job) NotesOrEmpty() string {
	if j.Notes == nil {
		return ""
	}
	return *j.Notes
}

// StatusUpdate holds the fields the send pipeline may change on a job.
// Nil pointers leave the stored value untouched.
type StatusUpdate struct {
	Status      JobStatus
	CompanyName *string
	SentAt      *time.Time
}

// JobFields holds the user-editable fields of a job
type JobFields struct {
	JobTitle     string
	Role         string
	ContactEmail string
	Notes        *string
	ResumeName   string
	TemplateID   string
	CompanyName  *string
}
