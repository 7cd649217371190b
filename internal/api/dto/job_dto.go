package dto

import "github.com/cuongbtq/job-mailer/internal/domain"

type CreateJobRequest struct {
	JobTitle     string  `json:"jobTitle" binding:"required"`
	Role         string  `json:"role" binding:"required"`
	ContactEmail string  `json:"contactEmail" binding:"required,email"`
	Notes        *string `json:"notes"`
	ResumeName   string  `json:"resumeName" binding:"required"`
	TemplateID   string  `json:"templateId" binding:"required,uuid"`
}

type UpdateJobRequest struct {
	JobTitle     string  `json:"jobTitle" binding:"required"`
	Role         string  `json:"role" binding:"required"`
	ContactEmail string  `json:"contactEmail" binding:"required,email"`
	Notes        *string `json:"notes"`
	ResumeName   string  `json:"resumeName" binding:"required"`
	TemplateID   string  `json:"templateId" binding:"required,uuid"`
	CompanyName  *string `json:"companyName"`
}

type ListJobsRequest struct {
	Status   string `form:"status" binding:"omitempty,jobstatus"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Cursor   string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []domain.Job `json:"jobs"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// Fields converts a create request into storage fields
func (r *CreateJobRequest) Fields() domain.JobFields {
	return domain.JobFields{
		JobTitle:     r.JobTitle,
		Role:         r.Role,
		ContactEmail: r.ContactEmail,
		Notes:        r.Notes,
		ResumeName:   r.ResumeName,
		TemplateID:   r.TemplateID,
	}
}

// Fields converts an update request into storage fields
func (r *UpdateJobRequest) Fields() domain.JobFields {
	return domain.JobFields{
		JobTitle:     r.JobTitle,
		Role:         r.Role,
		ContactEmail: r.ContactEmail,
		Notes:        r.Notes,
		ResumeName:   r.ResumeName,
		TemplateID:   r.TemplateID,
		CompanyName:  r.CompanyName,
	}
}
