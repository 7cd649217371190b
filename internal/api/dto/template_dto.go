package dto

type TemplateRequest struct {
	Name    string `json:"name" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

type PreviewRequest struct {
	JobID string `json:"jobId" binding:"required,uuid"`
}

type RoleConfigRequest struct {
	Role       string `json:"role" binding:"required"`
	TemplateID string `json:"templateId" binding:"required,uuid"`
	ResumeName string `json:"resumeName" binding:"required"`
}
