package domain

import "time"

// Template is a stored subject/body pair containing {{placeholder}} tokens
type Template struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RoleConfig maps a role to its default template and resume
type RoleConfig struct {
	ID         string    `db:"id" json:"id"`
	Role       string    `db:"role" json:"role"`
	TemplateID string    `db:"template_id" json:"templateId"`
	ResumeName string    `db:"resume_name" json:"resumeName"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`

	Template *Template `db:"-" json:"template,omitempty"`
}

// Rendered is the result of interpolating a template for one job
type Rendered struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
