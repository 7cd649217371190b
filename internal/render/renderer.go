package render

import (
	"regexp"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Renderer interpolates job fields into template subject and body.
//
// Values are inserted verbatim by default. The body ends up as the HTML part
// of the outgoing message, so any markup in a job field (notes in particular)
// is delivered as markup. WithSanitizer strips unsafe HTML from the values
// before substitution; the template text itself is never altered.
type Renderer struct {
	policy *bluemonday.Policy
}

// Option configures a Renderer
type Option func(*Renderer)

// WithSanitizer cleans every variable value with the given policy
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		r.policy = policy
	}
}

// WithUGCSanitizer cleans variable values with bluemonday's user generated
// content policy
func WithUGCSanitizer() Option {
	return WithSanitizer(bluemonday.UGCPolicy())
}

// NewRenderer creates a new Renderer
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the subject and body for a job. Placeholders with no
// matching variable are left exactly as written.
func (r *Renderer) Render(tpl *domain.Template, job *domain.Job) domain.Rendered {
	vars := r.Variables(job)
	return domain.Rendered{
		Subject: replace(tpl.Subject, vars),
		Body:    replace(tpl.Body, vars),
	}
}

// Variables returns the substitution map for a job
func (r *Renderer) Variables(job *domain.Job) map[string]string {
	vars := map[string]string{
		"jobTitle":     job.JobTitle,
		"role":         job.Role,
		"company":      ExtractCompany(job.ContactEmail),
		"contactEmail": job.ContactEmail,
		"notes":        job.NotesOrEmpty(),
	}

	if r.policy != nil {
		for k, v := range vars {
			vars[k] = r.policy.Sanitize(v)
		}
	}

	return vars
}

func replace(text string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		key := token[2 : len(token)-2]
		if v, ok := vars[key]; ok {
			return v
		}
		return token
	})
}
