package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCompany(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "company domain", email: "jobs@acme.com", want: "Acme"},
		{name: "subdomain keeps first label", email: "hr@careers.example.co.uk", want: "Careers"},
		{name: "rest of label unchanged", email: "hi@openAI.com", want: "OpenAI"},
		{name: "gmail", email: "x@gmail.com", want: "Company"},
		{name: "generic provider is case-insensitive", email: "x@Yahoo.COM", want: "Company"},
		{name: "hotmail", email: "x@hotmail.com", want: "Company"},
		{name: "outlook", email: "x@outlook.com", want: "Company"},
		{name: "icloud", email: "x@icloud.com", want: "Company"},
		{name: "no domain", email: "no-domain", want: "Company"},
		{name: "empty domain", email: "someone@", want: "Company"},
		{name: "empty first label", email: "x@.com", want: ""},
		{name: "empty string", email: "", want: "Company"},
		{name: "domain without dot", email: "root@localhost", want: "Localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCompany(tt.email))
		})
	}
}
