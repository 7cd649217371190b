package mail

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_SinglePart(t *testing.T) {
	msg := string(BuildMessage(Email{
		To:      "jobs@acme.com",
		Subject: "Application for Go Engineer",
		Body:    "<p>Hello</p>",
	}, nil, "unused"))

	assert.True(t, strings.HasPrefix(msg, "To: jobs@acme.com\r\nSubject: Application for Go Engineer\r\n"))
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8\r\n\r\n<p>Hello</p>")
	assert.NotContains(t, msg, "multipart")
	assert.NotContains(t, msg, "unused")
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	msg := string(BuildMessage(Email{To: "a@b.c", Subject: "Ứng tuyển", Body: "x"}, nil, ""))

	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.NotContains(t, msg, "Subject: Ứng tuyển")
}

func TestBuildMessage_Multipart(t *testing.T) {
	content := []byte(strings.Repeat("%PDF-1.4 binary\x00\x01", 20))
	msg := string(BuildMessage(Email{
		To:      "jobs@acme.com",
		Subject: "Hi",
		Body:    "<p>Body</p>",
	}, &Attachment{Filename: "cv.pdf", Content: content}, "boundary_test"))

	assert.Contains(t, msg, `Content-Type: multipart/mixed; boundary="boundary_test"`)
	assert.Contains(t, msg, "--boundary_test\r\nContent-Type: text/html; charset=utf-8\r\n\r\n<p>Body</p>\r\n")
	assert.Contains(t, msg, `Content-Type: application/pdf; name="cv.pdf"`)
	assert.Contains(t, msg, `Content-Disposition: attachment; filename="cv.pdf"`)
	assert.Contains(t, msg, "Content-Transfer-Encoding: base64")
	assert.True(t, strings.HasSuffix(msg, "--boundary_test--\r\n"))

	// attachment part body is the base64 content wrapped at 76 columns
	start := strings.Index(msg, "Content-Transfer-Encoding: base64\r\n\r\n") + len("Content-Transfer-Encoding: base64\r\n\r\n")
	end := strings.Index(msg, "--boundary_test--")
	encoded := msg[start:end]
	for _, line := range strings.Split(strings.TrimSuffix(encoded, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(encoded, "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestEncodeRaw(t *testing.T) {
	// bytes chosen so standard base64 would contain '+', '/' and padding
	input := []byte{0xfb, 0xff, 0xbf, 0x3e}
	std := base64.StdEncoding.EncodeToString(input)
	require.Contains(t, std, "+")
	require.Contains(t, std, "/")
	require.True(t, strings.HasSuffix(std, "="))

	got := EncodeRaw(input)

	want := strings.TrimRight(strings.NewReplacer("+", "-", "/", "_").Replace(std), "=")
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "=")
}

func TestNewBoundary(t *testing.T) {
	a, b := NewBoundary(), NewBoundary()
	assert.True(t, strings.HasPrefix(a, "boundary_"))
	assert.NotEqual(t, a, b)
}

func TestAttachmentFromFile(t *testing.T) {
	a := AttachmentFromFile("/srv/public/resumes/Backend-CV-1.pdf", []byte("x"))
	assert.Equal(t, "Backend-CV-1.pdf", a.Filename)
	assert.Equal(t, []byte("x"), a.Content)
}
