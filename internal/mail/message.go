package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	crlf            = "\r\n"
	base64LineWidth = 76
)

// Email is a single outbound message
type Email struct {
	To             string
	Subject        string
	Body           string // HTML
	AttachmentPath string // optional
}

// Attachment is a binary file sent alongside the HTML body
type Attachment struct {
	Filename string
	Content  []byte
}

// BuildMessage assembles a raw RFC 5322 message. Without an attachment the
// message is a single text/html part; with one it is multipart/mixed with
// the HTML body first and the PDF second.
func BuildMessage(email Email, attachment *Attachment, boundary string) []byte {
	var b bytes.Buffer

	writeHeader(&b, "To", email.To)
	writeHeader(&b, "Subject", mime.QEncoding.Encode("utf-8", email.Subject))
	writeHeader(&b, "MIME-Version", "1.0")

	if attachment == nil {
		writeHeader(&b, "Content-Type", "text/html; charset=utf-8")
		b.WriteString(crlf)
		b.WriteString(email.Body)
		return b.Bytes()
	}

	writeHeader(&b, "Content-Type", fmt.Sprintf(`multipart/mixed; boundary="%s"`, boundary))
	b.WriteString(crlf)

	b.WriteString("--" + boundary + crlf)
	writeHeader(&b, "Content-Type", "text/html; charset=utf-8")
	b.WriteString(crlf)
	b.WriteString(email.Body)
	b.WriteString(crlf)

	b.WriteString("--" + boundary + crlf)
	writeHeader(&b, "Content-Type", fmt.Sprintf(`application/pdf; name="%s"`, attachment.Filename))
	writeHeader(&b, "Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, attachment.Filename))
	writeHeader(&b, "Content-Transfer-Encoding", "base64")
	b.WriteString(crlf)
	writeBase64Lines(&b, attachment.Content)

	b.WriteString("--" + boundary + "--" + crlf)
	return b.Bytes()
}

// EncodeRaw encodes a message the way the Gmail API expects: URL-safe
// base64 with the padding removed.
func EncodeRaw(message []byte) string {
	return base64.RawURLEncoding.EncodeToString(message)
}

// NewBoundary returns a random multipart boundary
func NewBoundary() string {
	return "boundary_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// AttachmentFromFile builds an Attachment named after the path's base name
func AttachmentFromFile(path string, content []byte) *Attachment {
	return &Attachment{
		Filename: filepath.Base(path),
		Content:  content,
	}
}

func writeHeader(b *bytes.Buffer, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString(crlf)
}

func writeBase64Lines(b *bytes.Buffer, content []byte) {
	encoded := base64.StdEncoding.EncodeToString(content)
	for len(encoded) > base64LineWidth {
		b.WriteString(encoded[:base64LineWidth])
		b.WriteString(crlf)
		encoded = encoded[base64LineWidth:]
	}
	b.WriteString(encoded)
	b.WriteString(crlf)
}
