package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// gmailUserID addresses the mailbox of the authorized account
const gmailUserID = "me"

// AttachmentReader gives the transport read access to attachment files
type AttachmentReader interface {
	Exists(path string) bool
	ReadBytes(path string) ([]byte, error)
}

// Transport sends one email and returns the provider message id
type Transport interface {
	Send(ctx context.Context, email Email) (string, error)
}

// GmailTransport sends mail through the Gmail API. It owns the OAuth
// credentials for the lifetime of the process; construct it once and share it.
type GmailTransport struct {
	service     *gmail.Service
	attachments AttachmentReader
	logger      *slog.Logger
	boundary    func() string
}

// GmailOption configures a GmailTransport
type GmailOption func(*gmailOptions)

type gmailOptions struct {
	clientOpts []option.ClientOption
	boundary   func() string
}

// WithClientOptions passes extra options to the Gmail API client
func WithClientOptions(opts ...option.ClientOption) GmailOption {
	return func(o *gmailOptions) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// WithBoundary overrides multipart boundary generation
func WithBoundary(fn func() string) GmailOption {
	return func(o *gmailOptions) {
		o.boundary = fn
	}
}

// NewGmailTransport builds a transport authenticated with refreshToken. Access tokens are refreshed transparently by the OAuth client.
func NewGmailTransport(ctx context.Context, oauth *OAuth, refreshToken string, attachments AttachmentReader, logger *slog.Logger, opts ...GmailOption) (*GmailTransport, error) {
	o := gmailOptions{boundary: NewBoundary}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient, err := oauth.Client(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, o.clientOpts...)
	svc, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailTransport{
		service:     svc,
		attachments: attachments,
		logger:      logger,
		boundary:    o.boundary,
	}, nil
}

// Send delivers one email. The attachment is included only when the path is
// set and the file exists. Every failure wraps domain.ErrTransport.
func (t *GmailTransport) Send(ctx context.Context, email Email) (string, error) {
	var attachment *Attachment
	if email.AttachmentPath != "" && t.attachments.Exists(email.AttachmentPath) {
		content, err := t.attachments.ReadBytes(email.AttachmentPath)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
		attachment = AttachmentFromFile(email.AttachmentPath, content)
	} else if email.AttachmentPath != "" {
		t.logger.Warn("Attachment not found, sending without it",
			slog.String("to", email.To),
			slog.String("attachment_path", email.AttachmentPath),
		)
	}

	raw := EncodeRaw(BuildMessage(email, attachment, t.boundary()))

	msg, err := t.service.Users.Messages.Send(gmailUserID, &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	if msg == nil || msg.Id == "" {
		return "", fmt.Errorf("%w: provider returned no message id", domain.ErrTransport)
	}

	t.logger.Info("Email sent",
		slog.String("to", email.To),
		slog.String("message_id", msg.Id),
		slog.Bool("with_attachment", attachment != nil),
	)

	return msg.Id, nil
}
