package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

var (
	// ErrMissingClientID is returned when the OAuth client id is not configured
	ErrMissingClientID = errors.New("gmail client id is required")

	// ErrMissingClientSecret is returned when the OAuth client secret is not configured
	ErrMissingClientSecret = errors.New("gmail client secret is required")

	// ErrMissingRefreshToken is returned when the transport has no refresh token
	ErrMissingRefreshToken = errors.New("gmail refresh token is required")

	// ErrMissingCode is returned when an authorization code is empty
	ErrMissingCode = errors.New("authorization code is required")
)

// OAuthConfig holds the Gmail OAuth client credentials
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Tokens is the result of exchanging an authorization code
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// OAuth runs the authorization-code flow used to obtain a refresh token
// for sending mail
type OAuth struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// OAuthOption configures OAuth
type OAuthOption func(*OAuth)

// WithOAuthHTTPClient sets the HTTP client used for token requests
func WithOAuthHTTPClient(c *http.Client) OAuthOption {
	return func(o *OAuth) {
		o.httpClient = c
	}
}

// WithEndpoint overrides the Google OAuth endpoint
func WithEndpoint(endpoint oauth2.Endpoint) OAuthOption {
	return func(o *OAuth) {
		o.config.Endpoint = endpoint
	}
}

// NewOAuth creates the OAuth helper. Returns an error if the client id or
// secret is empty.
func NewOAuth(cfg OAuthConfig, opts ...OAuthOption) (*OAuth, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	o := &OAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gmail.GmailSendScope},
			Endpoint:     googleOAuth.Endpoint,
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// AuthURL returns the consent page URL. Offline access with a forced
// consent prompt makes Google issue a refresh token every time.
func (o *OAuth) AuthURL() string {
	return o.config.AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for tokens
func (o *OAuth) Exchange(ctx context.Context, code string) (*Tokens, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	tok, err := o.config.Exchange(o.contextWithHTTPClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}, nil
}

// Client returns an HTTP client that mints access tokens from the refresh
// token as needed
func (o *OAuth) Client(ctx context.Context, refreshToken string) (*http.Client, error) {
	if refreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	ctx = o.contextWithHTTPClient(ctx)
	src := o.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return oauth2.NewClient(ctx, src), nil
}

func (o *OAuth) contextWithHTTPClient(ctx context.Context) context.Context {
	if o.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}
	return ctx
}
