package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuongbtq/job-mailer/internal/config"
	"github.com/cuongbtq/job-mailer/internal/mail"
)

// Authorizer runs the Gmail consent flow
type Authorizer interface {
	AuthURL() string
	Exchange(ctx context.Context, code string) (*mail.Tokens, error)
}

// newAuthorizer builds the OAuth helper from the API service config
var newAuthorizer = func(path string) (Authorizer, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	oauth, err := mail.NewOAuth(mail.OAuthConfig{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		RedirectURL:  cfg.Gmail.RedirectURI,
	})
	if err != nil {
		return nil, err
	}
	return oauth, nil
}

func init() {
	authCmd.AddCommand(authURLCmd)
	authCmd.AddCommand(authExchangeCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain a Gmail refresh token",
	Long: `Open the URL printed by "auth url", approve access, then pass the code
from the redirect to "auth exchange". Put the printed refresh token in
GMAIL_REFRESH_TOKEN.`,
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the Gmail consent URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		auth, err := newAuthorizer(configPath)
		if err != nil {
			return fmt.Errorf("error loading Gmail credentials: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), auth.AuthURL())
		return nil
	},
}

var authExchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Exchange an authorization code for tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := newAuthorizer(configPath)
		if err != nil {
			return fmt.Errorf("error loading Gmail credentials: %w", err)
		}

		tokens, err := auth.Exchange(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("error exchanging code: %w", err)
		}
		if tokens.RefreshToken == "" {
			return fmt.Errorf("no refresh token issued; revoke the app's access and authorize again")
		}

		return printJSON(cmd, tokens)
	},
}

// GetAuthCmd returns the auth command
func GetAuthCmd() *cobra.Command {
	return authCmd
}
