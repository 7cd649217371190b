package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagConfig        = "config"
	flagTimeout       = "timeout"
)

// environment variable names
const (
	envServerAddress = "MAILER_SERVER_ADDRESS"
	envConfigPath    = "API_SERVICE_CONFIG_PATH"
)

const (
	defaultServerAddress = "http://localhost:8080"
	defaultConfigPath    = "configs/api-service/config.yaml"
)

var (
	// apiClient talks to a running API service. Commands that work locally
	// leave it unset.
	apiClient Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// configPath points at the API service config used by local commands
	configPath string
	timeout    time.Duration

	// newAPIClient builds apiClient before any command runs
	newAPIClient = func(baseURL string, timeout time.Duration) (Client, error) {
		return NewClient(baseURL, timeout)
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", defaultServerAddress, "Address of the API service (env: MAILER_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringVarP(&configPath, flagConfig, "c", defaultConfigPath, "API service config file for local commands (env: API_SERVICE_CONFIG_PATH)")
	RootCmd.PersistentFlags().DurationVar(&timeout, flagTimeout, DefaultTimeout, "Timeout for API requests")

	RootCmd.AddCommand(GetAuthCmd())
	RootCmd.AddCommand(GetSendCmd())
	RootCmd.AddCommand(GetSeedCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "mailer",
	Short:         "Job mailer CLI",
	Long:          `mailer authorizes Gmail access, seeds default templates and triggers sends on a running API service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > Env Var > Default
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagConfig) {
			if envPath := os.Getenv(envConfigPath); envPath != "" {
				configPath = envPath
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}

		var err error
		apiClient, err = newAPIClient(serverAddress, timeout)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

func printJSON(cmd *cobra.Command, v any) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return nil
}
