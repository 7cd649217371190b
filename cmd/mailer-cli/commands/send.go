package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuongbtq/job-mailer/internal/domain"
)

func init() {
	sendCmd.AddCommand(sendJobCmd)
	sendCmd.AddCommand(sendBulkCmd)

	sendBulkCmd.Flags().String("status", string(domain.JobStatusPending), "Send every job in this status (PENDING, DRAFT or FAILED)")
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send application emails through the API service",
}

var sendJobCmd = &cobra.Command{
	Use:   "job <job-id>",
	Short: "Send the email for one job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := apiClient.SendJob(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("error sending job: %w", err)
		}

		if err := printJSON(cmd, result); err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("job %s was not sent: %s", args[0], result.Message)
		}
		return nil
	},
}

var sendBulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Send every job in a status, one at a time",
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, _ := cmd.Flags().GetString("status")
		status, err := domain.ParseJobStatus(raw)
		if err != nil {
			return fmt.Errorf("invalid status %q: %w", raw, err)
		}

		result, err := apiClient.SendBulk(context.Background(), status)
		if err != nil {
			return fmt.Errorf("error sending jobs: %w", err)
		}

		if err := printJSON(cmd, result); err != nil {
			return err
		}
		if result.Summary.Failed > 0 {
			return fmt.Errorf("%d of %d jobs failed", result.Summary.Failed, result.Summary.Total)
		}
		return nil
	},
}

// GetSendCmd returns the send command
func GetSendCmd() *cobra.Command {
	return sendCmd
}
