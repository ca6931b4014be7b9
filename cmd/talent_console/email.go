package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/types"
	"github.com/spf13/cobra"
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Email every shortlisted candidate of a job",
	Long: "Compose one email addressed to every shortlisted candidate of a job, in roster " +
		"order. Use --dry-run to print the draft without sending it.",
	RunE: runEmail,
}

var (
	emailJobID   int64
	emailTo      string
	emailCC      string
	emailBCC     string
	emailSubject string
	emailMessage string
	emailAttach  []string
	emailDryRun  bool
)

func init() {
	emailCmd.Flags().Int64VarP(&emailJobID, "job", "j", 0, "Job ID (required)")
	emailCmd.Flags().StringVar(&emailTo, "to", "", "Replace the derived recipient list")
	emailCmd.Flags().StringVar(&emailCC, "cc", "", "Comma-separated CC addresses")
	emailCmd.Flags().StringVar(&emailBCC, "bcc", "", "Comma-separated BCC addresses")
	emailCmd.Flags().StringVar(&emailSubject, "subject", "", "Subject (required)")
	emailCmd.Flags().StringVarP(&emailMessage, "message", "m", "", "Message body (required)")
	emailCmd.Flags().StringSliceVar(&emailAttach, "attach", nil, "Files to attach")
	emailCmd.Flags().BoolVar(&emailDryRun, "dry-run", false, "Print the draft without sending")

	rootCmd.AddCommand(emailCmd)
}

func runEmail(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	attachments, err := intake.LoadFiles(emailAttach)
	if err != nil {
		return err
	}

	store, err := e.openJob(ctx, emailJobID)
	if err != nil {
		return err
	}
	if _, err := store.ComposeEmail(); err != nil {
		return err
	}

	gateway := store.Gateway()
	_ = gateway.Edit(func(d *types.EmailDraft) {
		if strings.TrimSpace(emailTo) != "" {
			d.To = emailTo
		}
		d.CC = emailCC
		d.BCC = emailBCC
		d.Subject = emailSubject
		d.Message = emailMessage
		d.Attachments = attachments
	})

	draft, _ := gateway.Draft()
	e.printer.PrintDraft(draft)
	if emailDryRun {
		return draft.Validate()
	}

	if err := gateway.Dispatch(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Email sent to %d recipient(s)\n", len(types.SplitAddresses(draft.To)))
	return nil
}
