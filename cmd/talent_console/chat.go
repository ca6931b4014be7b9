package main

import (
	"context"

	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/session"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [files...]",
	Short: "Send a message and/or resumes to the screening assistant",
	Long: "Send a free-form message, resumes, or both. Every uploaded file gets its own " +
		"result block; a file the evaluator could not score shows its error instead.",
	RunE: runChat,
}

var (
	chatMessage string
	chatJobID   int64
)

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Message text")
	chatCmd.Flags().Int64VarP(&chatJobID, "job", "j", 0, "Score against this job")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	e, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	files, err := intake.LoadFiles(args)
	if err != nil {
		return err
	}

	composer := session.NewComposer(e.client, e.journal)
	part := composer.Enqueue(files)
	e.printer.PrintWarning(part.Warning)

	var jobID *int64
	if chatJobID > 0 {
		jobID = &chatJobID
	}

	added, err := composer.Send(ctx, chatMessage, jobID)
	e.printer.PrintTranscript(added)
	return err
}
