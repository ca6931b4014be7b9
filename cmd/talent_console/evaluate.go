package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-console/internal/correlate"
	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/types"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [files...]",
	Short: "Score resumes against a job and show the refreshed roster",
	Long: "Upload PDF or TXT resumes in one batch for a job. When the batch completes the " +
		"job's roster is fetched again and shown in place of the previous one.",
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluate,
}

var (
	evaluateJobID   int64
	evaluateMessage string
)

func init() {
	evaluateCmd.Flags().Int64VarP(&evaluateJobID, "job", "j", 0, "Job ID (required)")
	evaluateCmd.Flags().StringVarP(&evaluateMessage, "message", "m", "", "Optional note sent with the batch")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
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

	store, err := e.openJob(ctx, evaluateJobID)
	if err != nil {
		return err
	}

	part := store.Enqueue(files)
	e.printer.PrintWarning(part.Warning)

	batch, err := store.Evaluate(ctx, evaluateMessage)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Evaluated %d file(s) for job %d\n", len(batch.Files), evaluateJobID)
	printReply(out, batch)
	if e.cfg.Verbose {
		e.printer.PrintTranscript(correlate.Transcript(batch.Response))
	} else if batch.Response != nil {
		for _, r := range batch.Response.Results {
			if failed, ok := r.(types.ResultError); ok {
				e.printer.PrintWarning(correlate.FormatResult(failed))
			}
		}
	}
	printRoster(e, store, false)
	return nil
}

// printReply shows the evaluator's summary for a job-mode batch.
func printReply(out io.Writer, batch *intake.Batch) {
	if batch.Response == nil {
		return
	}
	if reply := strings.TrimSpace(batch.Response.Reply); reply != "" {
		_, _ = fmt.Fprintln(out, reply)
	}
}
