package main

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-console/internal/export"
	"github.com/jonathan/talent-console/internal/types"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a job's roster and shortlist to an Excel workbook",
	RunE:  runExport,
}

var (
	exportJobID int64
	exportOut   string
)

func init() {
	exportCmd.Flags().Int64VarP(&exportJobID, "job", "j", 0, "Job ID (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (default shortlist_job_<id>.xlsx)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	jobs, err := e.client.ListJobs(ctx)
	if err != nil {
		return err
	}
	job := types.Job{ID: exportJobID}
	for _, j := range jobs {
		if j.ID == exportJobID {
			job = j
			break
		}
	}

	store, err := e.openJob(ctx, exportJobID)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("shortlist_job_%d.xlsx", exportJobID)
	}
	path, err := export.WriteShortlistReport(out, job, store.Roster(), store.Shadow())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d candidate(s) to %s\n", len(store.Roster()), path)
	return nil
}
