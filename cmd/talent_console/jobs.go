package main

import (
	"context"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List job postings",
	RunE:  runJobs,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show job, candidate and shortlist counters",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(statsCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
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
	e.printer.PrintJobs(jobs)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	stats, err := e.client.Stats(ctx)
	if err != nil {
		return err
	}
	e.printer.PrintStats(stats)
	return nil
}
