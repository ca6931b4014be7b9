package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/talent-console/internal/config"
	"github.com/jonathan/talent-console/internal/db"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled evaluation batches and shortlist updates",
	RunE:  runHistory,
}

var (
	historyJobID int64
	historyLimit int
)

func init() {
	historyCmd.Flags().Int64VarP(&historyJobID, "job", "j", 0, "Only this job")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum batches to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL required (set %s or use --db-url)", config.EnvDatabaseURL)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		return err
	}

	batches, err := database.ListBatches(ctx, historyJobID, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Batches (%d):\n", len(batches))
	for _, b := range batches {
		job := "-"
		if b.JobID != nil {
			job = fmt.Sprintf("%d", *b.JobID)
		}
		line := fmt.Sprintf("  %s  job=%s  %-9s  files=%s", b.CreatedAt.Format("2006-01-02 15:04"), job, b.Status, strings.Join(b.Files, ","))
		if b.Error != nil {
			line += "  error=" + *b.Error
		}
		_, _ = fmt.Fprintln(out, line)
	}

	if historyJobID == 0 {
		return nil
	}
	events, err := database.ListShortlistEvents(ctx, historyJobID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Shortlist updates (%d):\n", len(events))
	for _, ev := range events {
		line := fmt.Sprintf("  %s  candidate=%d  shortlisted=%t  %s",
			ev.CreatedAt.Format("2006-01-02 15:04"), ev.CandidateID, ev.Shortlisted, ev.Status)
		if ev.Error != nil {
			line += "  error=" + *ev.Error
		}
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}
