package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Flip the shortlist status of selected candidates",
	Long: "Flip the shortlist status of every selected candidate. Select with --ids, or with " +
		"--all to take every candidate matching the filters. Candidates whose update fails " +
		"keep their previous status and are listed by name.",
	RunE: runShortlist,
}

var (
	shortlistJobID  int64
	shortlistIDs    []int64
	shortlistAll    bool
	shortlistFilter filterFlags
)

func init() {
	shortlistCmd.Flags().Int64VarP(&shortlistJobID, "job", "j", 0, "Job ID (required)")
	shortlistCmd.Flags().Int64SliceVar(&shortlistIDs, "ids", nil, "Candidate IDs to toggle (comma-separated)")
	shortlistCmd.Flags().BoolVar(&shortlistAll, "all", false, "Toggle every candidate matching the filters")
	shortlistFilter.register(shortlistCmd)

	rootCmd.AddCommand(shortlistCmd)
}

func runShortlist(cmd *cobra.Command, _ []string) error {
	if len(shortlistIDs) == 0 && !shortlistAll {
		return fmt.Errorf("select candidates with --ids or --all")
	}
	if len(shortlistIDs) > 0 && shortlistAll {
		return fmt.Errorf("--ids and --all are mutually exclusive")
	}

	ctx := context.Background()
	e, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.openJob(ctx, shortlistJobID)
	if err != nil {
		return err
	}
	store.SetFilter(shortlistFilter.state(cmd))

	if shortlistAll {
		if shortlistFilter.shortlisted {
			store.ToggleSelectAllShortlisted()
		} else {
			store.ToggleSelectAll()
		}
	}
	for _, id := range shortlistIDs {
		if _, ok := store.Candidate(id); !ok {
			return fmt.Errorf("candidate %d not found for job %d", id, shortlistJobID)
		}
		store.Toggle(id)
	}

	outcome, err := store.CommitBulkToggle(ctx)
	e.printer.PrintOutcome(outcome)
	if err != nil {
		return err
	}
	printRoster(e, store, true)
	return nil
}
