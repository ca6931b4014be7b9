package main

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-console/internal/session"
	"github.com/jonathan/talent-console/internal/types"
	"github.com/spf13/cobra"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Show the candidate roster of a job",
	Long: "Show the candidate roster of a job sorted by score. Filters combine: a row must match " +
		"the search text, the experience level and the minimum score.",
	RunE: runCandidates,
}

// filterFlags are shared by every command that projects a roster.
type filterFlags struct {
	search      string
	experience  string
	minScore    int
	shortlisted bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Case-insensitive match against name or email")
	cmd.Flags().StringVar(&f.experience, "experience", "", fmt.Sprintf("Experience level (%q, %q or %q)",
		types.ExperienceFresher, types.ExperienceJunior, types.ExperienceSeasoned))
	cmd.Flags().IntVar(&f.minScore, "min-score", 0, "Only candidates scoring at least this much (e.g. 40, 70, 85)")
	cmd.Flags().BoolVar(&f.shortlisted, "shortlisted", false, "Only shortlisted candidates")
}

func (f *filterFlags) state(cmd *cobra.Command) types.FilterState {
	state := types.FilterState{SearchQuery: f.search, ExperienceFilter: f.experience}
	if cmd.Flags().Changed("min-score") {
		state = state.WithMinScore(f.minScore)
	}
	return state
}

var (
	candidatesJobID  int64
	candidatesID     int64
	candidatesFilter filterFlags
)

func init() {
	candidatesCmd.Flags().Int64VarP(&candidatesJobID, "job", "j", 0, "Job ID (required)")
	candidatesCmd.Flags().Int64Var(&candidatesID, "id", 0, "Show the full detail of one candidate")
	candidatesFilter.register(candidatesCmd)

	rootCmd.AddCommand(candidatesCmd)
}

func runCandidates(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.openJob(ctx, candidatesJobID)
	if err != nil {
		return err
	}

	if candidatesID != 0 {
		c, ok := store.Candidate(candidatesID)
		if !ok {
			return fmt.Errorf("candidate %d not found for job %d", candidatesID, candidatesJobID)
		}
		e.printer.PrintCandidate(c)
		return nil
	}

	store.SetFilter(candidatesFilter.state(cmd))
	printRoster(e, store, candidatesFilter.shortlisted)
	return nil
}

func printRoster(e *env, store *session.Store, shortlistedOnly bool) {
	title, proj := "CANDIDATES", store.Project()
	if shortlistedOnly {
		title, proj = "SHORTLISTED", store.ShortlistedView()
	}
	selection := map[int64]struct{}{}
	for _, id := range store.Selected() {
		selection[id] = struct{}{}
	}
	e.printer.PrintRoster(title, proj, store.Shadow(), selection)
}
