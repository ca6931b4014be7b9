package correlate

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-console/internal/types"
)

// RosterSource fetches the full roster of a job.
type RosterSource interface {
	Candidates(ctx context.Context, jobID int64) ([]types.Candidate, error)
}

// FetchRoster re-fetches a job's roster and returns it sorted by score
// descending (stable). The result replaces the previous roster wholesale;
// it is never merged.
func FetchRoster(ctx context.Context, src RosterSource, jobID int64) ([]types.Candidate, error) {
	roster, err := src.Candidates(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates for job %d: %w", jobID, err)
	}
	out := make([]types.Candidate, len(roster))
	copy(out, roster)
	types.SortRoster(out)
	return out, nil
}
