package api

import (
	"context"

	"github.com/jonathan/talent-console/internal/schemas"
	"github.com/jonathan/talent-console/internal/types"
)

// Paths of the screening API, relative to the base URL.
const (
	PathListJobs     = "/jobs/list/"
	PathStats        = "/jobs/stats/"
	PathEvaluate     = "/jobs/chat/"
	PathCandidates   = "/candidates/job/%d/"
	PathShortlist    = "/candidates/shortlist/%d/"
	PathSendEmail    = "/candidates/send-email/"
	FieldResume      = "resume"
	FieldMessage     = "message"
	FieldJobID       = "job_id"
	FieldAttachments = "attachments"
)

// ListJobs returns the jobs owned by the signed-in user.
func (c *Client) ListJobs(ctx context.Context) ([]types.Job, error) {
	var out types.JobList
	if err := c.getJSON(ctx, PathListJobs, "", &out); err != nil {
		return nil, err
	}
	if out.Jobs == nil {
		return []types.Job{}, nil
	}
	return out.Jobs, nil
}

// Stats returns the job, candidate and shortlist counters.
func (c *Client) Stats(ctx context.Context) (*types.Stats, error) {
	var out types.Stats
	if err := c.getJSON(ctx, PathStats, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Candidates returns the roster of a job in server order.
func (c *Client) Candidates(ctx context.Context, jobID int64) ([]types.Candidate, error) {
	var out types.CandidateList
	if err := c.getJSON(ctx, jobPath(PathCandidates, jobID), schemas.CandidateList, &out); err != nil {
		return nil, err
	}
	if out.Candidates == nil {
		return []types.Candidate{}, nil
	}
	return out.Candidates, nil
}

// SetShortlisted persists one candidate's shortlist flag.
func (c *Client) SetShortlisted(ctx context.Context, candidateID int64, shortlisted bool) error {
	_, err := c.postJSON(ctx, jobPath(PathShortlist, candidateID), map[string]bool{"shortlisted": shortlisted})
	return err
}
