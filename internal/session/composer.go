package session

import (
	"context"
	"log"
	"sync"

	"github.com/jonathan/talent-console/internal/correlate"
	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/types"
)

// Composer is the free-form chat surface: typed text and resumes go in, and
// every submission leaves at least one system entry in the transcript.
type Composer struct {
	orchestrator *intake.Orchestrator
	journal      Journal

	mu         sync.Mutex
	transcript []types.TranscriptEntry
}

// NewComposer creates a composer with its own pending queue.
func NewComposer(evaluator intake.Evaluator, journal Journal) *Composer {
	return &Composer{
		orchestrator: intake.NewOrchestrator(evaluator),
		journal:      journal,
	}
}

// Enqueue adds files to the composer's queue.
func (c *Composer) Enqueue(files []types.FilePayload) intake.Partition {
	return c.orchestrator.Enqueue(files)
}

// Pending returns the queued files.
func (c *Composer) Pending() []intake.PendingUpload {
	return c.orchestrator.Pending()
}

// Send submits the typed message and the queued files. jobID is optional.
// Gate errors (nothing to submit, busy) leave the transcript untouched;
// everything else appends the user's entries followed by the result.
func (c *Composer) Send(ctx context.Context, message string, jobID *int64) ([]types.TranscriptEntry, error) {
	batch, err := c.orchestrator.Submit(ctx, intake.Submission{Message: message, JobID: jobID})
	if batch == nil {
		return nil, err
	}
	if c.journal != nil {
		if jerr := c.journal.RecordBatch(ctx, batch); jerr != nil {
			log.Printf("[session] failed to journal batch %s: %v", batch.ID, jerr)
		}
	}

	added := correlate.UserEntries(batch.Message, batch.Files)
	if err != nil {
		added = append(added, correlate.SubmissionFailed())
	} else {
		added = append(added, correlate.Transcript(batch.Response)...)
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, added...)
	c.mu.Unlock()
	return added, err
}

// Transcript returns a copy of every entry so far.
func (c *Composer) Transcript() []types.TranscriptEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.TranscriptEntry, len(c.transcript))
	copy(out, c.transcript)
	return out
}
