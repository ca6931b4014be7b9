package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/talent-console/internal/api"
	"github.com/jonathan/talent-console/internal/types"
)

var (
	// ErrNothingToSubmit is returned when there are no pending files and no message.
	ErrNothingToSubmit = errors.New("nothing to submit: add a file or type a message")
	// ErrBusy is returned when a batch is already in flight. The call is a no-op.
	ErrBusy = errors.New("a batch is already being evaluated")
)

// Evaluator sends one batch to the evaluation endpoint.
type Evaluator interface {
	Evaluate(ctx context.Context, req api.EvaluationRequest) (*types.EvaluationResponse, error)
}

// PendingUpload is a file queued for the next batch.
type PendingUpload struct {
	ID       uuid.UUID
	Filename string
	Size     int64
	File     types.FilePayload
}

// Stamp identifies the job selection a batch was issued under. Callers
// compare it with their current selection and discard stale batches.
type Stamp struct {
	JobID      int64 // 0 when no job was attached
	Generation uint64
}

// Submission describes one Submit call.
type Submission struct {
	Message    string
	JobID      *int64
	Generation uint64
}

// Batch is the outcome of one Submit. The response is not interpreted here.
type Batch struct {
	ID       uuid.UUID
	Stamp    Stamp
	Message  string
	Files    []string
	Response *types.EvaluationResponse
	Err      error
}

// SubmissionError means the evaluation request failed end to end.
type SubmissionError struct {
	BatchID uuid.UUID
	Files   []string
	Cause   error
}

func (e *SubmissionError) Error() string {
	if len(e.Files) == 0 {
		return fmt.Sprintf("evaluation request failed: %v", e.Cause)
	}
	return fmt.Sprintf("evaluation of %d file(s) failed: %v", len(e.Files), e.Cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// Orchestrator owns the pending-file queue of one composer and admits at
// most one in-flight batch.
type Orchestrator struct {
	mu        sync.Mutex
	evaluator Evaluator
	pending   []PendingUpload
	busy      bool
}

// NewOrchestrator creates an orchestrator that submits through evaluator.
func NewOrchestrator(evaluator Evaluator) *Orchestrator {
	return &Orchestrator{evaluator: evaluator}
}

// Enqueue filters files and appends the accepted ones to the queue.
// Duplicate names are kept.
func (o *Orchestrator) Enqueue(files []types.FilePayload) Partition {
	p := Filter(files)

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, f := range p.Accepted {
		o.pending = append(o.pending, PendingUpload{
			ID:       uuid.New(),
			Filename: f.Name,
			Size:     f.Size,
			File:     f,
		})
	}
	return p
}

// Remove drops one pending entry. It reports whether the id was queued.
func (o *Orchestrator) Remove(id uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, p := range o.pending {
		if p.ID == id {
			o.pending = append(o.pending[:i], o.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every pending entry. A batch already in flight is not
// affected; its own entries are removed when it completes.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = nil
}

// Pending returns a copy of the queue.
func (o *Orchestrator) Pending() []PendingUpload {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]PendingUpload, len(o.pending))
	copy(out, o.pending)
	return out
}

// Busy reports whether a batch is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Submit sends every pending file plus the optional message and job id as
// one request. The batch's files leave the queue and busy clears whether
// or not the request succeeds. A failed request returns the batch together
// with a *SubmissionError.
func (o *Orchestrator) Submit(ctx context.Context, sub Submission) (*Batch, error) {
	message := strings.TrimSpace(sub.Message)

	o.mu.Lock()
	if len(o.pending) == 0 && message == "" {
		o.mu.Unlock()
		return nil, ErrNothingToSubmit
	}
	if o.busy {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.busy = true
	inFlight := make([]PendingUpload, len(o.pending))
	copy(inFlight, o.pending)
	o.mu.Unlock()

	batch := &Batch{
		ID:      uuid.New(),
		Stamp:   Stamp{Generation: sub.Generation},
		Message: message,
	}
	if sub.JobID != nil {
		batch.Stamp.JobID = *sub.JobID
	}

	req := api.EvaluationRequest{Message: message, JobID: sub.JobID}
	for _, p := range inFlight {
		req.Files = append(req.Files, p.File)
		batch.Files = append(batch.Files, p.Filename)
	}

	log.Printf("[intake] submitting batch %s: %d file(s), job=%d", batch.ID, len(batch.Files), batch.Stamp.JobID)
	resp, err := o.evaluator.Evaluate(ctx, req)

	o.mu.Lock()
	o.dropLocked(inFlight)
	o.busy = false
	o.mu.Unlock()

	if err != nil {
		log.Printf("[intake] batch %s failed: %v", batch.ID, err)
		batch.Err = &SubmissionError{BatchID: batch.ID, Files: batch.Files, Cause: err}
		return batch, batch.Err
	}
	batch.Response = resp
	return batch, nil
}

// dropLocked removes the given entries from the queue, keeping anything
// enqueued while the batch was in flight.
func (o *Orchestrator) dropLocked(sent []PendingUpload) {
	if len(sent) == 0 {
		return
	}
	gone := make(map[uuid.UUID]struct{}, len(sent))
	for _, p := range sent {
		gone[p.ID] = struct{}{}
	}
	kept := o.pending[:0]
	for _, p := range o.pending {
		if _, ok := gone[p.ID]; !ok {
			kept = append(kept, p)
		}
	}
	o.pending = kept
}
