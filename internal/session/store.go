// Package session holds the state of one job session and exposes the only
// operations allowed to change it.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/talent-console/internal/compose"
	"github.com/jonathan/talent-console/internal/correlate"
	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/shortlist"
	"github.com/jonathan/talent-console/internal/types"
	"github.com/jonathan/talent-console/internal/view"
)

var (
	// ErrNoJob is returned by job-scoped operations before a job is selected.
	ErrNoJob = errors.New("no job selected")
	// ErrStale means a response arrived for a job selection that has since
	// been replaced. The response was discarded.
	ErrStale = errors.New("response discarded: job selection changed")
)

// Backend is the remote surface a session talks to.
type Backend interface {
	correlate.RosterSource
	shortlist.Persister
	intake.Evaluator
	compose.Sender
}

// Journal records completed commands. Errors are logged and never fail the
// command itself.
type Journal interface {
	RecordBatch(ctx context.Context, batch *intake.Batch) error
	RecordShortlistOutcome(ctx context.Context, jobID int64, outcome *shortlist.Outcome) error
}

// Options tunes a Store.
type Options struct {
	// PruneSelection drops selected ids that a filter change hides.
	PruneSelection bool
	// ToggleConcurrency bounds parallel shortlist requests.
	ToggleConcurrency int
	Journal           Journal
}

// Store is the state of one job session: roster, shadow, selection and
// filter, plus the generation counter that invalidates in-flight work when
// the selected job changes.
type Store struct {
	mu         sync.Mutex
	backend    Backend
	opts       Options
	jobID      int64
	hasJob     bool
	generation uint64
	roster     []types.Candidate
	filter     types.FilterState

	reconciler   *shortlist.Reconciler
	orchestrator *intake.Orchestrator
	gateway      *compose.Gateway
}

// NewStore creates a store with no job selected.
func NewStore(backend Backend, opts Options) *Store {
	return &Store{
		backend:      backend,
		opts:         opts,
		reconciler:   shortlist.NewReconciler(opts.ToggleConcurrency),
		orchestrator: intake.NewOrchestrator(backend),
		gateway:      compose.NewGateway(backend),
	}
}

// JobID returns the selected job.
func (s *Store) JobID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobID, s.hasJob
}

// Generation returns the current job-selection generation.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// SelectJob switches the session to jobID and loads its roster. All
// job-scoped state, including queued uploads, is reset first and any
// in-flight response for the previous selection becomes stale.
func (s *Store) SelectJob(ctx context.Context, jobID int64) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.jobID = jobID
	s.hasJob = true
	s.roster = nil
	s.filter = types.FilterState{}
	s.reconciler.Reset()
	s.gateway.Close()
	s.orchestrator.Clear()
	s.mu.Unlock()

	return s.loadRoster(ctx, jobID, gen)
}

// Refresh re-fetches the roster of the selected job.
func (s *Store) Refresh(ctx context.Context) error {
	jobID, gen, err := s.current()
	if err != nil {
		return err
	}
	return s.loadRoster(ctx, jobID, gen)
}

func (s *Store) current() (int64, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasJob {
		return 0, 0, ErrNoJob
	}
	return s.jobID, s.generation, nil
}

// loadRoster fetches without holding the lock and applies the result only
// if gen is still current.
func (s *Store) loadRoster(ctx context.Context, jobID int64, gen uint64) error {
	roster, err := correlate.FetchRoster(ctx, s.backend, jobID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		log.Printf("[session] discarding roster for job %d (generation %d, current %d)", jobID, gen, s.generation)
		return ErrStale
	}
	if err != nil {
		return err
	}
	s.roster = roster
	s.reconciler.Load(roster)
	return nil
}

// Enqueue adds files to the pending queue of the job roster uploader.
func (s *Store) Enqueue(files []types.FilePayload) intake.Partition {
	return s.orchestrator.Enqueue(files)
}

// RemovePending drops one queued file.
func (s *Store) RemovePending(id uuid.UUID) bool {
	return s.orchestrator.Remove(id)
}

// Pending returns the queued files.
func (s *Store) Pending() []intake.PendingUpload {
	return s.orchestrator.Pending()
}

// Evaluate submits the pending files for the selected job and replaces the
// roster with a fresh fetch once the batch completes. The per-file results
// are not shown in this mode; the returned batch still carries them.
func (s *Store) Evaluate(ctx context.Context, message string) (*intake.Batch, error) {
	jobID, gen, err := s.current()
	if err != nil {
		return nil, err
	}

	batch, err := s.orchestrator.Submit(ctx, intake.Submission{
		Message:    message,
		JobID:      &jobID,
		Generation: gen,
	})
	if batch != nil {
		s.journalBatch(ctx, batch)
	}
	if err != nil {
		return batch, err
	}
	if s.Generation() != batch.Stamp.Generation {
		log.Printf("[session] batch %s finished after job switch; roster not refreshed", batch.ID)
		return batch, ErrStale
	}
	return batch, s.loadRoster(ctx, jobID, gen)
}

// Roster returns a copy of the current roster.
func (s *Store) Roster() []types.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Candidate, len(s.roster))
	copy(out, s.roster)
	return out
}

// Candidate returns one roster entry with its shadow flag applied.
func (s *Store) Candidate(id int64) (types.Candidate, bool) {
	s.mu.Lock()
	c := types.FindCandidate(s.roster, id)
	s.mu.Unlock()
	if c == nil {
		return types.Candidate{}, false
	}
	out := *c
	out.Shortlisted = s.reconciler.Shortlisted(id)
	return out, true
}

// Filter returns the current filter state.
func (s *Store) Filter() types.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter replaces the filter state. With PruneSelection set, selected
// ids the new filter hides are dropped.
func (s *Store) SetFilter(filter types.FilterState) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	if s.opts.PruneSelection {
		s.reconciler.Prune(s.Project().IDs())
	}
}

// Project returns the rows for the current filter.
func (s *Store) Project() view.Projection {
	s.mu.Lock()
	roster, filter := s.roster, s.filter
	s.mu.Unlock()
	return view.Project(roster, filter, s.reconciler.Selection())
}

// ShortlistedView returns the current rows restricted to shortlisted
// candidates.
func (s *Store) ShortlistedView() view.Projection {
	s.mu.Lock()
	roster, filter := s.roster, s.filter
	s.mu.Unlock()
	return view.Project(roster, filter, s.reconciler.Selection(), view.ShortlistedOnly(s.reconciler.Shadow()))
}

// Shadow returns the shortlist flags as currently shown.
func (s *Store) Shadow() map[int64]bool {
	return s.reconciler.Shadow()
}

// Toggle flips id's membership in the selection.
func (s *Store) Toggle(id int64) {
	s.reconciler.Toggle(id)
}

// ToggleSelectAll selects every visible row, or clears the selection when
// all visible rows are already selected.
func (s *Store) ToggleSelectAll() {
	s.reconciler.ToggleSelectAll(s.Project().IDs())
}

// ToggleSelectAllShortlisted is ToggleSelectAll over the shortlisted view.
func (s *Store) ToggleSelectAllShortlisted() {
	s.reconciler.ToggleSelectAll(s.ShortlistedView().IDs())
}

// Selected returns the selected ids.
func (s *Store) Selected() []int64 {
	return s.reconciler.Selected()
}

// CommitBulkToggle flips the shortlist flag of every selected candidate.
func (s *Store) CommitBulkToggle(ctx context.Context) (*shortlist.Outcome, error) {
	jobID, _, err := s.current()
	if err != nil {
		return nil, err
	}
	outcome, err := s.reconciler.CommitBulkToggle(ctx, s.backend)
	if outcome != nil && outcome.Attempted() > 0 && s.opts.Journal != nil {
		if jerr := s.opts.Journal.RecordShortlistOutcome(ctx, jobID, outcome); jerr != nil {
			log.Printf("[session] failed to journal shortlist outcome: %v", jerr)
		}
	}
	return outcome, err
}

// ComposeEmail opens a draft addressed to the shortlisted candidates.
func (s *Store) ComposeEmail() (*types.EmailDraft, error) {
	if _, _, err := s.current(); err != nil {
		return nil, err
	}
	return s.gateway.Open(s.Roster(), s.reconciler.Shadow())
}

// Gateway returns the compose gateway holding the open draft.
func (s *Store) Gateway() *compose.Gateway {
	return s.gateway
}

func (s *Store) journalBatch(ctx context.Context, batch *intake.Batch) {
	if s.opts.Journal == nil {
		return
	}
	if err := s.opts.Journal.RecordBatch(ctx, batch); err != nil {
		log.Printf("[session] failed to journal batch %s: %v", batch.ID, err)
	}
}
