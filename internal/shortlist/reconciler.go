// Package shortlist owns the client-side shadow of each candidate's
// shortlist flag and reconciles optimistic toggles against persistence.
package shortlist

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/jonathan/talent-console/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel persistence requests in one commit.
const DefaultConcurrency = 4

// ErrCommitInProgress is returned when a bulk toggle is already running.
var ErrCommitInProgress = errors.New("a shortlist update is already in progress")

// Persister stores one candidate's shortlist flag.
type Persister interface {
	SetShortlisted(ctx context.Context, candidateID int64, shortlisted bool) error
}

// Reconciler holds the shadow flags and the selection for one roster.
type Reconciler struct {
	mu          sync.Mutex
	shadow      map[int64]bool
	names       map[int64]string
	selection   map[int64]struct{}
	epoch       uint64 // bumped on every Load/Reset
	committing  bool
	concurrency int
}

// NewReconciler creates an empty reconciler. concurrency <= 0 uses
// DefaultConcurrency.
func NewReconciler(concurrency int) *Reconciler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Reconciler{
		shadow:      map[int64]bool{},
		names:       map[int64]string{},
		selection:   map[int64]struct{}{},
		concurrency: concurrency,
	}
}

// Reset drops all state; used on job switch.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shadow = map[int64]bool{}
	r.names = map[int64]string{}
	r.selection = map[int64]struct{}{}
	r.epoch++
}

// Load re-initializes the shadow from a freshly fetched roster of the same
// job. The server value wins over any local shadow. Selected ids that are
// no longer in the roster are dropped.
func (r *Reconciler) Load(roster []types.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shadow = make(map[int64]bool, len(roster))
	r.names = make(map[int64]string, len(roster))
	for _, c := range roster {
		r.shadow[c.ID] = c.Shortlisted
		r.names[c.ID] = c.Name
	}
	for id := range r.selection {
		if _, ok := r.shadow[id]; !ok {
			delete(r.selection, id)
		}
	}
	r.epoch++
}

// Shortlisted returns the shadow flag for id.
func (r *Reconciler) Shortlisted(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shadow[id]
}

// Shadow returns a copy of the shadow flags.
func (r *Reconciler) Shadow() map[int64]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]bool, len(r.shadow))
	for id, v := range r.shadow {
		out[id] = v
	}
	return out
}

// Toggle flips id's membership in the selection.
func (r *Reconciler) Toggle(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.selection[id]; ok {
		delete(r.selection, id)
		return
	}
	r.selection[id] = struct{}{}
}

// ToggleSelectAll clears the selection when every row id is already
// selected, and otherwise replaces it with exactly the row ids.
func (r *Reconciler) ToggleSelectAll(rowIDs []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := len(rowIDs) > 0
	for _, id := range rowIDs {
		if _, ok := r.selection[id]; !ok {
			all = false
			break
		}
	}
	r.selection = make(map[int64]struct{}, len(rowIDs))
	if all {
		return
	}
	for _, id := range rowIDs {
		r.selection[id] = struct{}{}
	}
}

// Prune keeps only the selected ids that appear in rowIDs.
func (r *Reconciler) Prune(rowIDs []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visible := make(map[int64]struct{}, len(rowIDs))
	for _, id := range rowIDs {
		visible[id] = struct{}{}
	}
	for id := range r.selection {
		if _, ok := visible[id]; !ok {
			delete(r.selection, id)
		}
	}
}

// ClearSelection empties the selection.
func (r *Reconciler) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selection = map[int64]struct{}{}
}

// Selection returns a copy of the selection set.
func (r *Reconciler) Selection() map[int64]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]struct{}, len(r.selection))
	for id := range r.selection {
		out[id] = struct{}{}
	}
	return out
}

// Selected returns the selected ids in ascending order.
func (r *Reconciler) Selected() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedLocked()
}

func (r *Reconciler) selectedLocked() []int64 {
	ids := make([]int64, 0, len(r.selection))
	for id := range r.selection {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CommitBulkToggle flips the shortlist flag of every selected candidate.
//
// The flip is applied to the shadow before any request is sent. Each id
// then gets exactly one persistence attempt; a failure never prevents the
// others from being attempted. Succeeded ids leave the selection. Failed
// ids are rolled back to their previous value and stay selected. The
// returned error is a *PartialFailureError when any id failed.
func (r *Reconciler) CommitBulkToggle(ctx context.Context, p Persister) (*Outcome, error) {
	r.mu.Lock()
	if len(r.selection) == 0 {
		r.mu.Unlock()
		return &Outcome{}, nil
	}
	if r.committing {
		r.mu.Unlock()
		return nil, ErrCommitInProgress
	}
	r.committing = true
	epoch := r.epoch

	ids := r.selectedLocked()
	previous := make([]bool, len(ids))
	next := make([]bool, len(ids))
	names := make([]string, len(ids))
	for i, id := range ids {
		previous[i] = r.shadow[id]
		next[i] = !previous[i]
		names[i] = r.names[id]
		r.shadow[id] = next[i]
	}
	r.mu.Unlock()

	results := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = p.SetShortlisted(ctx, id, next[i])
			return nil
		})
	}
	_ = g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.committing = false

	outcome := &Outcome{Written: make(map[int64]bool, len(ids))}
	for i, id := range ids {
		outcome.Written[id] = next[i]
		if results[i] == nil {
			outcome.Succeeded = append(outcome.Succeeded, id)
			delete(r.selection, id)
			continue
		}
		outcome.Failed = append(outcome.Failed, Failure{ID: id, Name: names[i], Err: results[i]})
		// A roster reload during the commit already replaced the shadow
		// with server values.
		if r.epoch == epoch {
			r.shadow[id] = previous[i]
		}
	}

	if len(outcome.Failed) > 0 {
		log.Printf("[shortlist] bulk toggle: %d succeeded, %d failed", len(outcome.Succeeded), len(outcome.Failed))
	}
	return outcome, outcome.Err()
}
