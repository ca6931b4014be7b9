package shortlist

import (
	"fmt"
	"strings"
)

// Failure is one candidate whose shortlist update was not persisted.
type Failure struct {
	ID   int64
	Name string
	Err  error
}

// Label names the candidate for user-facing messages.
func (f Failure) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("candidate #%d", f.ID)
}

// Outcome is the aggregate result of one bulk toggle.
type Outcome struct {
	Succeeded []int64
	Failed    []Failure
	// Written is the shortlist value sent for each attempted id. Failed ids
	// were rolled back to the opposite value.
	Written map[int64]bool
}

// Attempted returns how many ids were sent.
func (o *Outcome) Attempted() int {
	return len(o.Succeeded) + len(o.Failed)
}

// Partial reports whether some but not all ids failed.
func (o *Outcome) Partial() bool {
	return len(o.Failed) > 0 && len(o.Succeeded) > 0
}

// Summary is a one-line, user-facing description of the outcome.
func (o *Outcome) Summary() string {
	switch {
	case o.Attempted() == 0:
		return "No candidates selected."
	case len(o.Failed) == 0:
		return fmt.Sprintf("Status updated for %d candidate(s).", len(o.Succeeded))
	default:
		labels := make([]string, 0, len(o.Failed))
		for _, f := range o.Failed {
			labels = append(labels, f.Label())
		}
		return fmt.Sprintf("Status updated for %d candidate(s); %d failed: %s.",
			len(o.Succeeded), len(o.Failed), strings.Join(labels, ", "))
	}
}

// Err returns a *PartialFailureError when any id failed, else nil.
func (o *Outcome) Err() error {
	if len(o.Failed) == 0 {
		return nil
	}
	return &PartialFailureError{Outcome: o}
}

// PartialFailureError reports the ids whose update could not be persisted.
// Their shadow values have been rolled back.
type PartialFailureError struct {
	Outcome *Outcome
}

func (e *PartialFailureError) Error() string {
	return e.Outcome.Summary()
}

// Unwrap exposes the per-id causes to errors.Is / errors.As.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Outcome.Failed))
	for _, f := range e.Outcome.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}
