// Package compose derives an email to the shortlisted candidates and sends it.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/talent-console/internal/types"
)

// ErrNoRecipients is returned when no candidate is currently shortlisted.
var ErrNoRecipients = errors.New("no shortlisted candidates")

// ErrNoDraft is returned when dispatching with the compose surface closed.
var ErrNoDraft = errors.New("no email draft is open")

// Sender delivers a composed message.
type Sender interface {
	SendEmail(ctx context.Context, draft types.EmailDraft) error
}

// DispatchError means the message was not sent. The draft is kept.
type DispatchError struct {
	Cause error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to send email: %v", e.Cause)
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// Recipients returns the emails of shortlisted candidates in roster order.
func Recipients(roster []types.Candidate, shadow map[int64]bool) []string {
	var out []string
	for _, c := range roster {
		if shadow[c.ID] && strings.TrimSpace(c.Email) != "" {
			out = append(out, strings.TrimSpace(c.Email))
		}
	}
	return out
}

// PrepareDraft builds a blank draft addressed to every shortlisted
// candidate. It fails with ErrNoRecipients rather than open an empty draft.
func PrepareDraft(roster []types.Candidate, shadow map[int64]bool) (*types.EmailDraft, error) {
	recipients := Recipients(roster, shadow)
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	return &types.EmailDraft{To: strings.Join(recipients, ", ")}, nil
}

// Gateway holds the open draft between compose and dispatch.
type Gateway struct {
	mu     sync.Mutex
	sender Sender
	draft  *types.EmailDraft
}

// NewGateway creates a gateway that sends through sender.
func NewGateway(sender Sender) *Gateway {
	return &Gateway{sender: sender}
}

// Open prepares a fresh draft, replacing any draft already open.
func (g *Gateway) Open(roster []types.Candidate, shadow map[int64]bool) (*types.EmailDraft, error) {
	draft, err := PrepareDraft(roster, shadow)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.draft = draft
	copied := *draft
	return &copied, nil
}

// IsOpen reports whether a draft is open.
func (g *Gateway) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.draft != nil
}

// Draft returns a copy of the open draft.
func (g *Gateway) Draft() (types.EmailDraft, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.draft == nil {
		return types.EmailDraft{}, false
	}
	return *g.draft, true
}

// Edit applies fn to the open draft.
func (g *Gateway) Edit(fn func(d *types.EmailDraft)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.draft == nil {
		return ErrNoDraft
	}
	fn(g.draft)
	return nil
}

// Close discards the open draft.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.draft = nil
}

// Dispatch validates and sends the open draft. On success the draft is
// discarded; on any failure it stays open for a retry.
func (g *Gateway) Dispatch(ctx context.Context) error {
	g.mu.Lock()
	if g.draft == nil {
		g.mu.Unlock()
		return ErrNoDraft
	}
	draft := *g.draft
	g.mu.Unlock()

	if err := draft.Validate(); err != nil {
		return err
	}
	if err := g.sender.SendEmail(ctx, draft); err != nil {
		return &DispatchError{Cause: err}
	}

	g.mu.Lock()
	g.draft = nil
	g.mu.Unlock()
	return nil
}
