package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/talent-console/internal/api"
	"github.com/jonathan/talent-console/internal/compose"
	"github.com/jonathan/talent-console/internal/correlate"
	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/shortlist"
	"github.com/jonathan/talent-console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu      sync.Mutex
	rosters map[int64][]types.Candidate
	gates   map[int64]chan struct{}
	started chan int64

	evalGate    chan struct{}
	evalStarted chan struct{}
	evalResp    *types.EvaluationResponse
	evalErr     error
	onEvaluate  func(req api.EvaluationRequest)
	evalReqs    []api.EvaluationRequest

	toggleFail map[int64]error
	sent       []types.EmailDraft
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		rosters:    map[int64][]types.Candidate{},
		gates:      map[int64]chan struct{}{},
		started:    make(chan int64, 1),
		toggleFail: map[int64]error{},
	}
}

// block makes the next roster fetch for jobID wait until release.
func (f *fakeBackend) block(jobID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[jobID] = make(chan struct{})
}

func (f *fakeBackend) release(jobID int64) {
	f.mu.Lock()
	g := f.gates[jobID]
	delete(f.gates, jobID)
	f.mu.Unlock()
	close(g)
}

func (f *fakeBackend) setRoster(jobID int64, roster []types.Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosters[jobID] = roster
}

func (f *fakeBackend) Candidates(_ context.Context, jobID int64) ([]types.Candidate, error) {
	f.mu.Lock()
	gate := f.gates[jobID]
	roster := f.rosters[jobID]
	f.mu.Unlock()

	if gate != nil {
		f.started <- jobID
		<-gate
	}
	if roster == nil {
		return nil, errors.New("job not found")
	}
	return roster, nil
}

func (f *fakeBackend) SetShortlisted(_ context.Context, id int64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toggleFail[id]
}

func (f *fakeBackend) Evaluate(_ context.Context, req api.EvaluationRequest) (*types.EvaluationResponse, error) {
	f.mu.Lock()
	f.evalReqs = append(f.evalReqs, req)
	gate, started := f.evalGate, f.evalStarted
	f.mu.Unlock()

	if gate != nil {
		started <- struct{}{}
		<-gate
	}
	if f.onEvaluate != nil {
		f.onEvaluate(req)
	}
	return f.evalResp, f.evalErr
}

func (f *fakeBackend) SendEmail(_ context.Context, d types.EmailDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, d)
	return nil
}

type fakeJournal struct {
	mu       sync.Mutex
	batches  []*intake.Batch
	outcomes []*shortlist.Outcome
}

func (j *fakeJournal) RecordBatch(_ context.Context, b *intake.Batch) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.batches = append(j.batches, b)
	return nil
}

func (j *fakeJournal) RecordShortlistOutcome(_ context.Context, _ int64, o *shortlist.Outcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outcomes = append(j.outcomes, o)
	return nil
}

func jobOneRoster() []types.Candidate {
	return []types.Candidate{
		{ID: 1, Name: "Ann", Email: "a@x", Score: 90},
		{ID: 2, Name: "Bob", Email: "b@x", Score: 40},
		{ID: 3, Name: "Cy", Email: "c@x", Score: 70, Shortlisted: true},
	}
}

func ids(roster []types.Candidate) []int64 {
	out := make([]int64, 0, len(roster))
	for _, c := range roster {
		out = append(out, c.ID)
	}
	return out
}

func newStore(t *testing.T, opts Options) (*Store, *fakeBackend) {
	t.Helper()
	b := newFakeBackend()
	b.setRoster(1, jobOneRoster())
	b.setRoster(2, []types.Candidate{{ID: 20, Name: "Dee", Email: "d@x", Score: 55}})
	return NewStore(b, opts), b
}

func TestSelectJob_LoadsSortedRoster(t *testing.T) {
	s, _ := newStore(t, Options{})
	require.NoError(t, s.SelectJob(context.Background(), 1))

	assert.Equal(t, []int64{1, 3, 2}, ids(s.Roster()))
	assert.Equal(t, map[int64]bool{1: false, 2: false, 3: true}, s.Shadow())
	jobID, ok := s.JobID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), jobID)
}

func TestSelectJob_ResetsJobScopedState(t *testing.T) {
	s, _ := newStore(t, Options{})
	ctx := context.Background()
	require.NoError(t, s.SelectJob(ctx, 1))
	s.SetFilter(types.FilterState{SearchQuery: "ann"})
	s.Toggle(1)

	require.NoError(t, s.SelectJob(ctx, 2))
	assert.Equal(t, types.FilterState{}, s.Filter())
	assert.Empty(t, s.Selected())
	assert.Equal(t, []int64{20}, ids(s.Roster()))
}

func TestSelectJob_ClearsPendingUploads(t *testing.T) {
	s, b := newStore(t, Options{})
	ctx := context.Background()
	require.NoError(t, s.SelectJob(ctx, 1))
	s.Enqueue([]types.FilePayload{{Name: "for-job-1.pdf", Content: []byte("%PDF")}})
	require.Len(t, s.Pending(), 1)

	require.NoError(t, s.SelectJob(ctx, 2))
	assert.Empty(t, s.Pending())

	_, err := s.Evaluate(ctx, "")
	assert.ErrorIs(t, err, intake.ErrNothingToSubmit)
	assert.Empty(t, b.evalReqs, "a file queued for job 1 must not be sent for job 2")
}

func TestSelectJob_FetchFailureLeavesEmptyRoster(t *testing.T) {
	s, _ := newStore(t, Options{})
	err := s.SelectJob(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load candidates for job 99")
	assert.Empty(t, s.Roster())
}

func TestRefresh_DiscardedAfterJobSwitch(t *testing.T) {
	s, b := newStore(t, Options{})
	ctx := context.Background()
	require.NoError(t, s.SelectJob(ctx, 1))

	b.block(1)
	errc := make(chan error, 1)
	go func() { errc <- s.Refresh(ctx) }()
	<-b.started

	require.NoError(t, s.SelectJob(ctx, 2))
	b.release(1)

	assert.ErrorIs(t, <-errc, ErrStale)
	assert.Equal(t, []int64{20}, ids(s.Roster()))
	assert.Equal(t, map[int64]bool{20: false}, s.Shadow())
}

func TestRefresh_NoJob(t *testing.T) {
	s, _ := newStore(t, Options{})
	assert.ErrorIs(t, s.Refresh(context.Background()), ErrNoJob)
	_, err := s.Evaluate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNoJob)
	_, err = s.CommitBulkToggle(context.Background())
	assert.ErrorIs(t, err, ErrNoJob)
	_, err = s.ComposeEmail()
	assert.ErrorIs(t, err, ErrNoJob)
}

func TestEvaluate_ReplacesRosterWholesale(t *testing.T) {
	journal := &fakeJournal{}
	s, b := newStore(t, Options{Journal: journal})
	ctx := context.Background()
	require.NoError(t, s.SelectJob(ctx, 1))

	b.evalResp = &types.EvaluationResponse{Reply: "ok"}
	b.onEvaluate = func(api.EvaluationRequest) {
		b.setRoster(1, []types.Candidate{
			{ID: 4, Name: "New", Score: 80},
			{ID: 1, Name: "Ann", Score: 90},
		})
	}

	s.Enqueue([]types.FilePayload{{Name: "cv.pdf", Content: []byte("%PDF")}})
	batch, err := s.Evaluate(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"cv.pdf"}, batch.Files)
	assert.Equal(t, int64(1), batch.Stamp.JobID)
	require.Len(t, b.evalReqs, 1)
	require.NotNil(t, b.evalReqs[0].JobID)
	assert.Equal(t, int64(1), *b.evalReqs[0].JobID)

	assert.Equal(t, []int64{1, 4}, ids(s.Roster()), "never merged with the previous roster")
	assert.Empty(t, s.Pending())
	assert.Len(t, journal.batches, 1)
}

func TestEvaluate_StaleAfterJobSwitch(t *testing.T) {
	s, b := newStore(t, Options{})
	ctx := context.Background()
	require.NoError(t, s.SelectJob(ctx, 1))

	b.evalGate = make(chan struct{})
	b.evalStarted = make(chan struct{}, 1)
	b.evalResp = &types.EvaluationResponse{Reply: "done"}

	s.Enqueue([]types.FilePayload{{Name: "cv.txt"}})
	errc := make(chan error, 1)
	go func() {
		_, err := s.Evaluate(ctx, "")
		errc <- err
	}()
	<-b.evalStarted

	require.NoError(t, s.SelectJob(ctx, 2))
	close(b.evalGate)

	assert.ErrorIs(t, <-errc, ErrStale)
	assert.Equal(t, []int64{20}, ids(s.Roster()))
}

func TestEvaluate_SubmissionFailureClearsQueue(t *testing.T) {
	journal := &fakeJournal{}
	s, b := newStore(t, Options{Journal: journal})
	ctx := context.Background()
	require.NoError(t, s.SelectJob(ctx, 1))

	b.evalErr = errors.New("gateway timeout")
	s.Enqueue([]types.FilePayload{{Name: "a.pdf"}, {Name: "b.doc"}})

	_, err := s.Evaluate(ctx, "")
	var subErr *intake.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Empty(t, s.Pending())
	assert.Equal(t, []int64{1, 3, 2}, ids(s.Roster()))
	assert.Len(t, journal.batches, 1)
}

func TestEvaluate_NothingToSubmit(t *testing.T) {
	s, b := newStore(t, Options{})
	require.NoError(t, s.SelectJob(context.Background(), 1))

	_, err := s.Evaluate(context.Background(), "   ")
	assert.ErrorIs(t, err, intake.ErrNothingToSubmit)
	assert.Empty(t, b.evalReqs)
}

func TestProject_UsesFilterAndSelection(t *testing.T) {
	s, _ := newStore(t, Options{})
	require.NoError(t, s.SelectJob(context.Background(), 1))

	s.SetFilter(types.FilterState{}.WithMinScore(70))
	assert.Equal(t, []int64{1, 3}, s.Project().IDs())

	s.ToggleSelectAll()
	assert.Equal(t, []int64{1, 3}, s.Selected())
	assert.True(t, s.Project().AllSelected)

	s.ToggleSelectAll()
	assert.Empty(t, s.Selected())
}

func TestSetFilter_SelectionSurvivesByDefault(t *testing.T) {
	s, _ := newStore(t, Options{})
	require.NoError(t, s.SelectJob(context.Background(), 1))
	s.Toggle(2)

	s.SetFilter(types.FilterState{}.WithMinScore(70))
	assert.Equal(t, []int64{2}, s.Selected())
}

func TestSetFilter_PruneSelection(t *testing.T) {
	s, _ := newStore(t, Options{PruneSelection: true})
	require.NoError(t, s.SelectJob(context.Background(), 1))
	s.Toggle(1)
	s.Toggle(2)

	s.SetFilter(types.FilterState{}.WithMinScore(70))
	assert.Equal(t, []int64{1}, s.Selected())
}

func TestShortlistedView(t *testing.T) {
	s, _ := newStore(t, Options{})
	require.NoError(t, s.SelectJob(context.Background(), 1))
	assert.Equal(t, []int64{3}, s.ShortlistedView().IDs())
}

func TestCommitBulkToggle_JournalsOutcome(t *testing.T) {
	journal := &fakeJournal{}
	s, b := newStore(t, Options{Journal: journal})
	ctx := context.Background()
	require.NoError(t, s.SelectJob(ctx, 1))

	b.toggleFail[2] = errors.New("not found")
	s.Toggle(1)
	s.Toggle(2)

	outcome, err := s.CommitBulkToggle(ctx)
	var partial *shortlist.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []int64{1}, outcome.Succeeded)
	assert.Equal(t, []int64{2}, s.Selected())
	assert.Equal(t, map[int64]bool{1: true, 2: false, 3: true}, s.Shadow())
	assert.Len(t, journal.outcomes, 1)

	c, ok := s.Candidate(1)
	require.True(t, ok)
	assert.True(t, c.Shortlisted)
}

func TestComposeEmail(t *testing.T) {
	s, b := newStore(t, Options{})
	ctx := context.Background()
	require.NoError(t, s.SelectJob(ctx, 1))

	s.Toggle(1)
	_, err := s.CommitBulkToggle(ctx)
	require.NoError(t, err)

	draft, err := s.ComposeEmail()
	require.NoError(t, err)
	assert.Equal(t, "a@x, c@x", draft.To)

	require.NoError(t, s.Gateway().Edit(func(d *types.EmailDraft) {
		d.To = "ann@x.io, cy@x.io"
		d.Subject = "Next steps"
		d.Message = "Hello"
	}))
	require.NoError(t, s.Gateway().Dispatch(ctx))
	assert.Len(t, b.sent, 1)
	assert.False(t, s.Gateway().IsOpen())
}

func TestComposeEmail_NoneShortlisted(t *testing.T) {
	s, _ := newStore(t, Options{})
	require.NoError(t, s.SelectJob(context.Background(), 2))
	_, err := s.ComposeEmail()
	assert.ErrorIs(t, err, compose.ErrNoRecipients)
	assert.False(t, s.Gateway().IsOpen())
}

func TestComposer_Send(t *testing.T) {
	b := newFakeBackend()
	b.evalResp = &types.EvaluationResponse{
		HasResults: true,
		Results: []types.PerFileResult{
			types.ResultOK{Filename: "a.pdf", Score: 81},
			types.ResultError{Filename: "b.txt", Message: "unreadable"},
		},
	}
	c := NewComposer(b, nil)

	part := c.Enqueue([]types.FilePayload{{Name: "a.pdf"}, {Name: "b.txt"}, {Name: "c.png"}})
	assert.NotEmpty(t, part.Warning)

	added, err := c.Send(context.Background(), " rank these ", nil)
	require.NoError(t, err)
	require.Len(t, added, 4)
	assert.Equal(t, types.TranscriptEntry{Sender: types.SenderUser, Text: "rank these"}, added[0])
	assert.Equal(t, "Uploaded: a.pdf, b.txt", added[1].Text)
	assert.Equal(t, types.SenderSystem, added[2].Sender)
	assert.Contains(t, added[2].Text, "a.pdf - Score: 81/100")
	assert.Equal(t, "b.txt: unreadable", added[3].Text)
	assert.Equal(t, added, c.Transcript())
	assert.Empty(t, c.Pending())
}

func TestComposer_SendFailureAddsOneEntry(t *testing.T) {
	b := newFakeBackend()
	b.evalErr = errors.New("connection refused")
	journal := &fakeJournal{}
	c := NewComposer(b, journal)

	added, err := c.Send(context.Background(), "hello", nil)
	require.Error(t, err)
	assert.Equal(t, []types.TranscriptEntry{
		{Sender: types.SenderUser, Text: "hello"},
		correlate.SubmissionFailed(),
	}, added)
	assert.Len(t, journal.batches, 1)
}

func TestComposer_EmptyResponseStillAnswers(t *testing.T) {
	b := newFakeBackend()
	b.evalResp = &types.EvaluationResponse{}
	c := NewComposer(b, nil)

	added, err := c.Send(context.Background(), "ping", nil)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, correlate.NoResponseText, added[1].Text)
}

func TestComposer_NothingToSubmitLeavesTranscript(t *testing.T) {
	c := NewComposer(newFakeBackend(), nil)
	added, err := c.Send(context.Background(), "", nil)
	assert.ErrorIs(t, err, intake.ErrNothingToSubmit)
	assert.Nil(t, added)
	assert.Empty(t, c.Transcript())
}
