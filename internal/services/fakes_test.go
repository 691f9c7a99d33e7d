package services

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/live"
)

// In-memory repository fakes. The vote fake reproduces the check-and-set
// semantics of the real repository so concurrency behavior can be tested
// without a database.

type fakeDelegateRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*delegate.Delegate
	imports   []*delegate.ImportLog
	createErr error
}

func newFakeDelegateRepo() *fakeDelegateRepo {
	return &fakeDelegateRepo{byID: make(map[uuid.UUID]*delegate.Delegate)}
}

func (r *fakeDelegateRepo) Create(d *delegate.Delegate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	clone := *d
	r.byID[d.ID] = &clone
	return nil
}

func (r *fakeDelegateRepo) GetByID(id string) (*delegate.Delegate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	d, ok := r.byID[parsed]
	if !ok {
		return nil, vote.ErrDelegateNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *fakeDelegateRepo) GetByToken(token string) (*delegate.Delegate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.byID {
		if d.Token == token {
			clone := *d
			return &clone, nil
		}
	}
	return nil, vote.ErrDelegateNotFound
}

func (r *fakeDelegateRepo) GetAll() ([]*delegate.Delegate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*delegate.Delegate, 0, len(r.byID))
	for _, d := range r.byID {
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeDelegateRepo) Update(d *delegate.Delegate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[d.ID]
	if !ok {
		return vote.ErrDelegateNotFound
	}
	existing.Name = d.Name
	existing.Gender = d.Gender
	existing.Community = d.Community
	existing.Zone = d.Zone
	existing.Phone = d.Phone
	existing.Email = d.Email
	return nil
}

func (r *fakeDelegateRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	if _, ok := r.byID[parsed]; !ok {
		return vote.ErrDelegateNotFound
	}
	delete(r.byID, parsed)
	return nil
}

func (r *fakeDelegateRepo) RecordImport(log *delegate.ImportLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports = append(r.imports, log)
	return nil
}

type fakeCandidateRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*election.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{byID: make(map[uuid.UUID]*election.Candidate)}
}

func (r *fakeCandidateRepo) add(c *election.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
}

func (r *fakeCandidateRepo) Create(c *election.Candidate) error {
	r.add(c)
	return nil
}

func (r *fakeCandidateRepo) GetByID(id string) (*election.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	c, ok := r.byID[parsed]
	if !ok {
		return nil, election.ErrCandidateNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCandidateRepo) GetAll() ([]*election.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*election.Candidate, 0, len(r.byID))
	for _, c := range r.byID {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeCandidateRepo) GetByPositionID(positionID string) ([]*election.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(positionID)
	if err != nil {
		return nil, err
	}
	var out []*election.Candidate
	for _, c := range r.byID {
		if c.PositionID == parsed {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeCandidateRepo) NextDisplayOrder(positionID string) (int, error) {
	candidates, err := r.GetByPositionID(positionID)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, c := range candidates {
		if c.DisplayOrder > max {
			max = c.DisplayOrder
		}
	}
	return max + 1, nil
}

func (r *fakeCandidateRepo) Update(c *election.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return election.ErrCandidateNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *fakeCandidateRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	if _, ok := r.byID[parsed]; !ok {
		return election.ErrCandidateNotFound
	}
	delete(r.byID, parsed)
	return nil
}

// fakeVoteRepo mirrors the transactional behavior of the real repository: the
// has_voted flag flips and the vote rows land together, or not at all.
type fakeVoteRepo struct {
	mu        sync.Mutex
	delegates *fakeDelegateRepo
	votes     []*vote.Vote
	createErr error

	results    []vote.PositionResult
	resultsErr error
	stats      *vote.Statistics
	statsErr   error
}

func newFakeVoteRepo(delegates *fakeDelegateRepo) *fakeVoteRepo {
	return &fakeVoteRepo{delegates: delegates}
}

func (r *fakeVoteRepo) CreateBallot(delegateID uuid.UUID, ballot vote.Ballot) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return 0, r.createErr
	}

	r.delegates.mu.Lock()
	defer r.delegates.mu.Unlock()

	d, ok := r.delegates.byID[delegateID]
	if !ok {
		return 0, vote.ErrDelegateNotFound
	}
	if d.HasVoted {
		return 0, vote.ErrAlreadyVoted
	}

	d.HasVoted = true
	for positionID, candidateID := range ballot {
		r.votes = append(r.votes, vote.NewVote(delegateID, positionID, candidateID))
	}
	return len(ballot), nil
}

func (r *fakeVoteRepo) Results(zone string) ([]vote.PositionResult, error) {
	if r.resultsErr != nil {
		return nil, r.resultsErr
	}
	if zone == "" {
		return r.results, nil
	}
	var out []vote.PositionResult
	for _, pr := range r.results {
		if pr.Zone == zone {
			out = append(out, pr)
		}
	}
	return out, nil
}

func (r *fakeVoteRepo) Statistics() (*vote.Statistics, error) {
	if r.statsErr != nil {
		return nil, r.statsErr
	}
	return r.stats, nil
}

func (r *fakeVoteRepo) ResetAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.votes = nil

	r.delegates.mu.Lock()
	defer r.delegates.mu.Unlock()
	for _, d := range r.delegates.byID {
		d.HasVoted = false
	}
	return nil
}

func (r *fakeVoteRepo) voteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.votes)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []live.Event
}

func (n *fakeNotifier) Publish(event live.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) published() []live.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]live.Event(nil), n.events...)
}

var errStorageDown = errors.New("storage unavailable")
