package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/domain/vote"
)

type votingFixture struct {
	delegates  *fakeDelegateRepo
	candidates *fakeCandidateRepo
	votes      *fakeVoteRepo
	notifier   *fakeNotifier
	service    *VotingService

	position  *election.Position
	candidate *election.Candidate
}

func newVotingFixture(t *testing.T) *votingFixture {
	t.Helper()

	delegates := newFakeDelegateRepo()
	candidates := newFakeCandidateRepo()
	votes := newFakeVoteRepo(delegates)
	notifier := &fakeNotifier{}

	position := election.NewPosition("CENTRAL ZONE", "President", 1)
	candidate := election.NewCandidate(position.ID, "Ada Obi", "F", "Umuali", "CENTRAL ZONE", "", 1)
	candidates.add(candidate)

	return &votingFixture{
		delegates:  delegates,
		candidates: candidates,
		votes:      votes,
		notifier:   notifier,
		service:    NewVotingService(delegates, candidates, votes, notifier),
		position:   position,
		candidate:  candidate,
	}
}

func (f *votingFixture) registerDelegate(t *testing.T) *delegate.Delegate {
	t.Helper()
	d := delegate.New("Chinedu Eze", "M", "Umuali", "CENTRAL ZONE", "", "")
	require.NoError(t, f.delegates.Create(d))
	return d
}

func TestVerifyDelegate(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)

	got, err := f.service.VerifyDelegate(d.Token)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.False(t, got.HasVoted)

	// Verification never consumes the token
	again, err := f.service.VerifyDelegate(d.Token)
	require.NoError(t, err)
	assert.False(t, again.HasVoted)
}

func TestVerifyDelegateUnknownToken(t *testing.T) {
	f := newVotingFixture(t)

	_, err := f.service.VerifyDelegate("INC-1-DEADBEEF0000")
	assert.ErrorIs(t, err, vote.ErrDelegateNotFound)

	_, err = f.service.VerifyDelegate("")
	assert.ErrorIs(t, err, vote.ErrDelegateNotFound)
}

func TestSubmitBallot(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)

	count, err := f.service.SubmitBallot(d.Token, vote.Ballot{
		f.position.ID: f.candidate.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, f.votes.voteCount())

	got, err := f.delegates.GetByID(d.ID.String())
	require.NoError(t, err)
	assert.True(t, got.HasVoted)

	events := f.notifier.published()
	require.Len(t, events, 1)
	assert.Equal(t, "new_votes", events[0].Type)
	assert.Equal(t, 1, events[0].Count)
	assert.Equal(t, d.ID.String(), events[0].DelegateID)
}

func TestSubmitBallotExactlyOnce(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)
	ballot := vote.Ballot{f.position.ID: f.candidate.ID}

	_, err := f.service.SubmitBallot(d.Token, ballot)
	require.NoError(t, err)

	_, err = f.service.SubmitBallot(d.Token, ballot)
	assert.ErrorIs(t, err, vote.ErrAlreadyVoted)
	assert.Equal(t, 1, f.votes.voteCount(), "repeat submission must not add votes")
	assert.Len(t, f.notifier.published(), 1, "repeat submission must not notify")
}

func TestSubmitBallotConcurrentSameToken(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)
	ballot := vote.Ballot{f.position.ID: f.candidate.ID}

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.SubmitBallot(d.Token, ballot)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, vote.ErrAlreadyVoted)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent submission may win")
	assert.Equal(t, 1, f.votes.voteCount())
}

func TestSubmitBallotPartial(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)

	// A second position the delegate skips entirely
	other := election.NewPosition("EASTERN ZONE", "National Secretary", 2)
	otherCandidate := election.NewCandidate(other.ID, "Ngozi Ude", "F", "Amafor", "EASTERN ZONE", "", 1)
	f.candidates.add(otherCandidate)

	count, err := f.service.SubmitBallot(d.Token, vote.Ballot{
		f.position.ID: f.candidate.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Skipped positions cannot be filled in later
	_, err = f.service.SubmitBallot(d.Token, vote.Ballot{
		other.ID: otherCandidate.ID,
	})
	assert.ErrorIs(t, err, vote.ErrAlreadyVoted)
}

func TestSubmitBallotEmpty(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)

	_, err := f.service.SubmitBallot(d.Token, vote.Ballot{})
	assert.ErrorIs(t, err, vote.ErrEmptyBallot)
	assert.Equal(t, 0, f.votes.voteCount())

	got, _ := f.delegates.GetByID(d.ID.String())
	assert.False(t, got.HasVoted, "failed submission must not consume the ballot")
}

func TestSubmitBallotUnknownCandidate(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)

	_, err := f.service.SubmitBallot(d.Token, vote.Ballot{
		f.position.ID: uuid.New(),
	})
	assert.ErrorIs(t, err, vote.ErrInvalidChoice)
	assert.Equal(t, 0, f.votes.voteCount())
}

func TestSubmitBallotCandidateWrongPosition(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)

	other := election.NewPosition("EASTERN ZONE", "National Secretary", 2)

	// Existing candidate chosen for a position they do not stand for
	_, err := f.service.SubmitBallot(d.Token, vote.Ballot{
		other.ID: f.candidate.ID,
	})
	assert.ErrorIs(t, err, vote.ErrInvalidChoice)
	assert.Equal(t, 0, f.votes.voteCount())

	got, _ := f.delegates.GetByID(d.ID.String())
	assert.False(t, got.HasVoted)
}

func TestSubmitBallotStorageFailureLeavesBallotOpen(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)
	f.votes.createErr = errStorageDown

	_, err := f.service.SubmitBallot(d.Token, vote.Ballot{
		f.position.ID: f.candidate.ID,
	})
	require.Error(t, err)

	got, _ := f.delegates.GetByID(d.ID.String())
	assert.False(t, got.HasVoted, "failed transaction must leave the ballot open")
	assert.Empty(t, f.notifier.published(), "no notification on failure")

	// The delegate can retry once storage recovers
	f.votes.createErr = nil
	count, err := f.service.SubmitBallot(d.Token, vote.Ballot{
		f.position.ID: f.candidate.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestResetVotes(t *testing.T) {
	f := newVotingFixture(t)
	d := f.registerDelegate(t)

	_, err := f.service.SubmitBallot(d.Token, vote.Ballot{f.position.ID: f.candidate.ID})
	require.NoError(t, err)

	require.NoError(t, f.service.ResetVotes())
	assert.Equal(t, 0, f.votes.voteCount())

	got, _ := f.delegates.GetByID(d.ID.String())
	assert.False(t, got.HasVoted, "reset must reopen ballots")

	// Voting works again after a reset
	count, err := f.service.SubmitBallot(d.Token, vote.Ballot{f.position.ID: f.candidate.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
