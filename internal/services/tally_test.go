package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incvoting/voting-api/internal/domain/vote"
)

func TestGetResults(t *testing.T) {
	delegates := newFakeDelegateRepo()
	votes := newFakeVoteRepo(delegates)
	votes.results = []vote.PositionResult{
		{
			PositionID: uuid.New(),
			Title:      "President",
			Zone:       "CENTRAL ZONE",
			Candidates: []vote.CandidateTally{
				{CandidateID: uuid.New(), Name: "Ada Obi", VoteCount: 12},
				{CandidateID: uuid.New(), Name: "Chinedu Eze", VoteCount: 7},
			},
		},
		{
			PositionID: uuid.New(),
			Title:      "National Secretary",
			Zone:       "EASTERN ZONE",
			Candidates: []vote.CandidateTally{},
		},
	}

	service := NewTallyService(votes)

	all, err := service.GetResults("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(12), all[0].Candidates[0].VoteCount)
	assert.NotNil(t, all[1].Candidates, "positions without candidates return an empty list, not null")

	eastern, err := service.GetResults("EASTERN ZONE")
	require.NoError(t, err)
	require.Len(t, eastern, 1)
	assert.Equal(t, "National Secretary", eastern[0].Title)
}

func TestGetResultsError(t *testing.T) {
	delegates := newFakeDelegateRepo()
	votes := newFakeVoteRepo(delegates)
	votes.resultsErr = errStorageDown

	service := NewTallyService(votes)

	_, err := service.GetResults("")
	assert.ErrorIs(t, err, errStorageDown)
}

func TestGetStatistics(t *testing.T) {
	delegates := newFakeDelegateRepo()
	votes := newFakeVoteRepo(delegates)
	votes.stats = &vote.Statistics{
		TotalDelegates:  120,
		VotedDelegates:  45,
		TotalCandidates: 30,
		TotalVotes:      512,
	}

	service := NewTallyService(votes)

	stats, err := service.GetStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(120), stats.TotalDelegates)
	assert.Equal(t, int64(45), stats.VotedDelegates)
	assert.Equal(t, int64(512), stats.TotalVotes)
}
