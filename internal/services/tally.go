package services

import (
	charmlog "github.com/charmbracelet/log"

	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/storage/postgres"
)

// TallyService exposes the read side of the election: per-position standings
// and turnout statistics, always computed fresh from the vote rows.
type TallyService struct {
	votes postgres.VoteRepository
	log   *charmlog.Logger
}

// NewTallyService creates the tally service.
func NewTallyService(votes postgres.VoteRepository) *TallyService {
	return &TallyService{
		votes: votes,
		log:   logger.Service("tally"),
	}
}

// GetResults returns standings per position, candidates ordered by vote count
// descending then display order. An empty zone returns every position.
func (s *TallyService) GetResults(zone string) ([]vote.PositionResult, error) {
	results, err := s.votes.Results(zone)
	if err != nil {
		return nil, err
	}

	s.log.Debug("results computed", "zone", zone, "positions", len(results))
	return results, nil
}

// GetStatistics returns turnout counters for the dashboard header.
func (s *TallyService) GetStatistics() (*vote.Statistics, error) {
	stats, err := s.votes.Statistics()
	if err != nil {
		return nil, err
	}

	s.log.Debug("statistics computed",
		"delegates", stats.TotalDelegates,
		"voted", stats.VotedDelegates,
		"votes", stats.TotalVotes)
	return stats, nil
}
