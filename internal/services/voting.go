package services

import (
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/live"
	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/storage/postgres"
)

// VotingService implements the delegate-facing voting flow: token
// verification and exactly-once ballot submission.
type VotingService struct {
	delegates  postgres.DelegateRepository
	candidates postgres.CandidateRepository
	votes      postgres.VoteRepository
	notifier   live.Notifier
	log        *charmlog.Logger
}

// NewVotingService creates the voting service. The notifier may be nil when
// live updates are not wired, e.g. in tests.
func NewVotingService(
	delegates postgres.DelegateRepository,
	candidates postgres.CandidateRepository,
	votes postgres.VoteRepository,
	notifier live.Notifier,
) *VotingService {
	return &VotingService{
		delegates:  delegates,
		candidates: candidates,
		votes:      votes,
		notifier:   notifier,
		log:        logger.Service("voting"),
	}
}

// VerifyDelegate resolves a token to its delegate. Verification never consumes
// the token; it only reports identity and whether the ballot is still open for
// this delegate.
func (s *VotingService) VerifyDelegate(token string) (*delegate.Delegate, error) {
	if token == "" {
		return nil, vote.ErrDelegateNotFound
	}

	d, err := s.delegates.GetByToken(token)
	if err != nil {
		s.log.Debug("token verification failed", "error", err)
		return nil, err
	}

	s.log.Info("delegate verified", "delegate_id", d.ID, "has_voted", d.HasVoted)
	return d, nil
}

// SubmitBallot records a delegate's full ballot exactly once. The ballot may
// skip positions but must carry at least one choice, and every choice must
// name a real candidate standing for that position. All persistence happens in
// a single transaction; nothing is written on failure.
func (s *VotingService) SubmitBallot(token string, ballot vote.Ballot) (int, error) {
	d, err := s.delegates.GetByToken(token)
	if err != nil {
		return 0, err
	}

	if d.HasVoted {
		s.log.Warn("repeat submission rejected", "delegate_id", d.ID)
		return 0, vote.ErrAlreadyVoted
	}

	if err := ballot.Validate(); err != nil {
		return 0, err
	}

	if err := s.validateChoices(ballot); err != nil {
		s.log.Warn("ballot carries invalid choice", "delegate_id", d.ID, "error", err)
		return 0, err
	}

	count, err := s.votes.CreateBallot(d.ID, ballot)
	if err != nil {
		return 0, err
	}

	s.log.Info("ballot recorded", "delegate_id", d.ID, "votes", count)

	if s.notifier != nil {
		s.notifier.Publish(live.NewVotesEvent(count, d.ID.String()))
	}

	return count, nil
}

// validateChoices confirms every chosen candidate exists and actually stands
// for the position it was chosen for.
func (s *VotingService) validateChoices(ballot vote.Ballot) error {
	for positionID, candidateID := range ballot {
		c, err := s.candidates.GetByID(candidateID.String())
		if err != nil {
			return fmt.Errorf("%w: candidate %s", vote.ErrInvalidChoice, candidateID)
		}
		if c.PositionID != positionID {
			return fmt.Errorf("%w: candidate %s does not stand for position %s",
				vote.ErrInvalidChoice, candidateID, positionID)
		}
	}
	return nil
}

// ResetVotes wipes every vote and reopens all ballots. Admin-only; used
// between test runs and before the real session starts.
func (s *VotingService) ResetVotes() error {
	if err := s.votes.ResetAll(); err != nil {
		return err
	}

	s.log.Warn("all votes reset")

	if s.notifier != nil {
		s.notifier.Publish(live.NewVotesEvent(0, uuid.Nil.String()))
	}
	return nil
}
