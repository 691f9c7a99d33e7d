package postgres

import (
	"github.com/google/uuid"

	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/domain/vote"
)

// DelegateRepository defines the persistence surface for the delegate registry.
type DelegateRepository interface {
	Create(d *delegate.Delegate) error
	GetByID(id string) (*delegate.Delegate, error)
	GetByToken(token string) (*delegate.Delegate, error)
	GetAll() ([]*delegate.Delegate, error)
	Update(d *delegate.Delegate) error
	Delete(id string) error
	RecordImport(log *delegate.ImportLog) error
}

// PositionRepository defines the read/write surface for electable offices.
type PositionRepository interface {
	Create(p *election.Position) error
	GetByID(id string) (*election.Position, error)
	GetAll() ([]*election.Position, error)
	GetAllWithCandidates() ([]*election.Position, error)
}

// CandidateRepository defines the persistence surface for contestants.
type CandidateRepository interface {
	Create(c *election.Candidate) error
	GetByID(id string) (*election.Candidate, error)
	GetAll() ([]*election.Candidate, error)
	GetByPositionID(positionID string) ([]*election.Candidate, error)
	NextDisplayOrder(positionID string) (int, error)
	Update(c *election.Candidate) error
	Delete(id string) error
}

// VoteRepository is the only writer of vote rows and the only mutator of the
// delegates.has_voted flag. CreateBallot must be all-or-nothing.
type VoteRepository interface {
	CreateBallot(delegateID uuid.UUID, ballot vote.Ballot) (int, error)
	Results(zone string) ([]vote.PositionResult, error)
	Statistics() (*vote.Statistics, error)
	ResetAll() error
}

// RepositoryContainer bundles every repository behind one dependency that can
// be injected into services and swapped for test doubles.
type RepositoryContainer interface {
	Delegates() DelegateRepository
	Positions() PositionRepository
	Candidates() CandidateRepository
	Votes() VoteRepository
	Health() error
	Close() error
}
