package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/logger"
)

// PostgresVoteRepository implements VoteRepository using GORM
type PostgresVoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVoteRepository creates a new PostgreSQL vote repository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

// CreateBallot persists every vote row of a ballot and flips the delegate's
// has_voted flag as one transaction. The flag flip is a conditional update
// (WHERE has_voted = false, affected rows checked), so two concurrent
// submissions for the same delegate cannot both pass: the loser sees zero
// affected rows and the whole transaction rolls back with ErrAlreadyVoted.
func (r *PostgresVoteRepository) CreateBallot(delegateID uuid.UUID, ballot vote.Ballot) (int, error) {
	r.log.Debug("creating ballot", "delegate_id", delegateID, "choices", len(ballot))

	if err := ballot.Validate(); err != nil {
		r.log.Error("ballot validation failed", "error", err, "delegate_id", delegateID)
		return 0, err
	}

	votes := make([]*vote.Vote, 0, len(ballot))
	for positionID, candidateID := range ballot {
		votes = append(votes, vote.NewVote(delegateID, positionID, candidateID))
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&delegate.Delegate{}).
			Where("id = ? AND has_voted = ?", delegateID, false).
			Update("has_voted", true)
		if result.Error != nil {
			return fmt.Errorf("failed to flip has_voted flag: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&delegate.Delegate{}).Where("id = ?", delegateID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check delegate existence: %w", err)
			}
			if count == 0 {
				return vote.ErrDelegateNotFound
			}
			return vote.ErrAlreadyVoted
		}

		if err := tx.Create(&votes).Error; err != nil {
			return fmt.Errorf("failed to create vote rows: %w", err)
		}

		return nil
	})
	if err != nil {
		r.log.Warn("ballot rejected", "delegate_id", delegateID, "error", err)
		return 0, err
	}

	r.log.Info("ballot recorded successfully", "delegate_id", delegateID, "votes", len(votes))
	return len(votes), nil
}

// candidateTallyRow is the row-mapping boundary between the driver and the
// typed read model.
type candidateTallyRow struct {
	PositionID   uuid.UUID
	CandidateID  uuid.UUID
	Name         string
	ImageURL     string
	DisplayOrder int
	VoteCount    int64
}

// Results aggregates vote counts per candidate, grouped strictly within each
// position. Candidates with zero votes appear with a count of 0. Positions
// come back in display order; candidates by count descending, display order
// as the stable tie-breaker.
func (r *PostgresVoteRepository) Results(zone string) ([]vote.PositionResult, error) {
	r.log.Debug("aggregating voting results", "zone", zone)

	positionsQuery := r.db.Model(&election.Position{}).Order("display_order ASC")
	if zone != "" {
		positionsQuery = positionsQuery.Where("zone = ?", zone)
	}

	var positions []*election.Position
	if err := positionsQuery.Find(&positions).Error; err != nil {
		r.log.Error("failed to retrieve positions for results", "error", err)
		return nil, fmt.Errorf("failed to retrieve positions for results: %w", err)
	}

	var rows []candidateTallyRow
	err := r.db.Model(&election.Candidate{}).
		Select(`candidates.position_id AS position_id,
			candidates.id AS candidate_id,
			candidates.name AS name,
			candidates.image_url AS image_url,
			candidates.display_order AS display_order,
			COUNT(votes.id) AS vote_count`).
		Joins("LEFT JOIN votes ON votes.candidate_id = candidates.id AND votes.position_id = candidates.position_id").
		Group("candidates.id, candidates.position_id, candidates.name, candidates.image_url, candidates.display_order").
		Order("vote_count DESC, display_order ASC").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to aggregate vote counts", "error", err)
		return nil, fmt.Errorf("failed to aggregate vote counts: %w", err)
	}

	tallies := make(map[uuid.UUID][]vote.CandidateTally, len(positions))
	for _, row := range rows {
		tallies[row.PositionID] = append(tallies[row.PositionID], vote.CandidateTally{
			CandidateID:  row.CandidateID,
			Name:         row.Name,
			ImageURL:     row.ImageURL,
			VoteCount:    row.VoteCount,
			DisplayOrder: row.DisplayOrder,
		})
	}

	results := make([]vote.PositionResult, 0, len(positions))
	for _, p := range positions {
		candidates := tallies[p.ID]
		if candidates == nil {
			candidates = []vote.CandidateTally{}
		}
		results = append(results, vote.PositionResult{
			PositionID: p.ID,
			Title:      p.Title,
			Zone:       p.Zone,
			Candidates: candidates,
		})
	}

	r.log.Debug("voting results aggregated", "positions", len(results))
	return results, nil
}

// Statistics returns the aggregate counters shown on dashboards.
func (r *PostgresVoteRepository) Statistics() (*vote.Statistics, error) {
	r.log.Debug("computing voting statistics")

	var stats vote.Statistics

	if err := r.db.Model(&delegate.Delegate{}).Count(&stats.TotalDelegates).Error; err != nil {
		r.log.Error("failed to count delegates", "error", err)
		return nil, fmt.Errorf("failed to count delegates: %w", err)
	}
	if err := r.db.Model(&delegate.Delegate{}).Where("has_voted = ?", true).Count(&stats.VotedDelegates).Error; err != nil {
		r.log.Error("failed to count voted delegates", "error", err)
		return nil, fmt.Errorf("failed to count voted delegates: %w", err)
	}
	if err := r.db.Model(&election.Candidate{}).Count(&stats.TotalCandidates).Error; err != nil {
		r.log.Error("failed to count candidates", "error", err)
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	if err := r.db.Model(&vote.Vote{}).Count(&stats.TotalVotes).Error; err != nil {
		r.log.Error("failed to count votes", "error", err)
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	return &stats, nil
}

// ResetAll deletes every vote and clears every delegate's has_voted flag in
// one transaction. Administrative full reset only.
func (r *PostgresVoteRepository) ResetAll() error {
	r.log.Warn("resetting all votes")

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&vote.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		if err := tx.Model(&delegate.Delegate{}).Where("1 = 1").Update("has_voted", false).Error; err != nil {
			return fmt.Errorf("failed to clear has_voted flags: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to reset votes", "error", err)
		return err
	}

	r.log.Info("all votes reset successfully")
	return nil
}
