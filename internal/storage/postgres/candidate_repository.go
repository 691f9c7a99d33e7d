package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/logger"
)

// PostgresCandidateRepository implements CandidateRepository using GORM
type PostgresCandidateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresCandidateRepository creates a new PostgreSQL candidate repository
func NewPostgresCandidateRepository(db *gorm.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{
		db:  db,
		log: logger.Repository("candidate"),
	}
}

func (r *PostgresCandidateRepository) Create(c *election.Candidate) error {
	r.log.Debug("creating new candidate", "candidate_id", c.ID, "position_id", c.PositionID)

	if err := c.Validate(); err != nil {
		r.log.Error("candidate validation failed", "error", err, "candidate_id", c.ID)
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	if err := r.db.Create(c).Error; err != nil {
		r.log.Error("failed to create candidate", "error", err, "candidate_id", c.ID)
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	r.log.Info("candidate created successfully", "candidate_id", c.ID, "name", c.Name)
	return nil
}

func (r *PostgresCandidateRepository) GetByID(id string) (*election.Candidate, error) {
	r.log.Debug("retrieving candidate by ID", "candidate_id", id)

	candidateID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid candidate ID format", "candidate_id", id, "error", err)
		return nil, fmt.Errorf("invalid candidate ID format: %w", err)
	}

	var c election.Candidate
	if err := r.db.First(&c, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("candidate not found", "candidate_id", id)
			return nil, election.ErrCandidateNotFound
		}
		r.log.Error("failed to retrieve candidate", "candidate_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve candidate: %w", err)
	}

	return &c, nil
}

func (r *PostgresCandidateRepository) GetAll() ([]*election.Candidate, error) {
	r.log.Debug("retrieving all candidates")

	var candidates []*election.Candidate
	if err := r.db.Order("position_id, display_order ASC").Find(&candidates).Error; err != nil {
		r.log.Error("failed to retrieve candidates", "error", err)
		return nil, fmt.Errorf("failed to retrieve candidates: %w", err)
	}

	r.log.Debug("candidates retrieved successfully", "count", len(candidates))
	return candidates, nil
}

func (r *PostgresCandidateRepository) GetByPositionID(positionID string) ([]*election.Candidate, error) {
	r.log.Debug("retrieving candidates by position", "position_id", positionID)

	positionUUID, err := uuid.Parse(positionID)
	if err != nil {
		r.log.Error("invalid position ID format", "position_id", positionID, "error", err)
		return nil, fmt.Errorf("invalid position ID format: %w", err)
	}

	var candidates []*election.Candidate
	if err := r.db.Where("position_id = ?", positionUUID).Order("display_order ASC").Find(&candidates).Error; err != nil {
		r.log.Error("failed to retrieve candidates by position", "position_id", positionID, "error", err)
		return nil, fmt.Errorf("failed to retrieve candidates by position: %w", err)
	}

	r.log.Debug("candidates retrieved successfully", "position_id", positionID, "count", len(candidates))
	return candidates, nil
}

// NextDisplayOrder returns max(display_order)+1 within a position, so newly
// created candidates land at the end of the list.
func (r *PostgresCandidateRepository) NextDisplayOrder(positionID string) (int, error) {
	positionUUID, err := uuid.Parse(positionID)
	if err != nil {
		return 0, fmt.Errorf("invalid position ID format: %w", err)
	}

	var maxOrder struct {
		MaxOrder int
	}
	err = r.db.Model(&election.Candidate{}).
		Select("COALESCE(MAX(display_order), 0) AS max_order").
		Where("position_id = ?", positionUUID).
		Scan(&maxOrder).Error
	if err != nil {
		r.log.Error("failed to compute next display order", "position_id", positionID, "error", err)
		return 0, fmt.Errorf("failed to compute next display order: %w", err)
	}

	return maxOrder.MaxOrder + 1, nil
}

func (r *PostgresCandidateRepository) Update(c *election.Candidate) error {
	r.log.Debug("updating candidate", "candidate_id", c.ID)

	if err := c.Validate(); err != nil {
		r.log.Error("candidate validation failed", "error", err, "candidate_id", c.ID)
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	updates := map[string]any{
		"position_id": c.PositionID,
		"name":        c.Name,
		"gender":      c.Gender,
		"community":   c.Community,
		"zone":        c.Zone,
	}
	if c.ImageURL != "" {
		updates["image_url"] = c.ImageURL
	}

	if err := r.db.Model(&election.Candidate{}).Where("id = ?", c.ID).Updates(updates).Error; err != nil {
		r.log.Error("failed to update candidate", "error", err, "candidate_id", c.ID)
		return fmt.Errorf("failed to update candidate: %w", err)
	}

	r.log.Info("candidate updated successfully", "candidate_id", c.ID)
	return nil
}

// Delete removes a candidate and cascades their votes in one transaction.
func (r *PostgresCandidateRepository) Delete(id string) error {
	r.log.Debug("deleting candidate", "candidate_id", id)

	candidateID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid candidate ID format", "candidate_id", id, "error", err)
		return fmt.Errorf("invalid candidate ID format: %w", err)
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ?", candidateID).Delete(&vote.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete candidate votes: %w", err)
		}
		result := tx.Where("id = ?", candidateID).Delete(&election.Candidate{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete candidate: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return election.ErrCandidateNotFound
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to delete candidate", "error", err, "candidate_id", id)
		return err
	}

	r.log.Info("candidate deleted successfully", "candidate_id", id)
	return nil
}
