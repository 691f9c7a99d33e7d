package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/logger"
)

// PostgresPositionRepository implements PositionRepository using GORM
type PostgresPositionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresPositionRepository creates a new PostgreSQL position repository
func NewPostgresPositionRepository(db *gorm.DB) *PostgresPositionRepository {
	return &PostgresPositionRepository{
		db:  db,
		log: logger.Repository("position"),
	}
}

func (r *PostgresPositionRepository) Create(p *election.Position) error {
	r.log.Debug("creating new position", "position_id", p.ID, "title", p.Title)

	if err := p.Validate(); err != nil {
		r.log.Error("position validation failed", "error", err, "position_id", p.ID)
		return fmt.Errorf("position validation failed: %w", err)
	}

	if err := r.db.Create(p).Error; err != nil {
		r.log.Error("failed to create position", "error", err, "position_id", p.ID)
		return fmt.Errorf("failed to create position: %w", err)
	}

	r.log.Info("position created successfully", "position_id", p.ID, "title", p.Title)
	return nil
}

func (r *PostgresPositionRepository) GetByID(id string) (*election.Position, error) {
	r.log.Debug("retrieving position by ID", "position_id", id)

	positionID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid position ID format", "position_id", id, "error", err)
		return nil, fmt.Errorf("invalid position ID format: %w", err)
	}

	var p election.Position
	if err := r.db.First(&p, "id = ?", positionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("position not found", "position_id", id)
			return nil, election.ErrPositionNotFound
		}
		r.log.Error("failed to retrieve position", "position_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve position: %w", err)
	}

	return &p, nil
}

func (r *PostgresPositionRepository) GetAll() ([]*election.Position, error) {
	r.log.Debug("retrieving all positions")

	var positions []*election.Position
	if err := r.db.Order("display_order ASC").Find(&positions).Error; err != nil {
		r.log.Error("failed to retrieve positions", "error", err)
		return nil, fmt.Errorf("failed to retrieve positions: %w", err)
	}

	r.log.Debug("positions retrieved successfully", "count", len(positions))
	return positions, nil
}

// GetAllWithCandidates returns the ballot catalog the voting UI renders:
// positions in display order, each with its candidates in display order.
func (r *PostgresPositionRepository) GetAllWithCandidates() ([]*election.Position, error) {
	r.log.Debug("retrieving positions with candidates")

	var positions []*election.Position
	err := r.db.
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("candidates.display_order ASC")
		}).
		Order("display_order ASC").
		Find(&positions).Error
	if err != nil {
		r.log.Error("failed to retrieve positions with candidates", "error", err)
		return nil, fmt.Errorf("failed to retrieve positions with candidates: %w", err)
	}

	r.log.Debug("positions with candidates retrieved successfully", "count", len(positions))
	return positions, nil
}
