package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/incvoting/voting-api/internal/config"
	"github.com/incvoting/voting-api/internal/logger"
)

// Container implements RepositoryContainer interface
type Container struct {
	db            *gorm.DB
	log           *log.Logger
	delegateRepo  DelegateRepository
	positionRepo  PositionRepository
	candidateRepo CandidateRepository
	voteRepo      VoteRepository
}

// NewContainer creates a new repository container with all repositories initialized
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:            db,
		log:           logger.Repository("postgres_container"),
		delegateRepo:  NewPostgresDelegateRepository(db),
		positionRepo:  NewPostgresPositionRepository(db),
		candidateRepo: NewPostgresCandidateRepository(db),
		voteRepo:      NewPostgresVoteRepository(db),
	}
}

// Delegates returns the delegate repository
func (c *Container) Delegates() DelegateRepository {
	return c.delegateRepo
}

// Positions returns the position repository
func (c *Container) Positions() PositionRepository {
	return c.positionRepo
}

// Candidates returns the candidate repository
func (c *Container) Candidates() CandidateRepository {
	return c.candidateRepo
}

// Votes returns the vote repository
func (c *Container) Votes() VoteRepository {
	return c.voteRepo
}

// DB exposes the underlying connection for server wiring
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Health checks the underlying database connection
func (c *Container) Health() error {
	return HealthCheck(c.db)
}

// Close closes the underlying database connection
func (c *Container) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	c.log.Info("Database connection closed")
	return nil
}
