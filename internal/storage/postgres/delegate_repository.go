package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/logger"
)

// PostgresDelegateRepository implements DelegateRepository using GORM
type PostgresDelegateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresDelegateRepository creates a new PostgreSQL delegate repository
func NewPostgresDelegateRepository(db *gorm.DB) *PostgresDelegateRepository {
	return &PostgresDelegateRepository{
		db:  db,
		log: logger.Repository("delegate"),
	}
}

func (r *PostgresDelegateRepository) Create(d *delegate.Delegate) error {
	r.log.Debug("creating new delegate", "delegate_id", d.ID, "zone", d.Zone)

	if err := d.Validate(); err != nil {
		r.log.Error("delegate validation failed", "error", err, "delegate_id", d.ID)
		return fmt.Errorf("delegate validation failed: %w", err)
	}

	if err := r.db.Create(d).Error; err != nil {
		r.log.Error("failed to create delegate", "error", err, "delegate_id", d.ID)
		return fmt.Errorf("failed to create delegate: %w", err)
	}

	r.log.Info("delegate created successfully", "delegate_id", d.ID, "zone", d.Zone)
	return nil
}

func (r *PostgresDelegateRepository) GetByID(id string) (*delegate.Delegate, error) {
	r.log.Debug("retrieving delegate by ID", "delegate_id", id)

	delegateID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid delegate ID format", "delegate_id", id, "error", err)
		return nil, fmt.Errorf("invalid delegate ID format: %w", err)
	}

	var d delegate.Delegate
	if err := r.db.First(&d, "id = ?", delegateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("delegate not found", "delegate_id", id)
			return nil, vote.ErrDelegateNotFound
		}
		r.log.Error("failed to retrieve delegate", "delegate_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve delegate: %w", err)
	}

	return &d, nil
}

func (r *PostgresDelegateRepository) GetByToken(token string) (*delegate.Delegate, error) {
	r.log.Debug("retrieving delegate by token")

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, vote.ErrDelegateNotFound
	}

	var d delegate.Delegate
	if err := r.db.First(&d, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("no delegate for token")
			return nil, vote.ErrDelegateNotFound
		}
		r.log.Error("failed to retrieve delegate by token", "error", err)
		return nil, fmt.Errorf("failed to retrieve delegate by token: %w", err)
	}

	return &d, nil
}

func (r *PostgresDelegateRepository) GetAll() ([]*delegate.Delegate, error) {
	r.log.Debug("retrieving all delegates")

	var delegates []*delegate.Delegate
	if err := r.db.Order("zone, name").Find(&delegates).Error; err != nil {
		r.log.Error("failed to retrieve delegates", "error", err)
		return nil, fmt.Errorf("failed to retrieve delegates: %w", err)
	}

	r.log.Debug("delegates retrieved successfully", "count", len(delegates))
	return delegates, nil
}

// Update persists non-credential fields. The token is immutable once issued
// and has_voted is owned by the vote repository, so neither is written here.
func (r *PostgresDelegateRepository) Update(d *delegate.Delegate) error {
	r.log.Debug("updating delegate", "delegate_id", d.ID)

	if err := d.Validate(); err != nil {
		r.log.Error("delegate validation failed", "error", err, "delegate_id", d.ID)
		return fmt.Errorf("delegate validation failed: %w", err)
	}

	err := r.db.Model(&delegate.Delegate{}).
		Where("id = ?", d.ID).
		Updates(map[string]any{
			"name":      d.Name,
			"gender":    d.Gender,
			"community": d.Community,
			"zone":      d.Zone,
			"phone":     d.Phone,
			"email":     d.Email,
		}).Error
	if err != nil {
		r.log.Error("failed to update delegate", "error", err, "delegate_id", d.ID)
		return fmt.Errorf("failed to update delegate: %w", err)
	}

	r.log.Info("delegate updated successfully", "delegate_id", d.ID)
	return nil
}

// Delete removes a delegate and cascades their votes in one transaction.
func (r *PostgresDelegateRepository) Delete(id string) error {
	r.log.Debug("deleting delegate", "delegate_id", id)

	delegateID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid delegate ID format", "delegate_id", id, "error", err)
		return fmt.Errorf("invalid delegate ID format: %w", err)
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delegate_id = ?", delegateID).Delete(&vote.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete delegate votes: %w", err)
		}
		result := tx.Where("id = ?", delegateID).Delete(&delegate.Delegate{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete delegate: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return vote.ErrDelegateNotFound
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to delete delegate", "error", err, "delegate_id", id)
		return err
	}

	r.log.Info("delegate deleted successfully", "delegate_id", id)
	return nil
}

func (r *PostgresDelegateRepository) RecordImport(importLog *delegate.ImportLog) error {
	r.log.Debug("recording delegate import", "filename", importLog.Filename, "imported", importLog.Imported)

	if err := r.db.Create(importLog).Error; err != nil {
		r.log.Error("failed to record delegate import", "error", err, "filename", importLog.Filename)
		return fmt.Errorf("failed to record delegate import: %w", err)
	}

	r.log.Info("delegate import recorded", "import_id", importLog.ID, "imported", importLog.Imported)
	return nil
}
