package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/media"
	"github.com/incvoting/voting-api/internal/storage/postgres"
)

// ElectionService manages the ballot catalog: positions and the candidates
// standing for them, including candidate image uploads.
type ElectionService struct {
	positions  postgres.PositionRepository
	candidates postgres.CandidateRepository
	images     media.Store
	log        *charmlog.Logger
}

// NewElectionService creates the election service. The image store may be nil
// when uploads are disabled.
func NewElectionService(
	positions postgres.PositionRepository,
	candidates postgres.CandidateRepository,
	images media.Store,
) *ElectionService {
	return &ElectionService{
		positions:  positions,
		candidates: candidates,
		images:     images,
		log:        logger.Service("election"),
	}
}

// ListPositions returns every position in display order.
func (s *ElectionService) ListPositions() ([]*election.Position, error) {
	return s.positions.GetAll()
}

// Ballot returns the full ballot: every position with its candidates in
// display order. This is what the voting page renders after verification.
func (s *ElectionService) Ballot() ([]*election.Position, error) {
	return s.positions.GetAllWithCandidates()
}

// CreatePosition adds a new electable office.
func (s *ElectionService) CreatePosition(zone, title string, displayOrder int) (*election.Position, error) {
	p := election.NewPosition(zone, title, displayOrder)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.positions.Create(p); err != nil {
		return nil, err
	}

	s.log.Info("position created", "position_id", p.ID, "title", p.Title)
	return p, nil
}

// ListCandidates returns all candidates, or only those standing for a single
// position when positionID is set.
func (s *ElectionService) ListCandidates(positionID string) ([]*election.Candidate, error) {
	if positionID != "" {
		return s.candidates.GetByPositionID(positionID)
	}
	return s.candidates.GetAll()
}

// GetCandidate returns one candidate by id.
func (s *ElectionService) GetCandidate(id string) (*election.Candidate, error) {
	return s.candidates.GetByID(id)
}

// CreateCandidate adds a contestant to a position, appending at the end of
// that position's display order, and optionally stores a portrait image.
func (s *ElectionService) CreateCandidate(
	ctx context.Context,
	positionID uuid.UUID,
	name, gender, community, zone string,
	image io.Reader, imageName, imageType string, imageSize int64,
) (*election.Candidate, error) {
	p, err := s.positions.GetByID(positionID.String())
	if err != nil {
		return nil, fmt.Errorf("position %s: %w", positionID, err)
	}

	order, err := s.candidates.NextDisplayOrder(p.ID.String())
	if err != nil {
		return nil, err
	}

	c := election.NewCandidate(p.ID, name, gender, community, zone, "", order)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.saveImage(ctx, c.ID, image, imageName, imageType, imageSize)
		if err != nil {
			return nil, err
		}
		c.ImageURL = url
	}

	if err := s.candidates.Create(c); err != nil {
		return nil, err
	}

	s.log.Info("candidate created", "candidate_id", c.ID, "position_id", p.ID, "name", c.Name)
	return c, nil
}

// UpdateCandidate writes candidate fields and replaces the portrait when a
// new image is supplied.
func (s *ElectionService) UpdateCandidate(
	ctx context.Context,
	c *election.Candidate,
	image io.Reader, imageName, imageType string, imageSize int64,
) error {
	if image != nil {
		url, err := s.saveImage(ctx, c.ID, image, imageName, imageType, imageSize)
		if err != nil {
			return err
		}
		c.ImageURL = url
	}

	if err := s.candidates.Update(c); err != nil {
		return err
	}

	s.log.Info("candidate updated", "candidate_id", c.ID)
	return nil
}

// DeleteCandidate removes a candidate together with any votes cast for them.
func (s *ElectionService) DeleteCandidate(id string) error {
	if err := s.candidates.Delete(id); err != nil {
		return err
	}
	s.log.Warn("candidate deleted", "candidate_id", id)
	return nil
}

func (s *ElectionService) saveImage(ctx context.Context, candidateID uuid.UUID, image io.Reader, name, contentType string, size int64) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("image uploads are not configured")
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	return s.images.Save(ctx, candidateID.String()+ext, contentType, image, size)
}
