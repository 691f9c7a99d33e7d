package vote

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote represents one (delegate, position, candidate) decision. Vote rows are
// created atomically as a set when a delegate submits a ballot and are never
// updated afterwards.
type Vote struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	DelegateID  uuid.UUID `json:"delegate_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_delegate_position"`
	PositionID  uuid.UUID `json:"position_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_delegate_position"`
	CandidateID uuid.UUID `json:"candidate_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Ballot maps a position to the chosen candidate. A skipped position is
// modeled as absence from the map, not a sentinel value.
type Ballot map[uuid.UUID]uuid.UUID

// TableName overrides the table name
func (Vote) TableName() string {
	return "votes"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func NewVote(delegateID, positionID, candidateID uuid.UUID) *Vote {
	return &Vote{
		ID:          uuid.New(),
		DelegateID:  delegateID,
		PositionID:  positionID,
		CandidateID: candidateID,
		CreatedAt:   time.Now(),
	}
}

// Validate checks if the vote data is valid
func (v *Vote) Validate() error {
	if v.DelegateID == uuid.Nil {
		return fmt.Errorf("delegate_id is required")
	}
	if v.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	if v.CandidateID == uuid.Nil {
		return fmt.Errorf("candidate_id is required")
	}
	return nil
}

// Validate rejects ballots that carry no choices at all. Partial ballots that
// skip some positions are fine.
func (b Ballot) Validate() error {
	if len(b) == 0 {
		return ErrEmptyBallot
	}
	for positionID, candidateID := range b {
		if positionID == uuid.Nil || candidateID == uuid.Nil {
			return ErrInvalidChoice
		}
	}
	return nil
}
