package election

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Position represents one electable office, organized by zone
type Position struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Zone         string    `json:"zone" gorm:"not null"`
	Title        string    `json:"title" gorm:"not null"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Candidates []Candidate `json:"candidates,omitempty" gorm:"foreignKey:PositionID"`
}

// Candidate represents one contestant for exactly one position
type Candidate struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PositionID   uuid.UUID `json:"position_id" gorm:"type:uuid;not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Gender       string    `json:"gender"`
	Community    string    `json:"community"`
	Zone         string    `json:"zone"`
	ImageURL     string    `json:"image_url"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Position) TableName() string {
	return "positions"
}

// TableName overrides the table name
func (Candidate) TableName() string {
	return "candidates"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func NewPosition(zone, title string, displayOrder int) *Position {
	return &Position{
		ID:           uuid.New(),
		Zone:         zone,
		Title:        title,
		DisplayOrder: displayOrder,
		CreatedAt:    time.Now(),
	}
}

func NewCandidate(positionID uuid.UUID, name, gender, community, zone, imageURL string, displayOrder int) *Candidate {
	return &Candidate{
		ID:           uuid.New(),
		PositionID:   positionID,
		Name:         name,
		Gender:       gender,
		Community:    community,
		Zone:         zone,
		ImageURL:     imageURL,
		DisplayOrder: displayOrder,
		CreatedAt:    time.Now(),
	}
}

// Validate checks if the position data is valid
func (p *Position) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(p.Zone) == "" {
		return fmt.Errorf("zone is required")
	}
	return nil
}

// Validate checks if the candidate data is valid
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if c.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	return nil
}
