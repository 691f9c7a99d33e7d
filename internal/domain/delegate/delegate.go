package delegate

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TokenPrefix identifies delegate credentials issued by this system.
// Tokens are globally unique and immutable once issued.
const TokenPrefix = "INC-1-"

// Delegate represents one eligible voter, keyed by an opaque token
type Delegate struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name      string    `json:"name" gorm:"not null"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	Gender    string    `json:"gender"`
	Community string    `json:"community"`
	Zone      string    `json:"zone" gorm:"not null"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	HasVoted  bool      `json:"has_voted" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// ImportLog records one CSV bulk import of delegates
type ImportLog struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Filename  string         `json:"filename"`
	Imported  int            `json:"imported" gorm:"not null;default:0"`
	Tokens    pq.StringArray `json:"tokens" gorm:"type:text[]"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Delegate) TableName() string {
	return "delegates"
}

// TableName overrides the table name
func (ImportLog) TableName() string {
	return "import_logs"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (d *Delegate) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (il *ImportLog) BeforeCreate(tx *gorm.DB) error {
	if il.ID == uuid.Nil {
		il.ID = uuid.New()
	}
	return nil
}

// NewDelegate creates a delegate with a freshly issued token
func New(name, gender, community, zone, phone, email string) *Delegate {
	return &Delegate{
		ID:        uuid.New(),
		Name:      name,
		Token:     GenerateToken(),
		Gender:    gender,
		Community: community,
		Zone:      zone,
		Phone:     phone,
		Email:     email,
		HasVoted:  false,
		CreatedAt: time.Now(),
	}
}

// GenerateToken issues a new delegate credential of the form INC-1-XXXXXXXXXXXX
func GenerateToken() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a UUID
		return TokenPrefix + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
	}
	return TokenPrefix + strings.ToUpper(hex.EncodeToString(buf))
}

// Validate checks if the delegate data is valid
func (d *Delegate) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(d.Zone) == "" {
		return fmt.Errorf("zone is required")
	}
	if d.Token == "" {
		return fmt.Errorf("token is required")
	}
	return nil
}

// MarkVoted flips the eligibility flag. The persistent check-and-set lives in
// the vote repository; this helper only mutates the in-memory struct.
func (d *Delegate) MarkVoted() {
	d.HasVoted = true
}
