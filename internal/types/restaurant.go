package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Publication rhythms determine which calendar days count as publication days.
const (
	RhythmDaily     = "daily"
	RhythmFiveWeek  = "five_week"
	RhythmThreeWeek = "three_week"
	RhythmOnceWeek  = "once_week"
)

type Restaurant struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User              *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name              string         `gorm:"not null" json:"name"`
	StrategyID        *uuid.UUID     `gorm:"type:uuid;index" json:"strategy_id,omitempty"`
	Strategy          *Strategy      `gorm:"foreignKey:StrategyID;references:ID" json:"strategy,omitempty"`
	PublicationRhythm string         `gorm:"not null;default:'daily'" json:"publication_rhythm"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Restaurant) TableName() string { return "restaurant" }
