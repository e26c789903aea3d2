package types

import (
	"time"

	"github.com/google/uuid"
)

// Badge criteria kinds.
const (
	BadgeKindMissionsCompleted = "missions_completed"
	BadgeKindStreak            = "streak"
	BadgeKindLevel             = "level"
)

type Badge struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"not null" json:"name"`
	Kind      string    `gorm:"not null" json:"kind"`
	Threshold int       `gorm:"not null" json:"threshold"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Badge) TableName() string { return "badge" }

type UserBadge struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_user_badge,unique" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	BadgeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_badge,unique" json:"badge_id"`
	Badge      *Badge    `gorm:"constraint:OnDelete:CASCADE;foreignKey:BadgeID;references:ID" json:"badge,omitempty"`
	UnlockedAt time.Time `gorm:"not null;default:now()" json:"unlocked_at"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserBadge) TableName() string { return "user_badge" }
