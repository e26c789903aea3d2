package types

import (
	"time"

	"github.com/google/uuid"
)

// UserStreak tracks consecutive UTC days with at least one completed
// mission. LastCompletedOn holds a "2006-01-02" UTC date.
type UserStreak struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Current         int       `gorm:"not null;default:0" json:"current"`
	Longest         int       `gorm:"not null;default:0" json:"longest"`
	LastCompletedOn string    `gorm:"not null;default:''" json:"last_completed_on"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserStreak) TableName() string { return "user_streak" }
