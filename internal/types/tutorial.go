package types

import (
	"time"

	"github.com/google/uuid"
)

type Tutorial struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Tutorial) TableName() string { return "tutorial" }

type TutorialCompletion struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_user_tutorial,unique" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TutorialID  uuid.UUID `gorm:"type:uuid;not null;index:idx_user_tutorial,unique" json:"tutorial_id"`
	Tutorial    *Tutorial `gorm:"constraint:OnDelete:CASCADE;foreignKey:TutorialID;references:ID" json:"tutorial,omitempty"`
	CompletedAt time.Time `gorm:"not null;default:now()" json:"completed_at"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (TutorialCompletion) TableName() string { return "tutorial_completion" }
