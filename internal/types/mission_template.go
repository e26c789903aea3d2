package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mission template types.
const (
	TemplateTypePost       = "post"
	TemplateTypeStory      = "story"
	TemplateTypeReel       = "reel"
	TemplateTypeTuto       = "tuto"
	TemplateTypeEngagement = "engagement"
)

// MissionTemplate is a reusable task definition. RequiredTutorialID gates
// eligibility (the user must have finished that tutorial); TutorialID is set
// on tuto templates and names the tutorial the mission asks the user to do.
type MissionTemplate struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StrategyID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"strategy_id"`
	Strategy           *Strategy      `gorm:"constraint:OnDelete:CASCADE;foreignKey:StrategyID;references:ID" json:"strategy,omitempty"`
	Type               string         `gorm:"not null;index" json:"type"`
	Title              string         `gorm:"not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	IsActive           bool           `gorm:"not null;default:true;index" json:"is_active"`
	RequiredTutorialID *uuid.UUID     `gorm:"type:uuid" json:"required_tutorial_id,omitempty"`
	RequiredTutorial   *Tutorial      `gorm:"foreignKey:RequiredTutorialID;references:ID" json:"required_tutorial,omitempty"`
	TutorialID         *uuid.UUID     `gorm:"type:uuid;index" json:"tutorial_id,omitempty"`
	Tutorial           *Tutorial      `gorm:"foreignKey:TutorialID;references:ID" json:"tutorial,omitempty"`
	XPReward           int            `gorm:"column:xp_reward;not null;default:10" json:"xp_reward"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MissionTemplate) TableName() string { return "mission_template" }
