package types

import (
	"time"

	"github.com/google/uuid"
)

// Mission statuses.
const (
	MissionStatusPending   = "pending"
	MissionStatusCompleted = "completed"
	MissionStatusSkipped   = "skipped"
)

// Mission slots. Slot 1 is the publication mission, slot 2 engagement,
// slot 3 tutorial-or-alternate.
const (
	SlotPublication = 1
	SlotEngagement  = 2
	SlotTutorial    = 3
)

// Mission is one daily assigned task instance. At most one row may exist
// per (user, UTC day, slot); the per-user advisory lock in MissionService
// enforces this at creation time, so there is deliberately no unique index
// (pre-existing duplicates are cleaned up, not rejected).
type Mission struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index:idx_mission_user_assigned" json:"user_id"`
	User              *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	MissionTemplateID uuid.UUID        `gorm:"type:uuid;not null;index" json:"mission_template_id"`
	Template          *MissionTemplate `gorm:"foreignKey:MissionTemplateID;references:ID" json:"template,omitempty"`
	SlotNumber        int              `gorm:"not null" json:"slot_number"`
	Status            string           `gorm:"not null;default:'pending';index" json:"status"`
	IsRecommended     bool             `gorm:"not null;default:false" json:"is_recommended"`
	AssignedAt        time.Time        `gorm:"not null;index:idx_mission_user_assigned" json:"assigned_at"`
	CompletedAt       *time.Time       `json:"completed_at,omitempty"`
	CreatedAt         time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (Mission) TableName() string { return "mission" }
