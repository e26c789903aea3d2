package types

import (
	"time"

	"github.com/google/uuid"
)

// DailyStat aggregates one user's completions for one UTC day
// (Day holds a "2006-01-02" date).
type DailyStat struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index:idx_user_day,unique" json:"user_id"`
	User              *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Day               string    `gorm:"not null;index:idx_user_day,unique" json:"day"`
	MissionsCompleted int       `gorm:"not null;default:0" json:"missions_completed"`
	XPEarned          int       `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	CreatedAt         time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DailyStat) TableName() string { return "daily_stat" }
