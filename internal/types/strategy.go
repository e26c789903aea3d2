package types

import (
	"time"

	"github.com/google/uuid"
)

// Strategy is a restaurant's content plan. Templates are scoped to one.
type Strategy struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Strategy) TableName() string { return "strategy" }
