package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/types"
)

// SeedUser inserts a user with a unique email.
func SeedUser(t *testing.T, tx *gorm.DB) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		FirstName: "Test",
		LastName:  "User",
		Email:     "user-" + uuid.NewString() + "@example.com",
		Password:  "not-a-real-hash",
		Level:     1,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedStrategy inserts a strategy with a unique name.
func SeedStrategy(t *testing.T, tx *gorm.DB) *types.Strategy {
	t.Helper()
	strategy := &types.Strategy{
		ID:   uuid.New(),
		Name: "strategy-" + uuid.NewString(),
	}
	if err := tx.Create(strategy).Error; err != nil {
		t.Fatalf("seed strategy: %v", err)
	}
	return strategy
}

// SeedRestaurant attaches a restaurant with the given rhythm and strategy
// to the user.
func SeedRestaurant(t *testing.T, tx *gorm.DB, userID uuid.UUID, strategyID *uuid.UUID, rhythm string) *types.Restaurant {
	t.Helper()
	restaurant := &types.Restaurant{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              "Chez Test",
		StrategyID:        strategyID,
		PublicationRhythm: rhythm,
	}
	if err := tx.Create(restaurant).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return restaurant
}

// SeedTemplate inserts one active mission template.
func SeedTemplate(t *testing.T, tx *gorm.DB, strategyID uuid.UUID, tplType string, xp int) *types.MissionTemplate {
	t.Helper()
	tpl := &types.MissionTemplate{
		ID:         uuid.New(),
		StrategyID: strategyID,
		Type:       tplType,
		Title:      tplType + " " + uuid.NewString()[:8],
		IsActive:   true,
		XPReward:   xp,
	}
	if err := tx.Create(tpl).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	return tpl
}

// SeedTutorial inserts a tutorial.
func SeedTutorial(t *testing.T, tx *gorm.DB, position int) *types.Tutorial {
	t.Helper()
	tutorial := &types.Tutorial{
		ID:       uuid.New(),
		Title:    "tutorial-" + uuid.NewString()[:8],
		Position: position,
	}
	if err := tx.Create(tutorial).Error; err != nil {
		t.Fatalf("seed tutorial: %v", err)
	}
	return tutorial
}
