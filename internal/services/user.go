package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/repos"
	"github.com/plately/plately-backend/internal/types"
)

type UserProfile struct {
	User       *types.User       `json:"user"`
	Restaurant *types.Restaurant `json:"restaurant,omitempty"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	UpdateRhythm(ctx context.Context, userID uuid.UUID, rhythm string) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	restRepo repos.RestaurantRepo
}

func NewUserService(gdb *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, restRepo repos.RestaurantRepo) UserService {
	return &userService{
		db:       gdb,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
		restRepo: restRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user not found")
	}
	restaurant, err := s.restRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{User: users[0], Restaurant: restaurant}, nil
}

func (s *userService) UpdateRhythm(ctx context.Context, userID uuid.UUID, rhythm string) error {
	switch rhythm {
	case types.RhythmDaily, types.RhythmFiveWeek, types.RhythmThreeWeek, types.RhythmOnceWeek:
	default:
		return fmt.Errorf("unknown publication rhythm %q", rhythm)
	}
	restaurant, err := s.restRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return err
	}
	if restaurant == nil {
		return fmt.Errorf("no restaurant configured")
	}
	return s.restRepo.UpdateFields(ctx, nil, restaurant.ID, map[string]interface{}{"publication_rhythm": rhythm})
}
