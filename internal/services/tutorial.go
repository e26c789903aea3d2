package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/repos"
	"github.com/plately/plately-backend/internal/types"
)

type TutorialService interface {
	// CompleteTutorial records the completion (idempotently) and silently
	// completes today's matching tuto mission when one is pending.
	CompleteTutorial(ctx context.Context, userID, tutorialID uuid.UUID) (*MissionCompletion, error)
}

type tutorialService struct {
	db             *gorm.DB
	log            *logger.Logger
	tutoRepo       repos.TutorialCompletionRepo
	missionService MissionService
	clock          func() time.Time
}

func NewTutorialService(gdb *gorm.DB, baseLog *logger.Logger, tutoRepo repos.TutorialCompletionRepo, missionService MissionService) TutorialService {
	return &tutorialService{
		db:             gdb,
		log:            baseLog.With("service", "TutorialService"),
		tutoRepo:       tutoRepo,
		missionService: missionService,
		clock:          time.Now,
	}
}

func (s *tutorialService) CompleteTutorial(ctx context.Context, userID, tutorialID uuid.UUID) (*MissionCompletion, error) {
	if userID == uuid.Nil || tutorialID == uuid.Nil {
		return &MissionCompletion{Completed: false}, nil
	}

	now := s.clock().UTC()
	if _, err := s.tutoRepo.CreateIgnoreDuplicates(ctx, nil, []*types.TutorialCompletion{{
		ID:          uuid.New(),
		UserID:      userID,
		TutorialID:  tutorialID,
		CompletedAt: now,
	}}); err != nil {
		return nil, err
	}

	result, err := s.missionService.CompleteTutoMission(ctx, userID, tutorialID)
	if err != nil {
		// The tutorial completion itself is recorded; the mission slot is
		// a bonus, so don't fail the call over it.
		s.log.Warn("tuto mission completion failed", "user_id", userID, "tutorial_id", tutorialID, "error", err)
		return &MissionCompletion{Completed: false}, nil
	}
	return result, nil
}
