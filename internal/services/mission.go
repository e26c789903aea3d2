package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/db"
	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/repos"
	"github.com/plately/plately-backend/internal/types"
)

const missionLockNamespace = "mission_assign"

var (
	ErrMissionNotFound         = errors.New("mission not found")
	ErrMissionAlreadyProcessed = errors.New("mission already processed")
)

// MissionCompletion reports the outcome of a completion attempt. Completed
// is false for the tutorial path when no matching pending mission existed.
type MissionCompletion struct {
	Completed bool           `json:"completed"`
	Mission   *types.Mission `json:"mission,omitempty"`
	XPAwarded int            `json:"xp_awarded"`
}

type MissionService interface {
	GetTodayMissions(ctx context.Context, userID uuid.UUID) ([]*types.Mission, error)
	CompleteMission(ctx context.Context, missionID, userID uuid.UUID) (*MissionCompletion, error)
	CompleteTutoMission(ctx context.Context, userID, tutorialID uuid.UUID) (*MissionCompletion, error)
}

type missionService struct {
	db           *gorm.DB
	log          *logger.Logger
	missionRepo  repos.MissionRepo
	templateRepo repos.MissionTemplateRepo
	restRepo     repos.RestaurantRepo
	tutoRepo     repos.TutorialCompletionRepo
	gamification GamificationService
	notifier     MissionNotifier

	lockTimeoutMillis int

	clock func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewMissionService(
	gdb *gorm.DB,
	baseLog *logger.Logger,
	missionRepo repos.MissionRepo,
	templateRepo repos.MissionTemplateRepo,
	restRepo repos.RestaurantRepo,
	tutoRepo repos.TutorialCompletionRepo,
	gamification GamificationService,
	notifier MissionNotifier,
	lockTimeoutMillis int,
) MissionService {
	return &missionService{
		db:                gdb,
		log:               baseLog.With("service", "MissionService"),
		missionRepo:       missionRepo,
		templateRepo:      templateRepo,
		restRepo:          restRepo,
		tutoRepo:          tutoRepo,
		gamification:      gamification,
		notifier:          notifier,
		lockTimeoutMillis: lockTimeoutMillis,
		clock:             time.Now,
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetTodayMissions returns the user's missions for the current UTC day,
// creating them if absent. Creation is serialized per user by a
// transaction-scoped advisory lock; the re-check under the lock makes the
// operation idempotent even when two requests race past the fast path.
func (s *missionService) GetTodayMissions(ctx context.Context, userID uuid.UUID) ([]*types.Mission, error) {
	if userID == uuid.Nil {
		return []*types.Mission{}, nil
	}
	now := s.clock()
	start, end := utcDayWindow(now)

	// Fast path: no lock.
	existing, err := s.missionRepo.GetByUserAndWindow(ctx, nil, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return s.dedupe(ctx, userID, existing), nil
	}

	var result []*types.Mission
	var createdNew bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if lockErr := db.AdvisoryXactLock(tx, missionLockNamespace, userID, s.lockTimeoutMillis); lockErr != nil {
			return lockErr
		}
		// A concurrent transaction may have committed while we waited.
		rows, reErr := s.missionRepo.GetByUserAndWindow(ctx, tx, userID, start, end)
		if reErr != nil {
			return reErr
		}
		if len(rows) > 0 {
			result = rows
			return nil
		}
		created, aErr := s.assignMissions(ctx, tx, userID, now)
		if aErr != nil {
			return aErr
		}
		result = created
		createdNew = len(created) > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	if createdNew && s.notifier != nil {
		s.notifier.MissionsAssigned(userID, result)
	}
	return result, nil
}

type slotSpec struct {
	number      int
	recommended bool
	// candidate type groups in preference order; within a group the pick
	// is uniform random.
	groups [][]string
}

// assignMissions runs the per-day selection once, under the advisory lock.
func (s *missionService) assignMissions(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]*types.Mission, error) {
	restaurant, err := s.restRepo.GetByUserID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil || restaurant.StrategyID == nil {
		s.log.Debug("no strategy configured, skipping assignment", "user_id", userID)
		return []*types.Mission{}, nil
	}
	strategyID := *restaurant.StrategyID

	completedTemplates, err := s.missionRepo.CompletedTemplateIDs(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	completedTutorials, err := s.tutoRepo.TutorialIDsByUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	completedTemplateSet := toIDSet(completedTemplates)
	completedTutorialSet := toIDSet(completedTutorials)

	pub := IsPublicationDay(restaurant.PublicationRhythm, now)
	slots := []slotSpec{
		{
			number:      types.SlotPublication,
			recommended: pub,
			groups:      [][]string{{types.TemplateTypePost, types.TemplateTypeStory, types.TemplateTypeReel}},
		},
		{
			number:      types.SlotEngagement,
			recommended: !pub,
			groups:      [][]string{{types.TemplateTypeEngagement}},
		},
		{
			number:      types.SlotTutorial,
			recommended: false,
			groups: [][]string{
				{types.TemplateTypeTuto},
				{types.TemplateTypePost, types.TemplateTypeStory, types.TemplateTypeReel},
			},
		},
	}

	usedTypes := map[string]bool{}
	usedTemplates := map[uuid.UUID]bool{}
	rows := make([]*types.Mission, 0, len(slots))

	for _, slot := range slots {
		tpl, pickErr := s.pickTemplate(ctx, tx, strategyID, slot.groups, usedTypes, usedTemplates, completedTemplateSet, completedTutorialSet)
		if pickErr != nil {
			return nil, pickErr
		}
		if tpl == nil {
			s.log.Debug("no eligible template, slot skipped", "user_id", userID, "slot", slot.number)
			continue
		}
		usedTypes[tpl.Type] = true
		usedTemplates[tpl.ID] = true
		rows = append(rows, &types.Mission{
			ID:                uuid.New(),
			UserID:            userID,
			MissionTemplateID: tpl.ID,
			Template:          tpl,
			SlotNumber:        slot.number,
			Status:            types.MissionStatusPending,
			IsRecommended:     slot.recommended,
			AssignedAt:        now.UTC(),
		})
	}

	if len(rows) == 0 {
		return []*types.Mission{}, nil
	}
	created, err := s.missionRepo.Create(ctx, tx, rows)
	if err != nil {
		return nil, err
	}
	s.log.Info("daily missions assigned", "user_id", userID, "count", len(created))
	return created, nil
}

// pickTemplate selects one template for a slot. Groups are tried in
// preference order; within a group, templates the user never completed win
// over repeats, and repeats across days are allowed only when the catalog
// is exhausted. A template already used earlier in this run is never
// picked again, and neither is a type consumed by an earlier slot.
func (s *missionService) pickTemplate(
	ctx context.Context,
	tx *gorm.DB,
	strategyID uuid.UUID,
	groups [][]string,
	usedTypes map[string]bool,
	usedTemplates map[uuid.UUID]bool,
	completedTemplates map[uuid.UUID]bool,
	completedTutorials map[uuid.UUID]bool,
) (*types.MissionTemplate, error) {
	for _, group := range groups {
		candidateTypes := make([]string, 0, len(group))
		for _, t := range group {
			if !usedTypes[t] {
				candidateTypes = append(candidateTypes, t)
			}
		}
		if len(candidateTypes) == 0 {
			continue
		}

		templates, err := s.templateRepo.GetActiveByStrategyAndTypes(ctx, tx, strategyID, candidateTypes)
		if err != nil {
			return nil, err
		}

		eligible := make([]*types.MissionTemplate, 0, len(templates))
		fresh := make([]*types.MissionTemplate, 0, len(templates))
		for _, tpl := range templates {
			if usedTemplates[tpl.ID] {
				continue
			}
			if tpl.RequiredTutorialID != nil && !completedTutorials[*tpl.RequiredTutorialID] {
				continue
			}
			eligible = append(eligible, tpl)
			if !completedTemplates[tpl.ID] {
				fresh = append(fresh, tpl)
			}
		}

		if len(fresh) > 0 {
			return fresh[s.randIntn(len(fresh))], nil
		}
		if len(eligible) > 0 {
			return eligible[s.randIntn(len(eligible))], nil
		}
	}
	return nil, nil
}

// dedupe keeps the oldest row per slot and cleans extras up in the
// background; the caller is never blocked on the cleanup.
func (s *missionService) dedupe(ctx context.Context, userID uuid.UUID, rows []*types.Mission) []*types.Mission {
	seen := map[int]bool{}
	kept := make([]*types.Mission, 0, len(rows))
	var extras []uuid.UUID
	// rows arrive ordered by slot_number, id: the first row per slot is
	// the oldest one.
	for _, m := range rows {
		if seen[m.SlotNumber] {
			extras = append(extras, m.ID)
			continue
		}
		seen[m.SlotNumber] = true
		kept = append(kept, m)
	}
	if len(extras) == 0 {
		return kept
	}

	s.log.Warn("duplicate mission rows detected, scheduling cleanup", "user_id", userID, "extra_count", len(extras))
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	go func() {
		defer cancel()
		if err := s.missionRepo.FullDeleteByIDs(cleanupCtx, nil, extras); err != nil {
			s.log.Error("duplicate mission cleanup failed", "user_id", userID, "error", err)
		}
	}()
	return kept
}

// CompleteMission transitions a pending mission to completed exactly once.
// Gamification side effects run best-effort after the write and never
// affect the returned result.
func (s *missionService) CompleteMission(ctx context.Context, missionID, userID uuid.UUID) (*MissionCompletion, error) {
	now := s.clock().UTC()

	ok, err := s.missionRepo.CompletePending(ctx, nil, missionID, userID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		existing, gErr := s.missionRepo.GetByIDForUser(ctx, nil, missionID, userID)
		if gErr != nil {
			return nil, gErr
		}
		if existing == nil {
			return nil, ErrMissionNotFound
		}
		return nil, ErrMissionAlreadyProcessed
	}

	mission, err := s.missionRepo.GetByIDForUser(ctx, nil, missionID, userID)
	if err != nil {
		s.log.Warn("completed mission reload failed", "mission_id", missionID, "error", err)
	}

	xp := 0
	if mission != nil && mission.Template != nil {
		xp = mission.Template.XPReward
	}
	if s.gamification != nil && mission != nil {
		s.gamification.OnMissionCompleted(context.WithoutCancel(ctx), userID, mission)
	}

	return &MissionCompletion{Completed: true, Mission: mission, XPAwarded: xp}, nil
}

// CompleteTutoMission completes today's pending tuto mission linked to the
// given tutorial, if one exists. Finishing a tutorial elsewhere in the
// product calls this; a missing mission is a quiet no-op, not an error.
func (s *missionService) CompleteTutoMission(ctx context.Context, userID, tutorialID uuid.UUID) (*MissionCompletion, error) {
	now := s.clock()
	start, end := utcDayWindow(now)

	mission, err := s.missionRepo.GetPendingTutoInWindow(ctx, nil, userID, tutorialID, start, end)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return &MissionCompletion{Completed: false}, nil
	}

	ok, err := s.missionRepo.CompletePending(ctx, nil, mission.ID, userID, now.UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with a direct completion; nothing left to do.
		return &MissionCompletion{Completed: false}, nil
	}

	completed, err := s.missionRepo.GetByIDForUser(ctx, nil, mission.ID, userID)
	if err != nil {
		s.log.Warn("completed tuto mission reload failed", "mission_id", mission.ID, "error", err)
		completed = mission
	}

	xp := 0
	if completed != nil && completed.Template != nil {
		xp = completed.Template.XPReward
	}
	if s.gamification != nil && completed != nil {
		s.gamification.OnMissionCompleted(context.WithoutCancel(ctx), userID, completed)
	}

	return &MissionCompletion{Completed: true, Mission: completed, XPAwarded: xp}, nil
}

func (s *missionService) randIntn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

func toIDSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
