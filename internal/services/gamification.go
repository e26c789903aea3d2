package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/repos"
	"github.com/plately/plately-backend/internal/types"
)

// GamificationService applies the post-completion side effects: streak,
// XP and level, badges, daily statistics, notifications. Everything here
// is best-effort: failures are logged and swallowed so the mission
// completion itself stays the source of truth.
type GamificationService interface {
	OnMissionCompleted(ctx context.Context, userID uuid.UUID, mission *types.Mission)
	Summary(ctx context.Context, userID uuid.UUID) (*GamificationSummary, error)
}

type GamificationSummary struct {
	XP            int                `json:"xp"`
	Level         int                `json:"level"`
	StreakCurrent int                `json:"streak_current"`
	StreakLongest int                `json:"streak_longest"`
	Badges        []*types.UserBadge `json:"badges"`
	TodayStat     *types.DailyStat   `json:"today_stat,omitempty"`
}

type gamificationService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	missionRepo repos.MissionRepo
	streakRepo  repos.UserStreakRepo
	badgeRepo   repos.BadgeRepo
	notifRepo   repos.NotificationRepo
	statRepo    repos.DailyStatRepo
	notifier    MissionNotifier
	clock       func() time.Time
}

func NewGamificationService(
	gdb *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	missionRepo repos.MissionRepo,
	streakRepo repos.UserStreakRepo,
	badgeRepo repos.BadgeRepo,
	notifRepo repos.NotificationRepo,
	statRepo repos.DailyStatRepo,
	notifier MissionNotifier,
) GamificationService {
	return &gamificationService{
		db:          gdb,
		log:         baseLog.With("service", "GamificationService"),
		userRepo:    userRepo,
		missionRepo: missionRepo,
		streakRepo:  streakRepo,
		badgeRepo:   badgeRepo,
		notifRepo:   notifRepo,
		statRepo:    statRepo,
		notifier:    notifier,
		clock:       time.Now,
	}
}

// LevelForXP maps total XP to a level. Reaching level n+1 costs
// 100*n more XP than level n, so the cumulative thresholds are
// 0, 100, 300, 600, 1000, ...
func LevelForXP(xp int) int {
	level := 1
	cost := 100
	remaining := xp
	for remaining >= cost {
		remaining -= cost
		level++
		cost += 100
	}
	return level
}

// NextStreak computes the streak row after a completion on day
// ("2006-01-02", UTC). Consecutive days extend the streak, a gap resets
// it to 1, and a second completion on the same day leaves it unchanged.
func NextStreak(prev *types.UserStreak, userID uuid.UUID, day string) (next *types.UserStreak, extended bool) {
	current := 1
	longest := 1
	if prev != nil {
		longest = prev.Longest
		switch prev.LastCompletedOn {
		case day:
			return prev, false
		case previousDay(day):
			current = prev.Current + 1
		}
	}
	if current > longest {
		longest = current
	}
	return &types.UserStreak{
		UserID:          userID,
		Current:         current,
		Longest:         longest,
		LastCompletedOn: day,
	}, true
}

func previousDay(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format("2006-01-02")
}

func (s *gamificationService) OnMissionCompleted(ctx context.Context, userID uuid.UUID, mission *types.Mission) {
	if userID == uuid.Nil || mission == nil {
		return
	}
	completedAt := s.clock().UTC()
	if mission.CompletedAt != nil {
		completedAt = mission.CompletedAt.UTC()
	}
	day := utcDate(completedAt)

	xp := 0
	if mission.Template != nil {
		xp = mission.Template.XPReward
	}

	var (
		user     *types.User
		leveled  bool
		streak   *types.UserStreak
		extended bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, leveled, err = s.awardXP(gctx, userID, xp)
		return err
	})
	g.Go(func() error {
		var err error
		streak, extended, err = s.updateStreak(gctx, userID, day)
		return err
	})
	g.Go(func() error {
		return s.recomputeDailyStats(gctx, userID, completedAt)
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("gamification side effect failed", "user_id", userID, "mission_id", mission.ID, "error", err)
	}

	unlocked := s.checkBadges(ctx, userID, user, streak)

	s.writeNotifications(ctx, userID, mission, xp, user, leveled, streak, extended, unlocked)

	if s.notifier != nil {
		s.notifier.MissionCompleted(userID, mission, xp)
		if extended && streak != nil {
			s.notifier.StreakExtended(userID, streak.Current, streak.Longest)
		}
		if leveled && user != nil {
			s.notifier.LevelUp(userID, user.Level)
		}
		for _, b := range unlocked {
			s.notifier.BadgeUnlocked(userID, b)
		}
	}
}

func (s *gamificationService) awardXP(ctx context.Context, userID uuid.UUID, xp int) (*types.User, bool, error) {
	user, err := s.userRepo.AddXP(ctx, nil, userID, xp)
	if err != nil {
		return nil, false, fmt.Errorf("award xp: %w", err)
	}
	if user == nil {
		return nil, false, nil
	}
	newLevel := LevelForXP(user.XP)
	if newLevel <= user.Level {
		return user, false, nil
	}
	if err := s.userRepo.UpdateFields(ctx, nil, userID, map[string]interface{}{"level": newLevel}); err != nil {
		return user, false, fmt.Errorf("update level: %w", err)
	}
	user.Level = newLevel
	return user, true, nil
}

func (s *gamificationService) updateStreak(ctx context.Context, userID uuid.UUID, day string) (*types.UserStreak, bool, error) {
	prev, err := s.streakRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, false, fmt.Errorf("load streak: %w", err)
	}
	next, extended := NextStreak(prev, userID, day)
	if !extended {
		return next, false, nil
	}
	if err := s.streakRepo.Upsert(ctx, nil, next); err != nil {
		return nil, false, fmt.Errorf("save streak: %w", err)
	}
	return next, true, nil
}

func (s *gamificationService) recomputeDailyStats(ctx context.Context, userID uuid.UUID, completedAt time.Time) error {
	start, end := utcDayWindow(completedAt)
	completed, err := s.missionRepo.GetCompletedInWindow(ctx, nil, userID, start, end)
	if err != nil {
		return fmt.Errorf("load completions: %w", err)
	}
	xpTotal := 0
	for _, m := range completed {
		if m.Template != nil {
			xpTotal += m.Template.XPReward
		}
	}
	stat := &types.DailyStat{
		ID:                uuid.New(),
		UserID:            userID,
		Day:               utcDate(completedAt),
		MissionsCompleted: len(completed),
		XPEarned:          xpTotal,
	}
	if err := s.statRepo.Upsert(ctx, nil, stat); err != nil {
		return fmt.Errorf("save daily stat: %w", err)
	}
	return nil
}

func (s *gamificationService) checkBadges(ctx context.Context, userID uuid.UUID, user *types.User, streak *types.UserStreak) []*types.Badge {
	badges, err := s.badgeRepo.GetAll(ctx, nil)
	if err != nil {
		s.log.Warn("badge catalog load failed", "user_id", userID, "error", err)
		return nil
	}
	if len(badges) == 0 {
		return nil
	}
	ownedIDs, err := s.badgeRepo.BadgeIDsByUser(ctx, nil, userID)
	if err != nil {
		s.log.Warn("owned badge load failed", "user_id", userID, "error", err)
		return nil
	}
	owned := toIDSet(ownedIDs)

	totalCompleted, err := s.missionRepo.CountCompletedByUser(ctx, nil, userID)
	if err != nil {
		s.log.Warn("completed mission count failed", "user_id", userID, "error", err)
		return nil
	}

	now := s.clock().UTC()
	var newly []*types.Badge
	var rows []*types.UserBadge
	for _, b := range badges {
		if owned[b.ID] {
			continue
		}
		met := false
		switch b.Kind {
		case types.BadgeKindMissionsCompleted:
			met = totalCompleted >= int64(b.Threshold)
		case types.BadgeKindStreak:
			met = streak != nil && streak.Current >= b.Threshold
		case types.BadgeKindLevel:
			met = user != nil && user.Level >= b.Threshold
		}
		if !met {
			continue
		}
		newly = append(newly, b)
		rows = append(rows, &types.UserBadge{
			ID:         uuid.New(),
			UserID:     userID,
			BadgeID:    b.ID,
			UnlockedAt: now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := s.badgeRepo.UnlockIgnoreDuplicates(ctx, nil, rows); err != nil {
		s.log.Warn("badge unlock failed", "user_id", userID, "error", err)
		return nil
	}
	return newly
}

func (s *gamificationService) writeNotifications(
	ctx context.Context,
	userID uuid.UUID,
	mission *types.Mission,
	xp int,
	user *types.User,
	leveled bool,
	streak *types.UserStreak,
	extended bool,
	unlocked []*types.Badge,
) {
	now := s.clock().UTC()
	var rows []*types.Notification

	title := "Mission accomplie"
	if mission.Template != nil && mission.Template.Title != "" {
		title = mission.Template.Title
	}
	rows = append(rows, &types.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   types.NotificationMissionCompleted,
		Title:  title,
		Body:   fmt.Sprintf("+%d XP", xp),
		Data:   mustJSON(map[string]any{"mission_id": mission.ID, "xp": xp}),
	})
	if extended && streak != nil {
		rows = append(rows, &types.Notification{
			ID:     uuid.New(),
			UserID: userID,
			Kind:   types.NotificationStreakExtended,
			Title:  fmt.Sprintf("Série de %d jours", streak.Current),
			Data:   mustJSON(map[string]any{"current": streak.Current, "longest": streak.Longest}),
		})
	}
	if leveled && user != nil {
		rows = append(rows, &types.Notification{
			ID:     uuid.New(),
			UserID: userID,
			Kind:   types.NotificationLevelUp,
			Title:  fmt.Sprintf("Niveau %d atteint", user.Level),
			Data:   mustJSON(map[string]any{"level": user.Level}),
		})
	}
	for _, b := range unlocked {
		rows = append(rows, &types.Notification{
			ID:     uuid.New(),
			UserID: userID,
			Kind:   types.NotificationBadgeUnlocked,
			Title:  b.Name,
			Data:   mustJSON(map[string]any{"badge_id": b.ID, "slug": b.Slug}),
		})
	}
	for _, r := range rows {
		r.CreatedAt = now
		r.UpdatedAt = now
	}
	if _, err := s.notifRepo.Create(ctx, nil, rows); err != nil {
		s.log.Warn("notification write failed", "user_id", userID, "error", err)
	}
}

func (s *gamificationService) Summary(ctx context.Context, userID uuid.UUID) (*GamificationSummary, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user not found")
	}
	user := users[0]

	streak, err := s.streakRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.badgeRepo.GetUnlockedByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	today, err := s.statRepo.GetByUserAndDay(ctx, nil, userID, utcDate(s.clock()))
	if err != nil {
		return nil, err
	}

	summary := &GamificationSummary{
		XP:     user.XP,
		Level:  user.Level,
		Badges: badges,
	}
	if streak != nil {
		summary.StreakCurrent = streak.Current
		summary.StreakLongest = streak.Longest
	}
	summary.TodayStat = today
	return summary, nil
}

func mustJSON(v map[string]any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(b)
}
