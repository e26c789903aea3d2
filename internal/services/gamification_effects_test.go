package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plately/plately-backend/internal/types"
)

type fakeUserRepo struct {
	mu   sync.Mutex
	user *types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.User) ([]*types.User, error) {
	if len(rows) > 0 {
		f.user = rows[0]
	}
	return rows, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if f.user != nil && f.user.ID == id {
			return []*types.User{f.user}, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) AddXP(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil || f.user.ID != id {
		return nil, nil
	}
	f.user.XP += delta
	copied := *f.user
	return &copied, nil
}

func (f *fakeUserRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil || f.user.ID != id {
		return nil
	}
	if level, ok := updates["level"].(int); ok {
		f.user.Level = level
	}
	return nil
}

type fakeStreakRepo struct {
	mu     sync.Mutex
	streak *types.UserStreak
}

func (f *fakeStreakRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStreak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.streak != nil && f.streak.UserID == userID {
		copied := *f.streak
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStreakRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.UserStreak) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streak = row
	return nil
}

type fakeBadgeRepo struct {
	mu       sync.Mutex
	badges   []*types.Badge
	unlocked []*types.UserBadge
}

func (f *fakeBadgeRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Badge, error) {
	return f.badges, nil
}

func (f *fakeBadgeRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Badge) error {
	f.badges = append(f.badges, row)
	return nil
}

func (f *fakeBadgeRepo) BadgeIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for _, ub := range f.unlocked {
		if ub.UserID == userID {
			ids = append(ids, ub.BadgeID)
		}
	}
	return ids, nil
}

func (f *fakeBadgeRepo) GetUnlockedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.UserBadge
	for _, ub := range f.unlocked {
		if ub.UserID == userID {
			out = append(out, ub)
		}
	}
	return out, nil
}

func (f *fakeBadgeRepo) UnlockIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.UserBadge) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inserted := 0
	for _, row := range rows {
		dup := false
		for _, ub := range f.unlocked {
			if ub.UserID == row.UserID && ub.BadgeID == row.BadgeID {
				dup = true
				break
			}
		}
		if !dup {
			f.unlocked = append(f.unlocked, row)
			inserted++
		}
	}
	return inserted, nil
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	rows []*types.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Notification) ([]*types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeNotificationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID, readAt time.Time) (bool, error) {
	return false, nil
}

func (f *fakeNotificationRepo) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.rows))
	for _, n := range f.rows {
		out = append(out, n.Kind)
	}
	return out
}

type fakeDailyStatRepo struct {
	mu    sync.Mutex
	stats map[string]*types.DailyStat
}

func (f *fakeDailyStatRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DailyStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stats == nil {
		f.stats = map[string]*types.DailyStat{}
	}
	f.stats[row.Day] = row
	return nil
}

func (f *fakeDailyStatRepo) GetByUserAndDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day string) (*types.DailyStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats[day], nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) record(ev string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeNotifier) MissionsAssigned(userID uuid.UUID, missions []*types.Mission) {
	f.record("missions.assigned")
}
func (f *fakeNotifier) MissionCompleted(userID uuid.UUID, mission *types.Mission, xpAwarded int) {
	f.record("mission.completed")
}
func (f *fakeNotifier) StreakExtended(userID uuid.UUID, current, longest int) {
	f.record("streak.extended")
}
func (f *fakeNotifier) BadgeUnlocked(userID uuid.UUID, badge *types.Badge) {
	f.record("badge.unlocked")
}
func (f *fakeNotifier) LevelUp(userID uuid.UUID, level int) {
	f.record("level.up")
}

type gamificationFixture struct {
	svc      *gamificationService
	users    *fakeUserRepo
	missions *fakeMissionRepo
	streaks  *fakeStreakRepo
	badges   *fakeBadgeRepo
	notifs   *fakeNotificationRepo
	stats    *fakeDailyStatRepo
	bus      *fakeNotifier
	userID   uuid.UUID
}

func newGamificationFixture(t *testing.T, now time.Time) *gamificationFixture {
	t.Helper()
	userID := uuid.New()
	f := &gamificationFixture{
		users:    &fakeUserRepo{user: &types.User{ID: userID, Level: 1}},
		missions: newFakeMissionRepo(),
		streaks:  &fakeStreakRepo{},
		badges:   &fakeBadgeRepo{},
		notifs:   &fakeNotificationRepo{},
		stats:    &fakeDailyStatRepo{},
		bus:      &fakeNotifier{},
		userID:   userID,
	}
	f.svc = &gamificationService{
		log:         testLogger(t),
		userRepo:    f.users,
		missionRepo: f.missions,
		streakRepo:  f.streaks,
		badgeRepo:   f.badges,
		notifRepo:   f.notifs,
		statRepo:    f.stats,
		notifier:    f.bus,
		clock:       func() time.Time { return now },
	}
	return f
}

func (f *gamificationFixture) completedMission(xp int, at time.Time) *types.Mission {
	tpl := &types.MissionTemplate{
		ID:       uuid.New(),
		Type:     types.TemplateTypePost,
		Title:    "Publiez une photo",
		XPReward: xp,
	}
	m := &types.Mission{
		ID:                uuid.New(),
		UserID:            f.userID,
		MissionTemplateID: tpl.ID,
		Template:          tpl,
		SlotNumber:        types.SlotPublication,
		Status:            types.MissionStatusCompleted,
		AssignedAt:        at,
		CompletedAt:       &at,
	}
	f.missions.missions = append(f.missions.missions, m)
	return m
}

func TestOnMissionCompletedAwardsXPAndStreak(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	f := newGamificationFixture(t, now)
	mission := f.completedMission(20, now)

	f.svc.OnMissionCompleted(context.Background(), f.userID, mission)

	if f.users.user.XP != 20 {
		t.Fatalf("xp = %d, want 20", f.users.user.XP)
	}
	if f.streaks.streak == nil || f.streaks.streak.Current != 1 {
		t.Fatalf("streak = %+v, want current 1", f.streaks.streak)
	}
	if f.streaks.streak.LastCompletedOn != "2026-03-02" {
		t.Fatalf("LastCompletedOn = %q", f.streaks.streak.LastCompletedOn)
	}
	stat := f.stats.stats["2026-03-02"]
	if stat == nil || stat.MissionsCompleted != 1 || stat.XPEarned != 20 {
		t.Fatalf("daily stat = %+v", stat)
	}
}

func TestOnMissionCompletedLevelsUp(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	f := newGamificationFixture(t, now)
	f.users.user.XP = 90 // 10 XP short of level 2
	mission := f.completedMission(20, now)

	f.svc.OnMissionCompleted(context.Background(), f.userID, mission)

	if f.users.user.Level != 2 {
		t.Fatalf("level = %d, want 2", f.users.user.Level)
	}

	sawLevelUp := false
	for _, ev := range f.bus.events {
		if ev == "level.up" {
			sawLevelUp = true
		}
	}
	if !sawLevelUp {
		t.Fatal("no level.up event published")
	}
	sawKind := false
	for _, k := range f.notifs.kinds() {
		if k == types.NotificationLevelUp {
			sawKind = true
		}
	}
	if !sawKind {
		t.Fatal("no level-up notification written")
	}
}

func TestOnMissionCompletedUnlocksBadgeOnce(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	f := newGamificationFixture(t, now)
	f.badges.badges = []*types.Badge{{
		ID:        uuid.New(),
		Slug:      "premiere-mission",
		Name:      "Première mission",
		Kind:      types.BadgeKindMissionsCompleted,
		Threshold: 1,
	}}
	mission := f.completedMission(20, now)

	f.svc.OnMissionCompleted(context.Background(), f.userID, mission)
	if len(f.badges.unlocked) != 1 {
		t.Fatalf("unlocked %d badges, want 1", len(f.badges.unlocked))
	}

	// A later completion must not unlock it again.
	second := f.completedMission(10, now.Add(time.Hour))
	f.svc.OnMissionCompleted(context.Background(), f.userID, second)
	if len(f.badges.unlocked) != 1 {
		t.Fatalf("badge unlocked %d times, want once", len(f.badges.unlocked))
	}
}

func TestOnMissionCompletedSameDayDoesNotExtendStreak(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	f := newGamificationFixture(t, now)
	f.streaks.streak = &types.UserStreak{
		ID:              uuid.New(),
		UserID:          f.userID,
		Current:         3,
		Longest:         5,
		LastCompletedOn: "2026-03-02",
	}
	mission := f.completedMission(20, now)

	f.svc.OnMissionCompleted(context.Background(), f.userID, mission)

	if f.streaks.streak.Current != 3 {
		t.Fatalf("same-day completion changed streak to %d", f.streaks.streak.Current)
	}
	for _, ev := range f.bus.events {
		if ev == "streak.extended" {
			t.Fatal("streak.extended published for a same-day completion")
		}
	}
}

func TestSummaryAggregates(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	f := newGamificationFixture(t, now)
	f.users.user.XP = 350
	f.users.user.Level = 3
	f.streaks.streak = &types.UserStreak{
		UserID:          f.userID,
		Current:         4,
		Longest:         9,
		LastCompletedOn: "2026-03-02",
	}
	f.stats.stats = map[string]*types.DailyStat{
		"2026-03-02": {UserID: f.userID, Day: "2026-03-02", MissionsCompleted: 2, XPEarned: 35},
	}

	summary, err := f.svc.Summary(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.XP != 350 || summary.Level != 3 {
		t.Fatalf("xp/level = %d/%d", summary.XP, summary.Level)
	}
	if summary.StreakCurrent != 4 || summary.StreakLongest != 9 {
		t.Fatalf("streak = %d/%d", summary.StreakCurrent, summary.StreakLongest)
	}
	if summary.TodayStat == nil || summary.TodayStat.MissionsCompleted != 2 {
		t.Fatalf("today stat = %+v", summary.TodayStat)
	}
}
