package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/plately/plately-backend/internal/realtime"
	"github.com/plately/plately-backend/internal/realtime/bus"
	"github.com/plately/plately-backend/internal/types"
)

// MissionNotifier pushes per-user events onto the realtime bus. Every
// method is fire-and-forget: publish failures are dropped silently because
// the bus is advisory, never authoritative.
type MissionNotifier interface {
	MissionsAssigned(userID uuid.UUID, missions []*types.Mission)
	MissionCompleted(userID uuid.UUID, mission *types.Mission, xpAwarded int)
	StreakExtended(userID uuid.UUID, current, longest int)
	BadgeUnlocked(userID uuid.UUID, badge *types.Badge)
	LevelUp(userID uuid.UUID, level int)
}

type missionNotifier struct {
	bus bus.Bus
}

func NewMissionNotifier(b bus.Bus) MissionNotifier {
	return &missionNotifier{bus: b}
}

func (n *missionNotifier) MissionsAssigned(userID uuid.UUID, missions []*types.Mission) {
	if n == nil || n.bus == nil || userID == uuid.Nil {
		return
	}
	_ = n.bus.Publish(context.Background(), realtime.Message{
		Channel: userID.String(),
		Event:   realtime.EventMissionsAssigned,
		Data:    map[string]any{"missions": missions},
	})
}

func (n *missionNotifier) MissionCompleted(userID uuid.UUID, mission *types.Mission, xpAwarded int) {
	if n == nil || n.bus == nil || userID == uuid.Nil {
		return
	}
	_ = n.bus.Publish(context.Background(), realtime.Message{
		Channel: userID.String(),
		Event:   realtime.EventMissionCompleted,
		Data: map[string]any{
			"mission_id": safeMissionID(mission),
			"mission":    mission,
			"xp_awarded": xpAwarded,
		},
	})
}

func (n *missionNotifier) StreakExtended(userID uuid.UUID, current, longest int) {
	if n == nil || n.bus == nil || userID == uuid.Nil {
		return
	}
	_ = n.bus.Publish(context.Background(), realtime.Message{
		Channel: userID.String(),
		Event:   realtime.EventStreakExtended,
		Data: map[string]any{
			"current": current,
			"longest": longest,
		},
	})
}

func (n *missionNotifier) BadgeUnlocked(userID uuid.UUID, badge *types.Badge) {
	if n == nil || n.bus == nil || userID == uuid.Nil || badge == nil {
		return
	}
	_ = n.bus.Publish(context.Background(), realtime.Message{
		Channel: userID.String(),
		Event:   realtime.EventBadgeUnlocked,
		Data: map[string]any{
			"badge_id": badge.ID,
			"slug":     badge.Slug,
			"name":     badge.Name,
		},
	})
}

func (n *missionNotifier) LevelUp(userID uuid.UUID, level int) {
	if n == nil || n.bus == nil || userID == uuid.Nil {
		return
	}
	_ = n.bus.Publish(context.Background(), realtime.Message{
		Channel: userID.String(),
		Event:   realtime.EventLevelUp,
		Data:    map[string]any{"level": level},
	})
}

func safeMissionID(m *types.Mission) uuid.UUID {
	if m == nil {
		return uuid.Nil
	}
	return m.ID
}
