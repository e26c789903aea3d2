package realtime

// Event names published on the per-user channel.
const (
	EventMissionsAssigned = "missions.assigned"
	EventMissionCompleted = "mission.completed"
	EventStreakExtended   = "streak.extended"
	EventBadgeUnlocked    = "badge.unlocked"
	EventLevelUp          = "level.up"
)

// Message is the JSON envelope carried over the bus. Channel is the
// recipient user id.
type Message struct {
	Channel string         `json:"channel"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data,omitempty"`
}
