package event

import "github.com/milk9111/scrollbrawl/prefabs"

// Topic identifies one of the closed set of bus topics.
type Topic uint8

const (
	TopicEnemyDefeated Topic = iota + 1
	TopicLevelCompleted
	TopicPlayerDied
	TopicPlayerDamaged
)

func (t Topic) String() string {
	switch t {
	case TopicEnemyDefeated:
		return "enemy_defeated"
	case TopicLevelCompleted:
		return "level_completed"
	case TopicPlayerDied:
		return "player_died"
	case TopicPlayerDamaged:
		return "player_damaged"
	default:
		return "unknown"
	}
}

// Event is implemented by every payload that can travel on the bus.
type Event interface {
	Topic() Topic
}

// EnemyDefeated is published once per accepted enemy death.
type EnemyDefeated struct {
	Enemy *prefabs.EnemySpec
}

func (EnemyDefeated) Topic() Topic { return TopicEnemyDefeated }

// LevelCompleted is published when the scheduler reaches its Complete phase.
type LevelCompleted struct {
	LevelID string
}

func (LevelCompleted) Topic() Topic { return TopicLevelCompleted }

type PlayerDied struct{}

func (PlayerDied) Topic() Topic { return TopicPlayerDied }

// PlayerDamaged carries the applied damage and the health left afterwards.
type PlayerDamaged struct {
	Amount    float64
	Remaining float64
}

func (PlayerDamaged) Topic() Topic { return TopicPlayerDamaged }
