package spawn

// Phase is where a level run currently is.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseBossActive
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseBossActive:
		return "boss_active"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}
