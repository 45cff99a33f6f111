package spawn

import "time"

// DefaultBossGrace is how long after a boss appears scrolling stops.
const DefaultBossGrace = 2 * time.Second

type Option func(*Scheduler)

// WithGroundY sets the height ground enemies spawn at and the bottom of the
// aerial band.
func WithGroundY(y float64) Option {
	return func(s *Scheduler) { s.groundY = y }
}

// WithTopY sets the top of the aerial spawn band.
func WithTopY(y float64) Option {
	return func(s *Scheduler) { s.topY = y }
}

// WithSpawnX sets the x every enemy appears at.
func WithSpawnX(x float64) Option {
	return func(s *Scheduler) { s.spawnX = x }
}

func WithBossGrace(d time.Duration) Option {
	return func(s *Scheduler) {
		if d < 0 {
			d = 0
		}
		s.bossGrace = d
	}
}
