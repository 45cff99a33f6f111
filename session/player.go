package session

import (
	"time"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/scrollbrawl/config"
	"github.com/milk9111/scrollbrawl/event"
)

// Player is the stationary hero enemies walk into.
type Player struct {
	cfg config.PlayerConfig
	bus *event.Bus

	hp         float64
	invulnLeft time.Duration
	dead       bool
}

func NewPlayer(cfg config.PlayerConfig, bus *event.Bus) *Player {
	if cfg.MaxHP <= 0 {
		cfg.MaxHP = 1
	}
	return &Player{cfg: cfg, bus: bus, hp: cfg.MaxHP}
}

// TakeDamage applies a hit unless the player is dead or still invulnerable
// from the previous one. It reports whether the hit landed.
func (p *Player) TakeDamage(amount float64) bool {
	if p == nil || p.dead || p.invulnLeft > 0 || amount <= 0 {
		return false
	}
	p.hp -= amount
	if p.hp < 0 {
		p.hp = 0
	}
	p.invulnLeft = p.cfg.Invulnerable
	event.Publish(p.bus, event.PlayerDamaged{Amount: amount, Remaining: p.hp})
	if p.hp <= 0 {
		p.dead = true
		event.Publish(p.bus, event.PlayerDied{})
	}
	return true
}

func (p *Player) Update(dt time.Duration) {
	if p == nil || p.invulnLeft <= 0 {
		return
	}
	p.invulnLeft -= dt
	if p.invulnLeft < 0 {
		p.invulnLeft = 0
	}
}

// Reset restores full health for a new level.
func (p *Player) Reset() {
	p.hp = p.cfg.MaxHP
	p.dead = false
	p.invulnLeft = 0
}

func (p *Player) HP() float64 { return p.hp }
func (p *Player) MaxHP() float64 { return p.cfg.MaxHP }
func (p *Player) Dead() bool { return p.dead }
func (p *Player) Invulnerable() bool { return p.invulnLeft > 0 }

func (p *Player) Position() cp.Vector {
	return cp.Vector{X: p.cfg.X, Y: p.cfg.Y}
}

func (p *Player) Bounds() cp.BB {
	return cp.NewBBForExtents(p.Position(), p.cfg.Width/2, p.cfg.Height/2)
}
