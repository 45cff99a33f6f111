// Package enemy implements the pooled enemy instance: data driven movement
// on a kinematic body, HP and a single death notice per life.
package enemy

import (
	"errors"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/scrollbrawl/common"
	"github.com/milk9111/scrollbrawl/prefabs"
)

var ErrNilSpec = errors.New("enemy: nil spec")

type Enemy struct {
	space *Space
	body  *cp.Body
	log   *zap.Logger

	spec   *prefabs.EnemySpec
	mover  Mover
	hp     float64
	maxHP  float64
	life   uint64
	active bool
	dead   bool

	facing  float64
	spawnY  float64
	elapsed time.Duration

	knockVel  cp.Vector
	knockLeft time.Duration

	mailbox *Mailbox
}

// New creates a dormant enemy whose body lives in space.
func New(space *Space) *Enemy {
	log := zap.NewNop()
	if space != nil {
		log = space.log
	}
	return &Enemy{
		space: space,
		body:  space.addBody(),
		log:   log,
	}
}

// Activate places the instance at pos. Called by the pool on acquire.
func (e *Enemy) Activate(pos cp.Vector, facing float64) {
	if e == nil {
		return
	}
	e.active = true
	e.dead = false
	e.facing = facing
	e.spawnY = pos.Y
	e.elapsed = 0
	e.knockLeft = 0
	e.body.SetPosition(pos)
	e.body.SetVelocityVector(cp.Vector{})
}

// Deactivate makes the instance dormant without emitting a death notice.
func (e *Enemy) Deactivate() {
	if e == nil {
		return
	}
	e.active = false
	e.knockLeft = 0
	e.body.SetVelocityVector(cp.Vector{})
}

func (e *Enemy) Active() bool {
	return e != nil && e.active
}

// Initialize starts a new life from spec. The mover is picked here: the
// spec's script when it compiles, otherwise the built-in one for its kind.
func (e *Enemy) Initialize(spec *prefabs.EnemySpec) error {
	if e == nil {
		return ErrNilSpec
	}
	if spec == nil {
		return ErrNilSpec
	}
	e.spec = spec
	e.hp = spec.MaxHP
	if e.hp <= 0 {
		e.hp = 1
	}
	e.maxHP = e.hp
	e.life++
	e.dead = false
	e.mailbox = nil
	e.elapsed = 0
	e.mover = builtinMover(spec.Kind)

	if spec.Script != "" && e.space != nil {
		m, err := e.space.script(spec.Script)
		if err != nil {
			e.log.Warn("enemy: script unavailable, using built-in movement",
				zap.String("enemy", spec.ID), zap.Error(err))
		} else {
			e.mover = m
		}
	}
	return nil
}

// OnDeath registers where the next death notice of this life is sent.
func (e *Enemy) OnDeath(m *Mailbox) {
	if e == nil {
		return
	}
	e.mailbox = m
}

// TakeDamage lowers HP. Reaching zero sends one death notice and deactivates.
func (e *Enemy) TakeDamage(amount float64) {
	if e == nil || !e.active || e.dead || amount <= 0 {
		return
	}
	e.hp -= amount
	if e.hp <= 0 {
		e.die()
	}
}

// Kill removes all remaining HP.
func (e *Enemy) Kill() {
	if e == nil {
		return
	}
	e.TakeDamage(e.hp)
}

func (e *Enemy) die() {
	e.hp = 0
	e.dead = true
	if e.mailbox != nil {
		e.mailbox.Push(Death{Enemy: e, Life: e.life})
	}
	e.Deactivate()
}

// Knockback overrides movement with a push for d.
func (e *Enemy) Knockback(dir cp.Vector, force float64, d time.Duration) {
	if e == nil || !e.active || d <= 0 {
		return
	}
	if dir.Length() < 1e-9 {
		return
	}
	e.knockVel = dir.Normalize().Mult(force)
	e.knockLeft = d
}

// Update sets the body velocity for this tick. The space integrates it.
func (e *Enemy) Update(dt time.Duration, target cp.Vector) {
	if e == nil || !e.active || e.spec == nil {
		return
	}
	e.elapsed += dt
	pos := e.body.Position()

	if e.spec.IsBoss() && e.space != nil && pos.X < e.space.DespawnX {
		e.die()
		return
	}

	if e.knockLeft > 0 {
		e.knockLeft -= dt
		if e.knockLeft > 0 {
			e.body.SetVelocityVector(e.knockVel)
			return
		}
		e.knockLeft = 0
		if e.spec.GroundBound() {
			e.body.SetPosition(cp.Vector{X: pos.X, Y: e.spawnY})
			pos.Y = e.spawnY
		}
	}

	vel, err := e.mover.Velocity(MoveInput{
		Pos:     pos,
		Target:  target,
		Elapsed: e.elapsed.Seconds(),
		Speed:   e.spec.Speed,
		Spec:    e.spec,
	})
	if err != nil {
		e.log.Warn("enemy: movement script failed, using built-in movement",
			zap.String("enemy", e.spec.ID), zap.Error(err))
		e.mover = builtinMover(e.spec.Kind)
		vel, _ = e.mover.Velocity(MoveInput{Pos: pos, Target: target, Elapsed: e.elapsed.Seconds(), Speed: e.spec.Speed, Spec: e.spec})
	}

	if e.spec.Kind == prefabs.KindGround && e.space != nil && pos.X <= e.space.LeftLimit {
		if pos.X < e.space.LeftLimit {
			e.body.SetPosition(cp.Vector{X: e.space.LeftLimit, Y: pos.Y})
		}
		if vel.X < 0 {
			vel.X = 0
		}
	}
	e.body.SetVelocityVector(vel)
}

func (e *Enemy) Spec() *prefabs.EnemySpec { return e.spec }

// Life is the generation counter, bumped on every Initialize.
func (e *Enemy) Life() uint64 { return e.life }

func (e *Enemy) HP() float64 { return e.hp }

// HPFraction is the remaining share of the HP the enemy started this life
// with, in [0,1].
func (e *Enemy) HPFraction() float64 {
	if e.maxHP <= 0 {
		return 0
	}
	return common.Clamp01(e.hp / e.maxHP)
}

func (e *Enemy) Position() cp.Vector { return e.body.Position() }

func (e *Enemy) Facing() float64 { return e.facing }

// Bounds is the enemy's box centred on its position.
func (e *Enemy) Bounds() cp.BB {
	w, h := 1.0, 1.0
	if e.spec != nil {
		w, h = e.spec.Width, e.spec.Height
	}
	return cp.NewBBForExtents(e.body.Position(), w/2, h/2)
}

// Damage is the contact damage dealt to the player.
func (e *Enemy) Damage() float64 {
	if e.spec == nil {
		return 0
	}
	return e.spec.Damage
}
