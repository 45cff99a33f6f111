package enemy

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/scrollbrawl/prefabs"
)

const eps = 1e-6

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func spawn(t *testing.T, space *Space, spec *prefabs.EnemySpec, pos cp.Vector) *Enemy {
	t.Helper()
	e := New(space)
	e.Activate(pos, -1)
	if err := e.Initialize(spec); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return e
}

func TestInitializeNilSpec(t *testing.T) {
	e := New(NewSpace(nil))
	if err := e.Initialize(nil); !errors.Is(err, ErrNilSpec) {
		t.Fatalf("expected ErrNilSpec, got %v", err)
	}
}

func TestDeathNoticeOncePerLife(t *testing.T) {
	spec := &prefabs.EnemySpec{ID: "slime", Kind: prefabs.KindGround, MaxHP: 2, Speed: 1, Width: 1, Height: 1}
	e := spawn(t, NewSpace(nil), spec, cp.Vector{X: 5})
	var mb Mailbox
	e.OnDeath(&mb)

	e.TakeDamage(1)
	if mb.Len() != 0 || !e.Active() {
		t.Fatalf("enemy died too early")
	}
	e.TakeDamage(5)
	e.TakeDamage(5)
	e.Kill()

	deaths := mb.Drain()
	if len(deaths) != 1 {
		t.Fatalf("expected exactly one notice, got %d", len(deaths))
	}
	if deaths[0].Enemy != e || deaths[0].Life != 1 {
		t.Fatalf("unexpected notice %+v", deaths[0])
	}
	if e.Active() {
		t.Fatalf("dead enemy must deactivate itself")
	}
	if mb.Drain() != nil {
		t.Fatalf("drain should empty the mailbox")
	}
}

func TestLifeIncrementsOnInitialize(t *testing.T) {
	spec := &prefabs.EnemySpec{ID: "bat", Kind: prefabs.KindAerial, MaxHP: 1, Speed: 1}
	e := New(NewSpace(nil))
	for want := uint64(1); want <= 3; want++ {
		e.Activate(cp.Vector{}, -1)
		if err := e.Initialize(spec); err != nil {
			t.Fatal(err)
		}
		if e.Life() != want {
			t.Fatalf("expected life %d, got %d", want, e.Life())
		}
	}
}

func TestDeactivateSendsNoNotice(t *testing.T) {
	spec := &prefabs.EnemySpec{ID: "slime", MaxHP: 1, Speed: 1}
	e := spawn(t, NewSpace(nil), spec, cp.Vector{})
	var mb Mailbox
	e.OnDeath(&mb)
	e.Deactivate()
	e.TakeDamage(10)
	if mb.Len() != 0 {
		t.Fatalf("inactive enemy must not report a death")
	}
}

func TestGroundWalksAndStopsAtLeftLimit(t *testing.T) {
	space := NewSpace(nil)
	spec := &prefabs.EnemySpec{ID: "slime", Kind: prefabs.KindGround, MaxHP: 1, Speed: 2}

	e := spawn(t, space, spec, cp.Vector{X: 10})
	e.Update(time.Second, cp.Vector{})
	space.Step(time.Second)
	if !near(e.Position().X, 8) || !near(e.Position().Y, 0) {
		t.Fatalf("expected (8,0), got %v", e.Position())
	}

	e2 := spawn(t, space, spec, cp.Vector{X: -1.4})
	for i := 0; i < 4; i++ {
		e2.Update(500*time.Millisecond, cp.Vector{})
		space.Step(500 * time.Millisecond)
	}
	e2.Update(500*time.Millisecond, cp.Vector{})
	space.Step(500 * time.Millisecond)
	if !near(e2.Position().X, space.LeftLimit) {
		t.Fatalf("expected ground enemy held at %v, got %v", space.LeftLimit, e2.Position().X)
	}
}

func TestKnockbackSnapsGroundEnemyBack(t *testing.T) {
	space := NewSpace(nil)
	spec := &prefabs.EnemySpec{ID: "slime", Kind: prefabs.KindGround, MaxHP: 1, Speed: 1}
	e := spawn(t, space, spec, cp.Vector{X: 4})

	e.Knockback(cp.Vector{Y: 1}, 2, 500*time.Millisecond)
	e.Update(250*time.Millisecond, cp.Vector{})
	space.Step(250 * time.Millisecond)
	if !near(e.Position().Y, 0.5) || !near(e.Position().X, 4) {
		t.Fatalf("knockback should push up, got %v", e.Position())
	}

	e.Update(250*time.Millisecond, cp.Vector{})
	space.Step(250 * time.Millisecond)
	if !near(e.Position().Y, 0) {
		t.Fatalf("expected snap to spawn height, got %v", e.Position())
	}
	if !near(e.Position().X, 3.75) {
		t.Fatalf("expected walking to resume, got %v", e.Position())
	}
}

func TestBossDespawnsPastLimit(t *testing.T) {
	space := NewSpace(nil)
	space.DespawnX = 5
	spec := &prefabs.EnemySpec{ID: "ogre", Kind: prefabs.KindBoss, MaxHP: 30, Speed: 4}
	e := spawn(t, space, spec, cp.Vector{X: 5.5, Y: 2})
	var mb Mailbox
	e.OnDeath(&mb)

	e.Update(time.Second, cp.Vector{})
	space.Step(time.Second)
	if !near(e.Position().X, 4.5) {
		t.Fatalf("boss should drift at a quarter speed, got %v", e.Position())
	}
	e.Update(time.Second, cp.Vector{})
	if e.Active() || mb.Len() != 1 {
		t.Fatalf("boss past the despawn limit should die")
	}
}

func TestAerialHeadsForTarget(t *testing.T) {
	cases := []struct {
		name string
		spec *prefabs.EnemySpec
	}{
		{"straight", &prefabs.EnemySpec{Kind: prefabs.KindAerial, Speed: 3}},
		{"wobble", &prefabs.EnemySpec{Kind: prefabs.KindAerial, Speed: 3, MoveDeviation: 45, DeviationRate: 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := aerialMover{}.Velocity(MoveInput{
				Pos:     cp.Vector{X: 4, Y: 3},
				Target:  cp.Vector{X: 0, Y: 0},
				Elapsed: 0.4,
				Speed:   c.spec.Speed,
				Spec:    c.spec,
			})
			if err != nil {
				t.Fatal(err)
			}
			if !near(v.Length(), 3) {
				t.Fatalf("expected speed 3, got %v", v.Length())
			}
			if v.X >= 0 {
				t.Fatalf("expected to move toward the target, got %v", v)
			}
		})
	}
}

func TestTengoScriptDrivesMovement(t *testing.T) {
	space := NewSpace(nil)
	defer space.Close()
	spec := &prefabs.EnemySpec{ID: "wisp", Kind: prefabs.KindAerial, MaxHP: 1, Speed: 2.5, Script: "zigzag.tengo"}
	e := spawn(t, space, spec, cp.Vector{X: 10, Y: 2})
	if _, ok := e.mover.(*tengoMover); !ok {
		t.Fatalf("expected tengo mover, got %T", e.mover)
	}

	e.Update(100*time.Millisecond, cp.Vector{})
	space.Step(100 * time.Millisecond)
	if !near(e.Position().X, 9.75) {
		t.Fatalf("expected x 9.75, got %v", e.Position().X)
	}
	wantY := 2 + math.Sin(0.1*4.0)*2.5*0.1
	if !near(e.Position().Y, wantY) {
		t.Fatalf("expected y %v, got %v", wantY, e.Position().Y)
	}
}

func TestLuaScriptVelocity(t *testing.T) {
	space := NewSpace(nil)
	defer space.Close()
	m, err := space.script("spiral.lua")
	if err != nil {
		t.Fatal(err)
	}
	in := MoveInput{Pos: cp.Vector{X: 5, Y: 1}, Target: cp.Vector{X: 0, Y: 3}, Elapsed: 0.5, Speed: 2}
	v, err := m.Velocity(in)
	if err != nil {
		t.Fatal(err)
	}
	wantX := -2 + math.Cos(1.5)*2*0.5
	wantY := math.Sin(1.5)*2*0.5 + 0.25
	if !near(v.X, wantX) || !near(v.Y, wantY) {
		t.Fatalf("expected (%v,%v), got %v", wantX, wantY, v)
	}
}

func TestMissingScriptFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	space := NewSpace(zap.New(core))
	spec := &prefabs.EnemySpec{ID: "ghost", Kind: prefabs.KindBoss, MaxHP: 1, Speed: 1, Script: "missing.tengo"}
	e := spawn(t, space, spec, cp.Vector{})
	if _, ok := e.mover.(bossMover); !ok {
		t.Fatalf("expected built-in boss mover, got %T", e.mover)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestInvalidateScript(t *testing.T) {
	space := NewSpace(nil)
	if _, err := space.script("zigzag.tengo"); err != nil {
		t.Fatal(err)
	}
	if _, err := space.script("spiral.lua"); err != nil {
		t.Fatal(err)
	}
	space.InvalidateScript("prefabs/scripts/zigzag.tengo")
	if _, ok := space.scripts["zigzag.tengo"]; ok {
		t.Fatalf("tengo script should be dropped")
	}
	if _, ok := space.scripts["spiral.lua"]; !ok {
		t.Fatalf("unrelated script should stay cached")
	}
	space.Close()
	if len(space.scripts) != 0 {
		t.Fatalf("close should drop every script")
	}
}

func TestBounds(t *testing.T) {
	spec := &prefabs.EnemySpec{ID: "ogre", Kind: prefabs.KindBoss, MaxHP: 1, Speed: 1, Width: 3, Height: 4}
	e := spawn(t, NewSpace(nil), spec, cp.Vector{X: 2, Y: 2})
	bb := e.Bounds()
	if !near(bb.L, 0.5) || !near(bb.R, 3.5) || !near(bb.B, 0) || !near(bb.T, 4) {
		t.Fatalf("unexpected bounds %+v", bb)
	}
	if !bb.ContainsVect(cp.Vector{X: 1, Y: 1}) {
		t.Fatalf("expected point inside bounds")
	}
}

func TestHPFraction(t *testing.T) {
	cases := []struct {
		name   string
		maxHP  float64
		damage float64
		want   float64
	}{
		{"full", 4, 0, 1},
		{"half", 4, 2, 0.5},
		{"zero max hp", 0, 0, 1},
		{"zero max hp hit", 0, 0.25, 0.75},
		{"dead", 2, 5, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := &prefabs.EnemySpec{ID: "slime", Kind: prefabs.KindGround, MaxHP: c.maxHP, Speed: 1}
			e := spawn(t, NewSpace(nil), spec, cp.Vector{X: 2})
			e.TakeDamage(c.damage)
			if got := e.HPFraction(); math.IsInf(got, 0) || !near(got, c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}

	if got := New(NewSpace(nil)).HPFraction(); got != 0 {
		t.Fatalf("uninitialized enemy should report 0, got %v", got)
	}
}
