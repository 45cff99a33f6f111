// Package session moves between the hub, a running level and the results
// screen, and owns the per-tick order of the level services.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/scrollbrawl/enemy"
	"github.com/milk9111/scrollbrawl/event"
	"github.com/milk9111/scrollbrawl/levels"
	"github.com/milk9111/scrollbrawl/scroll"
	"github.com/milk9111/scrollbrawl/spawn"
)

// DefaultResultsHold is how long the results screen stays up.
const DefaultResultsHold = 3 * time.Second

var ErrBusy = errors.New("session: level already running")

type Scene uint8

const (
	SceneHub Scene = iota
	SceneLevel
	SceneResults
)

func (s Scene) String() string {
	switch s {
	case SceneHub:
		return "hub"
	case SceneLevel:
		return "level"
	case SceneResults:
		return "results"
	default:
		return "unknown"
	}
}

// Results summarises the last finished level.
type Results struct {
	LevelID   string
	Completed bool
	Defeated  int
	Elapsed   time.Duration
}

type Deps struct {
	Bus       *event.Bus
	Scheduler *spawn.Scheduler
	Scroll    *scroll.Controller
	Space     *enemy.Space
	Player    *Player
	Log       *zap.Logger
}

type Controller struct {
	bus    *event.Bus
	sched  *spawn.Scheduler
	scroll *scroll.Controller
	space  *enemy.Space
	player *Player
	log    *zap.Logger

	base   context.Context
	cancel context.CancelFunc

	scene       Scene
	level       *levels.Definition
	defeated    int
	results     Results
	ResultsHold time.Duration
	resultsLeft time.Duration

	subs []event.Subscription
}

func NewController(ctx context.Context, deps Deps) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Controller{
		bus:         deps.Bus,
		sched:       deps.Scheduler,
		scroll:      deps.Scroll,
		space:       deps.Space,
		player:      deps.Player,
		log:         deps.Log,
		base:        ctx,
		ResultsHold: DefaultResultsHold,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.subs = append(c.subs,
		event.Subscribe(c.bus, c.onEnemyDefeated),
		event.Subscribe(c.bus, c.onLevelCompleted),
		event.Subscribe(c.bus, c.onPlayerDied),
	)
	return c
}

// StartLevel lays out the level's background and starts its spawn sequence.
func (c *Controller) StartLevel(def *levels.Definition) error {
	if c.scene != SceneHub {
		return fmt.Errorf("%w: in %s", ErrBusy, c.scene)
	}
	if def == nil {
		return fmt.Errorf("%w: nil level", spawn.ErrInvalidArgument)
	}

	c.scroll.SetLayers(scroll.BuildLayers(def.Zone, def.AdditionalLayers, def.OverrideLayers, c.scroll.View()))
	c.scroll.Align()
	c.player.Reset()

	ctx, cancel := context.WithCancel(c.base)
	if err := c.sched.BeginLevel(ctx, def); err != nil {
		cancel()
		return err
	}
	c.cancel = cancel
	c.level = def
	c.defeated = 0
	c.scene = SceneLevel
	c.log.Info("entered level", zap.String("level", def.ID))
	return nil
}

// Update runs one tick of the current scene.
func (c *Controller) Update(dt time.Duration) {
	switch c.scene {
	case SceneResults:
		c.resultsLeft -= dt
		if c.resultsLeft <= 0 {
			c.ReturnToHub()
		}
		return
	case SceneLevel:
	default:
		return
	}

	c.player.Update(dt)
	c.scroll.Tick(dt)
	c.sched.Update(dt)
	if c.scene != SceneLevel {
		return
	}

	target := c.player.Position()
	active := c.sched.Active()
	for _, e := range active {
		e.Update(dt, target)
	}
	c.space.Step(dt)

	pb := c.player.Bounds()
	for _, e := range active {
		if !e.Active() || !e.Bounds().Intersects(pb) {
			continue
		}
		c.player.TakeDamage(e.Damage())
		if c.scene != SceneLevel {
			return
		}
	}
}

// Attack hits the first live enemy under point and reports whether one was hit.
func (c *Controller) Attack(point cp.Vector) bool {
	if c.scene != SceneLevel {
		return false
	}
	for _, e := range c.sched.Active() {
		if !e.Active() || !e.Bounds().ContainsVect(point) {
			continue
		}
		e.TakeDamage(c.player.cfg.TapDamage)
		if e.Active() {
			e.Knockback(cp.Vector{X: 1}, c.player.cfg.KnockbackForce, c.player.cfg.KnockbackTime)
		}
		return true
	}
	return false
}

// ReturnToHub abandons whatever is running and goes back to the hub.
func (c *Controller) ReturnToHub() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.sched.Reset()
	c.scroll.Resume()
	c.level = nil
	c.scene = SceneHub
	c.log.Info("returned to hub")
}

func (c *Controller) onEnemyDefeated(ev event.EnemyDefeated) {
	if c.scene == SceneLevel {
		c.defeated++
	}
}

func (c *Controller) onLevelCompleted(ev event.LevelCompleted) {
	if c.scene != SceneLevel {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.results = Results{
		LevelID:   ev.LevelID,
		Completed: true,
		Defeated:  c.defeated,
		Elapsed:   c.sched.Stats().Elapsed,
	}
	c.resultsLeft = c.ResultsHold
	c.scene = SceneResults
	c.log.Info("level results",
		zap.String("level", ev.LevelID),
		zap.Int("defeated", c.defeated))
}

func (c *Controller) onPlayerDied(event.PlayerDied) {
	if c.scene != SceneLevel {
		return
	}
	id := ""
	if c.level != nil {
		id = c.level.ID
	}
	c.results = Results{LevelID: id, Defeated: c.defeated, Elapsed: c.sched.Stats().Elapsed}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	n := c.sched.ClearActiveEntities()
	c.log.Info("player died", zap.String("level", id), zap.Int("cleared", n))
	c.ReturnToHub()
}

func (c *Controller) Scene() Scene { return c.scene }

func (c *Controller) Level() *levels.Definition { return c.level }

func (c *Controller) LastResults() Results { return c.results }

func (c *Controller) Player() *Player { return c.player }

func (c *Controller) Scheduler() *spawn.Scheduler { return c.sched }

func (c *Controller) Scroll() *scroll.Controller { return c.scroll }

// Close drops the bus subscriptions and cancels a running level.
func (c *Controller) Close() {
	for _, sub := range c.subs {
		c.bus.Unsubscribe(sub)
	}
	c.subs = nil
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
