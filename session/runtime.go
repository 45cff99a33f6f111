package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/scrollbrawl/common"
	"github.com/milk9111/scrollbrawl/config"
	"github.com/milk9111/scrollbrawl/enemy"
	"github.com/milk9111/scrollbrawl/event"
	"github.com/milk9111/scrollbrawl/levels"
	"github.com/milk9111/scrollbrawl/pool"
	"github.com/milk9111/scrollbrawl/prefabs"
	"github.com/milk9111/scrollbrawl/scroll"
	"github.com/milk9111/scrollbrawl/spawn"
)

// Runtime holds every service of one game process, wired from config.
type Runtime struct {
	Bus       *event.Bus
	Registry  *prefabs.Registry
	Levels    *levels.Loader
	Space     *enemy.Space
	Pool      *pool.Pool[*enemy.Enemy]
	Scroll    *scroll.Controller
	Scheduler *spawn.Scheduler
	Session   *Controller

	log *zap.Logger
}

// WorldView is the camera extent in world units for the base resolution,
// centred on x = 0.
func WorldView() scroll.View {
	w := common.BaseWidth / common.PixelsPerUnit
	return scroll.View{Left: -w / 2, Width: w}
}

func NewRuntime(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if log == nil {
		log = zap.NewNop()
	}

	reg, err := prefabs.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("load prefabs: %w", err)
	}

	space := enemy.NewSpace(log.Named("enemy"))
	space.LeftLimit = cfg.Enemy.LeftLimit
	space.DespawnX = cfg.Enemy.DespawnX

	p := pool.New[*enemy.Enemy](log.Named("pool"))
	entries := make([]pool.Entry[*enemy.Enemy], 0, len(cfg.Pools))
	for _, pc := range cfg.Pools {
		entries = append(entries, pool.Entry[*enemy.Enemy]{
			Tag:     pc.Tag,
			Factory: func() *enemy.Enemy { return enemy.New(space) },
			Size:    pc.Size,
		})
	}
	if err := p.ConfigureAll(entries); err != nil {
		space.Close()
		return nil, fmt.Errorf("configure pools: %w", err)
	}
	for _, tag := range reg.Tags() {
		if !p.Configured(tag) {
			log.Warn("no pool configured for prefab tag", zap.String("tag", tag))
		}
	}

	bus := event.NewBus()
	sc := scroll.New(WorldView(), cfg.Scroll.BaseSpeed, log.Named("scroll"))
	sched := spawn.New(spawn.Deps{
		Bus:      bus,
		Pool:     p,
		Scroller: sc,
		Log:      log.Named("spawn"),
	},
		spawn.WithGroundY(cfg.Spawn.GroundY),
		spawn.WithTopY(cfg.Spawn.TopY),
		spawn.WithSpawnX(cfg.Spawn.SpawnX),
		spawn.WithBossGrace(cfg.Spawn.BossGrace),
	)

	ctrl := NewController(ctx, Deps{
		Bus:       bus,
		Scheduler: sched,
		Scroll:    sc,
		Space:     space,
		Player:    NewPlayer(cfg.Player, bus),
		Log:       log.Named("session"),
	})

	return &Runtime{
		Bus:       bus,
		Registry:  reg,
		Levels:    levels.NewLoader(reg, log.Named("levels")),
		Space:     space,
		Pool:      p,
		Scroll:    sc,
		Scheduler: sched,
		Session:   ctrl,
		log:       log,
	}, nil
}

// StartLevel loads a level by id and starts it.
func (r *Runtime) StartLevel(id string) error {
	def, err := r.Levels.Level(id)
	if err != nil {
		return err
	}
	return r.Session.StartLevel(def)
}

// Reload applies content edits. Prefab and level edits only take effect
// from the hub so a running level keeps the specs it started with.
func (r *Runtime) Reload(changes []prefabs.Change) {
	reloadSpecs := false
	for _, c := range changes {
		switch c.Kind {
		case prefabs.ChangeScript:
			r.Space.InvalidateScript(c.Path)
			r.log.Info("movement script changed", zap.String("path", c.Path))
		case prefabs.ChangeSpec:
			reloadSpecs = true
		}
	}
	if !reloadSpecs || r.Session.Scene() != SceneHub {
		return
	}

	reg, err := prefabs.LoadRegistry()
	if err != nil {
		r.log.Warn("prefab reload failed", zap.Error(err))
		return
	}
	r.Registry = reg
	r.Levels.SetRegistry(reg)
	r.Levels.Invalidate()
	r.log.Info("content reloaded", zap.Int("prefabs", len(reg.IDs())))
}

func (r *Runtime) Close() {
	r.Session.Close()
	r.Space.Close()
}
