// Command levelsim runs levels without a window. Every enemy is killed a
// fixed time after it appears and the resulting timeline is logged.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/scrollbrawl/common"
	"github.com/milk9111/scrollbrawl/config"
	"github.com/milk9111/scrollbrawl/enemy"
	"github.com/milk9111/scrollbrawl/event"
	"github.com/milk9111/scrollbrawl/levels"
	"github.com/milk9111/scrollbrawl/session"
)

type outcome struct {
	level     string
	completed bool
	defeated  int
	damage    float64
	elapsed   time.Duration
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config")
	levelID := flag.String("level", "", "level id to run (default: all levels)")
	killAfter := flag.Duration("kill-after", 1500*time.Millisecond, "how long each enemy lives before it is killed")
	limit := flag.Duration("limit", 2*time.Minute, "give up on a level after this much simulated time")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Defaults(), nil
	}
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ids := []string{*levelID}
	if *levelID == "" {
		if ids, err = levels.List(); err != nil {
			logger.Fatal("list levels", zap.Error(err))
		}
	}

	failed := false
	for _, id := range ids {
		res, err := run(cfg, logger, id, *killAfter, *limit)
		if err != nil {
			logger.Error("level failed", zap.String("level", id), zap.Error(err))
			failed = true
			continue
		}
		fmt.Printf("%-14s completed=%-5v defeated=%-3d damage=%-4.1f elapsed=%s\n",
			res.level, res.completed, res.defeated, res.damage, res.elapsed.Round(time.Millisecond))
		if !res.completed {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, id string, killAfter, limit time.Duration) (outcome, error) {
	rt, err := session.NewRuntime(context.Background(), cfg, logger)
	if err != nil {
		return outcome{}, err
	}
	defer rt.Close()

	res := outcome{level: id}
	var clock time.Duration
	event.Subscribe(rt.Bus, func(ev event.EnemyDefeated) {
		logger.Info("defeated", zap.Duration("t", clock), zap.String("enemy", ev.Enemy.ID))
	})
	event.Subscribe(rt.Bus, func(ev event.PlayerDamaged) {
		res.damage += ev.Amount
		logger.Info("player hit", zap.Duration("t", clock), zap.Float64("hp", ev.Remaining))
	})

	if err := rt.StartLevel(id); err != nil {
		return res, err
	}

	dt := time.Second / common.TPS
	born := make(map[*enemy.Enemy]time.Duration)
	lives := make(map[*enemy.Enemy]uint64)
	for clock < limit && rt.Session.Scene() == session.SceneLevel {
		for _, e := range rt.Scheduler.Active() {
			if lives[e] != e.Life() {
				lives[e] = e.Life()
				born[e] = clock
				logger.Info("spawned", zap.Duration("t", clock), zap.String("enemy", e.Spec().ID),
					zap.Float64("y", e.Position().Y))
			}
			if clock-born[e] >= killAfter {
				e.Kill()
			}
		}
		clock += dt
		rt.Session.Update(dt)
	}

	r := rt.Session.LastResults()
	res.completed = r.Completed
	res.defeated = r.Defeated
	res.elapsed = clock
	return res, nil
}
