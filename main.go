package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/scrollbrawl/common"
	"github.com/milk9111/scrollbrawl/config"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config")
	debug := flag.Bool("debug", false, "enable debug mode (overlay, bounds, content reload)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelID := flag.String("level", "", "level id in levels/ to start immediately")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	game, err := NewGame(ctx, cfg, logger, *levelID, *debug)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}
	defer game.Close()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetTPS(common.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	scale := cfg.Window.Scale
	if scale <= 0 {
		scale = 1
	}
	ebiten.SetWindowSize(common.BaseWidth*scale, common.BaseHeight*scale)
	ebiten.SetWindowTitle(cfg.Window.Title)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game exited", zap.Error(err))
	}
}
