package main

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/scrollbrawl/common"
	"github.com/milk9111/scrollbrawl/config"
	"github.com/milk9111/scrollbrawl/levels"
	"github.com/milk9111/scrollbrawl/prefabs"
	"github.com/milk9111/scrollbrawl/session"
)

// groundScreenY is where world y = 0 lands on screen.
const groundScreenY = common.BaseHeight - 2*common.PixelsPerUnit

type Game struct {
	frames int

	cfg *config.Config
	log *zap.Logger
	rt  *session.Runtime

	watcher  *prefabs.Watcher
	levelIDs []string
	selected int

	paused    bool
	pauseUI   *ebitenui.UI
	resultsUI *resultsUI

	shownHP float64
	debug   bool
	quit    bool
}

func NewGame(ctx context.Context, cfg *config.Config, log *zap.Logger, levelID string, debug bool) (*Game, error) {
	rt, err := session.NewRuntime(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	ids, err := levels.List()
	if err != nil {
		rt.Close()
		return nil, err
	}

	g := &Game{
		cfg:      cfg,
		log:      log,
		rt:       rt,
		levelIDs: ids,
		shownHP:  cfg.Player.MaxHP,
		debug:    debug || cfg.Debug.Enabled,
	}
	g.pauseUI = NewPauseUI(g)
	g.resultsUI = newResultsUI(g)

	if g.debug && cfg.Debug.Watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts", "levels", "levels/zones")
		if err != nil {
			log.Warn("content watcher unavailable", zap.Error(err))
		} else {
			g.watcher = w
		}
	}

	if levelID != "" {
		for i, id := range ids {
			if id == levelID {
				g.selected = i
			}
		}
		if err := rt.StartLevel(levelID); err != nil {
			log.Error("failed to start level", zap.String("level", levelID), zap.Error(err))
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.rt.Close()
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++
	dt := time.Second / time.Duration(ebiten.TPS())

	if g.watcher != nil {
		if changes := g.watcher.Poll(); len(changes) > 0 {
			g.rt.Reload(changes)
		}
	}

	s := g.rt.Session
	switch s.Scene() {
	case session.SceneHub:
		g.updateHub()
	case session.SceneLevel:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.paused = !g.paused
		}
		if g.paused {
			g.pauseUI.Update()
			return nil
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			mx, my := ebiten.CursorPosition()
			s.Attack(g.screenToWorld(float64(mx), float64(my)))
		}
	case session.SceneResults:
		g.resultsUI.set(s.LastResults())
		g.resultsUI.ui.Update()
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			s.ReturnToHub()
		}
	}

	s.Update(dt)
	g.shownHP = common.MoveTowards(g.shownHP, s.Player().HP(), dt.Seconds()*8)
	return nil
}

func (g *Game) updateHub() {
	if len(g.levelIDs) == 0 {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.selected = (g.selected + len(g.levelIDs) - 1) % len(g.levelIDs)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.selected = (g.selected + 1) % len(g.levelIDs)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		id := g.levelIDs[g.selected]
		if err := g.rt.StartLevel(id); err != nil {
			g.log.Error("failed to start level", zap.String("level", id), zap.Error(err))
		}
		g.paused = false
		g.shownHP = g.rt.Session.Player().MaxHP()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.quit = true
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	s := g.rt.Session

	if s.Scene() == session.SceneHub {
		g.drawHub(screen)
		return
	}

	g.drawLayers(screen)
	g.drawEnemies(screen)
	g.drawPlayer(screen)

	if g.debug {
		sched := s.Scheduler()
		stats := sched.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f  level: %s  phase: %s  active: %d  dispatched: %d  defeated: %d  t=%.1fs",
			ebiten.ActualFPS(), levelName(s.Level()), sched.Phase(), sched.ActiveCount(),
			stats.Dispatched, stats.Defeated, stats.Elapsed.Seconds()))
	}

	switch {
	case s.Scene() == session.SceneResults:
		g.resultsUI.ui.Draw(screen)
	case g.paused:
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawHub(screen *ebiten.Image) {
	var b strings.Builder
	b.WriteString("Select a level (up/down, enter). Esc quits.\n\n")
	for i, id := range g.levelIDs {
		marker := "  "
		if i == g.selected {
			marker = "> "
		}
		b.WriteString(marker + id + "\n")
	}
	if res := g.rt.Session.LastResults(); res.LevelID != "" {
		outcome := "lost"
		if res.Completed {
			outcome = "cleared"
		}
		fmt.Fprintf(&b, "\nlast: %s %s, %d defeated in %.1fs", res.LevelID, outcome, res.Defeated, res.Elapsed.Seconds())
	}
	ebitenutil.DebugPrintAt(screen, b.String(), 40, 40)
}

func (g *Game) drawLayers(screen *ebiten.Image) {
	for _, l := range g.rt.Scroll.Layers() {
		clr, ok := colornames.Map[strings.ToLower(l.Color)]
		if !ok {
			clr = colornames.Dimgray
		}
		for _, p := range l.Panels {
			bb := cp.NewBBForExtents(cp.Vector{X: p.X, Y: p.Y}, p.Width/2, p.Height/2)
			g.fillBB(screen, bb, clr)
			if g.debug && g.cfg.Debug.DrawBounds {
				g.strokeBB(screen, bb, color.RGBA{A: 80})
			}
		}
	}
}

func (g *Game) drawEnemies(screen *ebiten.Image) {
	for _, e := range g.rt.Scheduler.Active() {
		if !e.Active() {
			continue
		}
		clr := colornames.Olivedrab
		switch e.Spec().Kind {
		case prefabs.KindAerial:
			clr = colornames.Mediumpurple
		case prefabs.KindBoss:
			clr = colornames.Darkred
		}
		bb := e.Bounds()
		g.fillBB(screen, bb, clr)

		// hp bar
		bar := cp.BB{L: bb.L, R: bb.L + (bb.R-bb.L)*e.HPFraction(), B: bb.T + 0.1, T: bb.T + 0.2}
		g.fillBB(screen, bar, colornames.Limegreen)
		if g.debug && g.cfg.Debug.DrawBounds {
			g.strokeBB(screen, bb, colornames.Red)
		}
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	p := g.rt.Session.Player()
	clr := colornames.Steelblue
	if p.Invulnerable() && g.frames/4%2 == 0 {
		clr = colornames.White
	}
	g.fillBB(screen, p.Bounds(), clr)

	const barW = 300
	vector.DrawFilledRect(screen, 20, common.BaseHeight-40, barW, 16, colornames.Darkslategray, false)
	vector.DrawFilledRect(screen, 20, common.BaseHeight-40, float32(barW*g.shownHP/p.MaxHP()), 16, colornames.Crimson, false)
}

func (g *Game) fillBB(screen *ebiten.Image, bb cp.BB, clr color.Color) {
	x, y, w, h := g.bbToScreen(bb)
	vector.DrawFilledRect(screen, x, y, w, h, clr, false)
}

func (g *Game) strokeBB(screen *ebiten.Image, bb cp.BB, clr color.Color) {
	x, y, w, h := g.bbToScreen(bb)
	vector.StrokeRect(screen, x, y, w, h, 1.0, clr, false)
}

func (g *Game) bbToScreen(bb cp.BB) (x, y, w, h float32) {
	left := g.rt.Scroll.View().Left
	x = float32((bb.L - left) * common.PixelsPerUnit)
	y = float32(groundScreenY - bb.T*common.PixelsPerUnit)
	w = float32((bb.R - bb.L) * common.PixelsPerUnit)
	h = float32((bb.T - bb.B) * common.PixelsPerUnit)
	return x, y, w, h
}

func (g *Game) screenToWorld(sx, sy float64) cp.Vector {
	return cp.Vector{
		X: sx/common.PixelsPerUnit + g.rt.Scroll.View().Left,
		Y: (groundScreenY - sy) / common.PixelsPerUnit,
	}
}

func levelName(def *levels.Definition) string {
	if def == nil {
		return "-"
	}
	return def.ID
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
