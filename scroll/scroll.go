// Package scroll moves layered background panels right to left and loops
// them so the visible width is always covered.
package scroll

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseSpeed is the shared scroll speed in world units per second.
const DefaultBaseSpeed = 5.0

// maxRelocations bounds the looping pass of a single layer per tick.
const maxRelocations = 1024

// View is the horizontal extent the camera shows.
type View struct {
	Left  float64
	Width float64
}

func (v View) Right() float64 { return v.Left + v.Width }

// Panel is one tile of a layer. X is its centre.
type Panel struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (p Panel) Left() float64  { return p.X - p.Width/2 }
func (p Panel) Right() float64 { return p.X + p.Width/2 }

type Layer struct {
	Name        string
	Depth       float64
	SpeedFactor float64
	Color       string
	Panels      []Panel
}

// Speed is the layer's scroll speed for a given base speed. Negative depths
// count as 0.
func (l *Layer) Speed(base float64) float64 {
	return base * l.SpeedFactor / (max(l.Depth, 0) + 1)
}

func (l *Layer) rightmost() float64 {
	r := math.Inf(-1)
	for _, p := range l.Panels {
		r = math.Max(r, p.Right())
	}
	return r
}

func (l *Layer) width() float64 {
	w := 0.0
	for _, p := range l.Panels {
		w += p.Width
	}
	return w
}

type Controller struct {
	view      View
	baseSpeed float64
	paused    bool
	layers    []*Layer
	log       *zap.Logger
}

func New(view View, baseSpeed float64, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if baseSpeed < 0 {
		baseSpeed = 0
	}
	return &Controller{view: view, baseSpeed: baseSpeed, log: log}
}

func (c *Controller) AddLayer(l *Layer) {
	if c == nil || l == nil {
		return
	}
	c.clampDepth(l)
	c.layers = append(c.layers, l)
}

func (c *Controller) clampDepth(l *Layer) {
	if l.Depth >= 0 {
		return
	}
	c.log.Warn("scroll: negative layer depth clamped",
		zap.String("layer", l.Name), zap.Float64("depth", l.Depth))
	l.Depth = 0
}

func (c *Controller) Layers() []*Layer {
	if c == nil {
		return nil
	}
	return c.layers
}

// SetLayers replaces every layer, used when a new scene is loaded.
func (c *Controller) SetLayers(layers []*Layer) {
	if c == nil {
		return
	}
	for _, l := range layers {
		if l != nil {
			c.clampDepth(l)
		}
	}
	c.layers = layers
}

func (c *Controller) View() View { return c.view }

// Tick advances every panel by dt unless paused.
func (c *Controller) Tick(dt time.Duration) {
	if c == nil || c.paused || dt <= 0 {
		return
	}
	secs := dt.Seconds()
	for _, l := range c.layers {
		dx := l.Speed(c.baseSpeed) * secs
		for i := range l.Panels {
			l.Panels[i].X -= dx
		}
		c.loop(l)
	}
}

// loop moves panels that left the view by more than their own width to the
// right end of the layer until none qualify.
func (c *Controller) loop(l *Layer) {
	edge := c.view.Left
	for n := 0; n < maxRelocations; n++ {
		moved := false
		for i := range l.Panels {
			p := &l.Panels[i]
			if p.Left() >= edge-p.Width {
				continue
			}
			p.X = l.rightmost() + p.Width/2
			moved = true
		}
		if !moved {
			return
		}
	}
	c.log.Warn("scroll: layer did not settle", zap.String("layer", l.Name))
}

// Align lays every layer's panels edge to edge starting at the camera's left
// edge. Layers too narrow to keep the view covered while looping are logged.
func (c *Controller) Align() {
	if c == nil {
		return
	}
	for _, l := range c.layers {
		x := c.view.Left
		widest := 0.0
		for i := range l.Panels {
			p := &l.Panels[i]
			p.X = x + p.Width/2
			x += p.Width
			widest = math.Max(widest, p.Width)
		}
		if len(l.Panels) > 0 && l.width() < c.view.Width+widest {
			c.log.Warn("scroll: layer too narrow to loop",
				zap.String("layer", l.Name),
				zap.Float64("width", l.width()),
				zap.Float64("needed", c.view.Width+widest))
		}
	}
}

// Pause stops scrolling. Panels keep their positions.
func (c *Controller) Pause() {
	if c == nil {
		return
	}
	if !c.paused {
		c.log.Debug("scroll paused")
	}
	c.paused = true
}

func (c *Controller) Resume() {
	if c == nil {
		return
	}
	if c.paused {
		c.log.Debug("scroll resumed")
	}
	c.paused = false
}

func (c *Controller) Paused() bool {
	return c != nil && c.paused
}

// SetScrollSpeed changes the shared base speed. Negative values are ignored.
func (c *Controller) SetScrollSpeed(v float64) {
	if c == nil {
		return
	}
	if v < 0 {
		c.log.Warn("scroll: negative speed ignored", zap.Float64("speed", v))
		return
	}
	c.baseSpeed = v
}

func (c *Controller) ScrollSpeed() float64 {
	if c == nil {
		return 0
	}
	return c.baseSpeed
}
