package levels

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayerType orders background layers from farthest to closest.
type LayerType int

const (
	LayerBackground LayerType = iota
	LayerEnvironment
	LayerGround
	LayerForeground
)

func (t LayerType) String() string {
	switch t {
	case LayerBackground:
		return "background"
	case LayerEnvironment:
		return "environment"
	case LayerGround:
		return "ground"
	case LayerForeground:
		return "foreground"
	default:
		return fmt.Sprintf("layer(%d)", int(t))
	}
}

func (t *LayerType) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("layer type must be a string")
	}
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "background", "":
		*t = LayerBackground
	case "environment":
		*t = LayerEnvironment
	case "ground":
		*t = LayerGround
	case "foreground":
		*t = LayerForeground
	default:
		return fmt.Errorf("invalid layer type: %s", value.Value)
	}
	return nil
}

// LayerSpec describes one parallax layer of a zone.
type LayerSpec struct {
	Name     string    `yaml:"name"`
	Type     LayerType `yaml:"type"`
	Parallax float64   `yaml:"parallax"`

	TileHorizontally *bool   `yaml:"tile_horizontally"`
	TileCount        int     `yaml:"tile_count"`
	TileWidth        float64 `yaml:"tile_width"`
	TileHeight       float64 `yaml:"tile_height"`
	// Y is the panel centre height in world units.
	Y float64 `yaml:"y"`

	// Depth overrides the depth derived from Type.
	Depth *float64 `yaml:"depth"`
	Color string   `yaml:"color"`
}

func (l LayerSpec) Tiled() bool {
	return l.TileHorizontally == nil || *l.TileHorizontally
}

// Tiles is the panel count: TileCount (default 3) when tiled, else 1.
func (l LayerSpec) Tiles() int {
	if !l.Tiled() {
		return 1
	}
	if l.TileCount <= 0 {
		return 3
	}
	return l.TileCount
}

// EffectiveDepth is the explicit depth or one derived from the layer type,
// foreground being 0 so it moves fastest.
func (l LayerSpec) EffectiveDepth() float64 {
	if l.Depth != nil && *l.Depth >= 0 {
		return *l.Depth
	}
	return float64(LayerForeground - l.Type)
}

func (l LayerSpec) SpeedFactor() float64 {
	if l.Parallax <= 0 {
		return 1
	}
	return l.Parallax
}

type Zone struct {
	Name   string      `yaml:"name"`
	Layers []LayerSpec `yaml:"layers"`
}

// MergeLayers returns the zone layers with every layer whose type appears in
// overrides replaced by those overrides, followed by additional.
func MergeLayers(zone *Zone, additional, overrides []LayerSpec) []LayerSpec {
	replaced := make(map[LayerType]bool, len(overrides))
	for _, o := range overrides {
		replaced[o.Type] = true
	}

	var out []LayerSpec
	inserted := make(map[LayerType]bool, len(overrides))
	if zone != nil {
		for _, l := range zone.Layers {
			if !replaced[l.Type] {
				out = append(out, l)
				continue
			}
			if inserted[l.Type] {
				continue
			}
			inserted[l.Type] = true
			for _, o := range overrides {
				if o.Type == l.Type {
					out = append(out, o)
				}
			}
		}
	}
	for _, o := range overrides {
		if !inserted[o.Type] {
			out = append(out, o)
		}
	}
	return append(out, additional...)
}
