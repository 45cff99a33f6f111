package scroll

import (
	"sort"

	"github.com/milk9111/scrollbrawl/levels"
)

// BuildLayers creates unaligned layers for a zone after applying a level's
// override and additional layers. Layers are returned farthest first.
func BuildLayers(zone *levels.Zone, additional, overrides []levels.LayerSpec, view View) []*Layer {
	specs := levels.MergeLayers(zone, additional, overrides)
	layers := make([]*Layer, 0, len(specs))
	for _, s := range specs {
		w := s.TileWidth
		if w <= 0 {
			w = view.Width
		}
		h := s.TileHeight
		if h <= 0 {
			h = 1
		}
		l := &Layer{
			Name:        s.Name,
			Depth:       s.EffectiveDepth(),
			SpeedFactor: s.SpeedFactor(),
			Color:       s.Color,
			Panels:      make([]Panel, s.Tiles()),
		}
		if l.Name == "" {
			l.Name = s.Type.String()
		}
		for i := range l.Panels {
			l.Panels[i] = Panel{Y: s.Y, Width: w, Height: h}
		}
		layers = append(layers, l)
	}
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].Depth > layers[j].Depth
	})
	return layers
}
