package levels

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/scrollbrawl/prefabs"
)

func newLoader(t *testing.T, log *zap.Logger) *Loader {
	t.Helper()
	reg, err := prefabs.LoadRegistry()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return NewLoader(reg, log)
}

func TestEmbeddedLevels(t *testing.T) {
	ids, err := List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"caves_1", "forest_1", "forest_boss"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	l := newLoader(t, nil)
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			def, err := l.Level(id)
			if err != nil {
				t.Fatalf("load %s: %v", id, err)
			}
			if def.ID != id || def.Zone == nil || len(def.Sequence) == 0 {
				t.Fatalf("incomplete definition %+v", def)
			}
		})
	}
}

func TestLevelResolve(t *testing.T) {
	l := newLoader(t, nil)
	def, err := l.Level("forest_boss")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		enemy  string
		delay  time.Duration
		height float64
		boss   bool
	}{
		{"slime", time.Second, 0, false},
		{"ogre", 2 * time.Second, 0, true},
		{"bat", 4 * time.Second, 0.7, false},
	}
	if len(def.Sequence) != len(cases) {
		t.Fatalf("expected %d entries, got %d", len(cases), len(def.Sequence))
	}
	for i, c := range cases {
		e := def.Sequence[i]
		if e.Enemy == nil || e.Enemy.ID != c.enemy {
			t.Fatalf("entry %d: expected %s, got %+v", i, c.enemy, e.Enemy)
		}
		if e.Delay != c.delay || e.Height != c.height || e.Boss() != c.boss {
			t.Fatalf("entry %d: unexpected %+v", i, e)
		}
	}
	if !def.HasBoss() {
		t.Fatalf("expected boss level")
	}
	if def.BaseRewardMoney != 25 || def.MinChestMoney != 10 || def.MaxChestMoney != 40 {
		t.Fatalf("unexpected rewards %+v", def)
	}
}

func TestUnknownEnemyResolvesToNil(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := newLoader(t, zap.New(core))
	def, err := l.Level("caves_1")
	if err != nil {
		t.Fatal(err)
	}
	if def.Sequence[2].Enemy != nil {
		t.Fatalf("unknown enemy should resolve to nil, got %+v", def.Sequence[2].Enemy)
	}
	if def.Sequence[1].Delay != 0 {
		t.Fatalf("explicit zero delay should be kept")
	}
	if logs.FilterMessage("levels: unknown enemy").Len() != 1 {
		t.Fatalf("expected one unknown enemy warning")
	}
}

func TestResolveDefaults(t *testing.T) {
	var f File
	src := `
id: scratch
sequence:
  - enemy: slime
  - enemy: bat
    delay: -2s
`
	if err := yaml.Unmarshal([]byte(src), &f); err != nil {
		t.Fatal(err)
	}
	reg, err := prefabs.NewRegistry(&prefabs.EnemySpec{ID: "slime"}, &prefabs.EnemySpec{ID: "bat"})
	if err != nil {
		t.Fatal(err)
	}
	def := Resolve(&f, reg, nil, nil)
	if def.Sequence[0].Delay != time.Second {
		t.Fatalf("missing delay should default to 1s, got %v", def.Sequence[0].Delay)
	}
	if def.Sequence[1].Delay != 0 {
		t.Fatalf("negative delay should clamp to 0, got %v", def.Sequence[1].Delay)
	}
	if def.BaseRewardMoney != 10 || def.MinChestMoney != 5 || def.MaxChestMoney != 20 {
		t.Fatalf("unexpected reward defaults %+v", def)
	}
}

func TestUnknownZoneAndLevel(t *testing.T) {
	l := newLoader(t, nil)
	if _, err := l.Zone("swamp"); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
	if _, err := l.Level("nowhere"); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestLayerSpecDerived(t *testing.T) {
	no := false
	depth := 7.0
	cases := []struct {
		name      string
		spec      LayerSpec
		tiles     int
		depth     float64
		speedMult float64
	}{
		{"defaults_background", LayerSpec{Type: LayerBackground}, 3, 3, 1},
		{"foreground_fastest", LayerSpec{Type: LayerForeground, Parallax: 1.5}, 3, 0, 1.5},
		{"single_panel", LayerSpec{Type: LayerGround, TileHorizontally: &no, TileCount: 5}, 1, 1, 1},
		{"explicit_depth", LayerSpec{Type: LayerEnvironment, TileCount: 4, Depth: &depth}, 4, 7, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.spec.Tiles(); got != c.tiles {
				t.Fatalf("tiles: expected %d, got %d", c.tiles, got)
			}
			if got := c.spec.EffectiveDepth(); got != c.depth {
				t.Fatalf("depth: expected %v, got %v", c.depth, got)
			}
			if got := c.spec.SpeedFactor(); got != c.speedMult {
				t.Fatalf("speed: expected %v, got %v", c.speedMult, got)
			}
		})
	}
}

func TestLayerTypeUnmarshal(t *testing.T) {
	var spec LayerSpec
	if err := yaml.Unmarshal([]byte("type: Foreground"), &spec); err != nil {
		t.Fatal(err)
	}
	if spec.Type != LayerForeground {
		t.Fatalf("expected foreground, got %v", spec.Type)
	}
	if err := yaml.Unmarshal([]byte("type: ceiling"), &spec); err == nil {
		t.Fatalf("expected error for invalid layer type")
	}
}

func TestMergeLayers(t *testing.T) {
	zone := &Zone{Layers: []LayerSpec{
		{Name: "sky", Type: LayerBackground},
		{Name: "trees", Type: LayerEnvironment},
		{Name: "path", Type: LayerGround},
	}}
	overrides := []LayerSpec{
		{Name: "storm", Type: LayerBackground},
		{Name: "rain", Type: LayerForeground},
	}
	additional := []LayerSpec{{Name: "fog", Type: LayerForeground}}

	got := MergeLayers(zone, additional, overrides)
	want := []string{"storm", "trees", "path", "rain", "fog"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %+v", want, got)
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("index %d: expected %s, got %s", i, name, got[i].Name)
		}
	}
}
