// Package levels loads level and zone definitions and resolves the enemy
// references in a level's spawn sequence against the prefab registry.
package levels

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/scrollbrawl/prefabs"
)

var (
	ErrUnknownZone  = errors.New("levels: unknown zone")
	ErrUnknownLevel = errors.New("levels: unknown level")
)

// SpawnEntry is one timed appearance in a level's sequence.
type SpawnEntry struct {
	// Enemy is nil when the referenced prefab does not exist.
	Enemy *prefabs.EnemySpec
	// Delay is measured from the previous dispatch.
	Delay time.Duration
	// Height in [0,1] between ground and sky. Ignored for ground enemies.
	Height float64
}

func (e SpawnEntry) Boss() bool {
	return e.Enemy.IsBoss()
}

// Definition is a resolved level, read only while it runs.
type Definition struct {
	ID        string
	SceneName string
	Zone      *Zone

	BaseRewardMoney int
	MinChestMoney   int
	MaxChestMoney   int

	Sequence []SpawnEntry

	AdditionalLayers []LayerSpec
	OverrideLayers   []LayerSpec
}

// Layers returns the zone layers after overrides and additions.
func (d *Definition) Layers() []LayerSpec {
	if d == nil {
		return nil
	}
	return MergeLayers(d.Zone, d.AdditionalLayers, d.OverrideLayers)
}

// HasBoss reports whether any entry starts a boss encounter.
func (d *Definition) HasBoss() bool {
	if d == nil {
		return false
	}
	for _, e := range d.Sequence {
		if e.Boss() {
			return true
		}
	}
	return false
}

// File is the on-disk form of a level.
type File struct {
	ID              string      `yaml:"id"`
	SceneName       string      `yaml:"scene"`
	Zone            string      `yaml:"zone"`
	BaseRewardMoney *int        `yaml:"base_reward_money"`
	MinChestMoney   *int        `yaml:"min_chest_money"`
	MaxChestMoney   *int        `yaml:"max_chest_money"`
	Sequence        []EntryFile `yaml:"sequence"`

	AdditionalLayers []LayerSpec `yaml:"additional_layers"`
	OverrideLayers   []LayerSpec `yaml:"override_layers"`
}

type EntryFile struct {
	Enemy  string         `yaml:"enemy"`
	Delay  *time.Duration `yaml:"delay"`
	Height float64        `yaml:"height"`
}

const defaultDelay = time.Second

// Resolve turns a level file into a Definition. Unknown enemy ids leave a
// nil Enemy in place so the entry is skipped at dispatch time; negative
// delays are clamped to zero.
func Resolve(f *File, reg *prefabs.Registry, zone *Zone, log *zap.Logger) *Definition {
	if log == nil {
		log = zap.NewNop()
	}
	def := &Definition{
		ID:               f.ID,
		SceneName:        f.SceneName,
		Zone:             zone,
		BaseRewardMoney:  intOr(f.BaseRewardMoney, 10),
		MinChestMoney:    intOr(f.MinChestMoney, 5),
		MaxChestMoney:    intOr(f.MaxChestMoney, 20),
		Sequence:         make([]SpawnEntry, 0, len(f.Sequence)),
		AdditionalLayers: f.AdditionalLayers,
		OverrideLayers:   f.OverrideLayers,
	}

	for i, ef := range f.Sequence {
		entry := SpawnEntry{Delay: defaultDelay, Height: ef.Height}
		if ef.Delay != nil {
			entry.Delay = *ef.Delay
		}
		if entry.Delay < 0 {
			log.Warn("levels: negative delay clamped",
				zap.String("level", f.ID), zap.Int("entry", i), zap.Duration("delay", entry.Delay))
			entry.Delay = 0
		}
		if spec, ok := reg.Lookup(ef.Enemy); ok {
			entry.Enemy = spec
		} else {
			log.Warn("levels: unknown enemy",
				zap.String("level", f.ID), zap.Int("entry", i), zap.String("enemy", ef.Enemy))
		}
		def.Sequence = append(def.Sequence, entry)
	}
	return def
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// Loader reads levels and their zones, caching zones by name.
type Loader struct {
	prefabs *prefabs.Registry
	log     *zap.Logger
	zones   map[string]*Zone
}

func NewLoader(reg *prefabs.Registry, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{prefabs: reg, log: log, zones: make(map[string]*Zone)}
}

// SetRegistry swaps the prefab registry, e.g. after a reload.
func (l *Loader) SetRegistry(reg *prefabs.Registry) {
	l.prefabs = reg
}

func (l *Loader) Zone(name string) (*Zone, error) {
	if z, ok := l.zones[name]; ok {
		return z, nil
	}
	data, err := Load(zoneFile(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownZone, name)
	}
	var z Zone
	if err := yaml.Unmarshal(data, &z); err != nil {
		return nil, fmt.Errorf("levels: unmarshal zone %s: %w", name, err)
	}
	if z.Name == "" {
		z.Name = name
	}
	l.zones[name] = &z
	return &z, nil
}

// Level loads and resolves the level with the given id.
func (l *Loader) Level(id string) (*Definition, error) {
	data, err := Load(levelFile(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, id)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", id, err)
	}
	if f.ID == "" {
		f.ID = id
	}

	var zone *Zone
	if f.Zone != "" {
		zone, err = l.Zone(f.Zone)
		if err != nil {
			return nil, fmt.Errorf("levels: %s: %w", id, err)
		}
	}
	return Resolve(&f, l.prefabs, zone, l.log), nil
}

// Invalidate forgets cached zones so the next Level call rereads them.
func (l *Loader) Invalidate() {
	clear(l.zones)
}
