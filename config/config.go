package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Window  WindowConfig  `toml:"window"`
	Scroll  ScrollConfig  `toml:"scroll"`
	Spawn   SpawnConfig   `toml:"spawn"`
	Enemy   EnemyConfig   `toml:"enemy"`
	Player  PlayerConfig  `toml:"player"`
	Pools   []PoolConfig  `toml:"pools"`
	Debug   DebugConfig   `toml:"debug"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type WindowConfig struct {
	Title string `toml:"title"`
	Scale int    `toml:"scale"`
}

type ScrollConfig struct {
	BaseSpeed float64 `toml:"base_speed"` // world units per second
}

type SpawnConfig struct {
	GroundY   float64       `toml:"ground_y"`
	TopY      float64       `toml:"top_y"`
	SpawnX    float64       `toml:"spawn_x"`
	BossGrace time.Duration `toml:"boss_grace"`
}

type EnemyConfig struct {
	LeftLimit float64 `toml:"left_limit"`
	DespawnX  float64 `toml:"despawn_x"`
}

type PlayerConfig struct {
	MaxHP          float64       `toml:"max_hp"`
	Invulnerable   time.Duration `toml:"invulnerable"`
	X              float64       `toml:"x"`
	Y              float64       `toml:"y"`
	Width          float64       `toml:"width"`
	Height         float64       `toml:"height"`
	TapDamage      float64       `toml:"tap_damage"`
	KnockbackForce float64       `toml:"knockback_force"`
	KnockbackTime  time.Duration `toml:"knockback_time"`
}

// PoolConfig sizes the instance ring for one pool tag.
type PoolConfig struct {
	Tag  string `toml:"tag"`
	Size int    `toml:"size"`
}

type DebugConfig struct {
	Enabled    bool `toml:"enabled"`
	Watch      bool `toml:"watch"`
	DrawBounds bool `toml:"draw_bounds"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	cfg.Pools = nil
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Pools == nil {
		cfg.Pools = defaultPools()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var ErrInvalid = errors.New("invalid config")

// Validate rejects settings the engine cannot start with.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Pools))
	for i, p := range c.Pools {
		if p.Tag == "" {
			return fmt.Errorf("%w: pools[%d] has no tag", ErrInvalid, i)
		}
		if p.Size <= 0 {
			return fmt.Errorf("%w: pool %s size %d", ErrInvalid, p.Tag, p.Size)
		}
		if _, ok := seen[p.Tag]; ok {
			return fmt.Errorf("%w: pool %s listed twice", ErrInvalid, p.Tag)
		}
		seen[p.Tag] = struct{}{}
	}
	if c.Spawn.TopY < c.Spawn.GroundY {
		return fmt.Errorf("%w: spawn top_y below ground_y", ErrInvalid)
	}
	if c.Spawn.BossGrace < 0 {
		return fmt.Errorf("%w: negative boss_grace", ErrInvalid)
	}
	if c.Player.MaxHP <= 0 {
		return fmt.Errorf("%w: player max_hp must be positive", ErrInvalid)
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Window: WindowConfig{
			Title: "scrollbrawl",
			Scale: 1,
		},
		Scroll: ScrollConfig{
			BaseSpeed: 5,
		},
		Spawn: SpawnConfig{
			GroundY:   0,
			TopY:      5,
			SpawnX:    10,
			BossGrace: 2 * time.Second,
		},
		Enemy: EnemyConfig{
			LeftLimit: -1.5,
			DespawnX:  -30,
		},
		Player: PlayerConfig{
			MaxHP:          10,
			Invulnerable:   500 * time.Millisecond,
			X:              -2.5,
			Y:              0.25,
			Width:          1.5,
			Height:         2,
			TapDamage:      1,
			KnockbackForce: 4,
			KnockbackTime:  150 * time.Millisecond,
		},
		Pools: defaultPools(),
	}
}

// defaultPools applies only when the file has no [[pools]] entries.
func defaultPools() []PoolConfig {
	return []PoolConfig{
		{Tag: "slime", Size: 8},
		{Tag: "bat", Size: 8},
		{Tag: "wisp", Size: 4},
		{Tag: "ogre", Size: 1},
	}
}
