package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[spawn]
spawn_x = 12.5
boss_grace = "3s"

[player]
invulnerable = "250ms"

[[pools]]
tag = "slime"
size = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Spawn.SpawnX != 12.5 || cfg.Spawn.BossGrace != 3*time.Second {
		t.Fatalf("spawn not overridden: %+v", cfg.Spawn)
	}
	if cfg.Spawn.TopY != 5 {
		t.Fatalf("unset keys should keep defaults, got top_y %v", cfg.Spawn.TopY)
	}
	if cfg.Player.Invulnerable != 250*time.Millisecond || cfg.Player.MaxHP != 10 {
		t.Fatalf("unexpected player config %+v", cfg.Player)
	}
	if len(cfg.Pools) != 1 || cfg.Pools[0] != (PoolConfig{Tag: "slime", Size: 3}) {
		t.Fatalf("expected pools replaced, got %+v", cfg.Pools)
	}
}

func TestLoadRepoConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Pools) != 4 || cfg.Spawn.BossGrace != 2*time.Second {
		t.Fatalf("unexpected repo config %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	cases := []struct {
		name string
		body string
	}{
		{"zero_pool", "[[pools]]\ntag = \"bat\"\nsize = 0\n"},
		{"untagged_pool", "[[pools]]\nsize = 2\n"},
		{"duplicate_pool", "[[pools]]\ntag = \"bat\"\nsize = 1\n[[pools]]\ntag = \"bat\"\nsize = 2\n"},
		{"inverted_heights", "[spawn]\nground_y = 3.0\ntop_y = 1.0\n"},
		{"negative_grace", "[spawn]\nboss_grace = \"-1s\"\n"},
		{"dead_player", "[player]\nmax_hp = 0.0\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, c.body)); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}

	if _, err := Load(writeConfig(t, "[spawn\n")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := NewLogger(LoggingConfig{Level: "bogus", Format: format})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !log.Core().Enabled(0) {
			t.Fatalf("%s: invalid level should fall back to info", format)
		}
		if log.Core().Enabled(-1) {
			t.Fatalf("%s: debug should be disabled at info", format)
		}
	}
}
