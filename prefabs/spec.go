package prefabs

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects how an enemy moves and whether it starts a boss phase.
type Kind string

const (
	KindGround Kind = "ground"
	KindAerial Kind = "aerial"
	KindBoss   Kind = "boss"
)

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("enemy kind must be a string")
	}
	switch parsed := Kind(strings.ToLower(strings.TrimSpace(value.Value))); parsed {
	case KindGround, KindAerial, KindBoss:
		*k = parsed
		return nil
	case "":
		*k = KindGround
		return nil
	default:
		return fmt.Errorf("invalid enemy kind: %s", value.Value)
	}
}

// EnemySpec is the static data an enemy instance is initialized from.
type EnemySpec struct {
	ID      string `yaml:"id"`
	Kind    Kind   `yaml:"kind"`
	PoolTag string `yaml:"pool_tag"`

	MaxHP  float64 `yaml:"max_hp"`
	Damage float64 `yaml:"damage"`
	Speed  float64 `yaml:"speed"`

	// aerial only: wobble amplitude in degrees (0-180) and its frequency
	MoveDeviation float64 `yaml:"move_deviation"`
	DeviationRate float64 `yaml:"deviation_rate"`

	RewardXP    int `yaml:"reward_xp"`
	RewardMoney int `yaml:"reward_money"`

	// Script optionally replaces the built-in movement (.tengo or .lua).
	Script string `yaml:"script"`

	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Tag returns the pool tag instances of this spec are drawn from.
func (s *EnemySpec) Tag() string {
	if s == nil {
		return ""
	}
	if s.PoolTag != "" {
		return s.PoolTag
	}
	return s.ID
}

func (s *EnemySpec) IsBoss() bool {
	return s != nil && s.Kind == KindBoss
}

// GroundBound reports whether the enemy spawns on the ground. Only aerial
// kinds use the entry's spawn height; bosses walk the ground too.
func (s *EnemySpec) GroundBound() bool {
	return s == nil || s.Kind != KindAerial
}

func (s *EnemySpec) applyDefaults() {
	if s.Kind == "" {
		s.Kind = KindGround
	}
	if s.MaxHP <= 0 {
		s.MaxHP = 1
	}
	if s.Damage <= 0 {
		s.Damage = 1
	}
	if s.Speed <= 0 {
		s.Speed = 1
	}
	if s.MoveDeviation < 0 {
		s.MoveDeviation = 0
	}
	if s.MoveDeviation > 180 {
		s.MoveDeviation = 180
	}
	if s.Width <= 0 {
		s.Width = 1
	}
	if s.Height <= 0 {
		s.Height = 1
	}
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadEnemySpec loads and normalizes a single enemy prefab.
func LoadEnemySpec(filename string) (*EnemySpec, error) {
	spec, err := LoadSpec[EnemySpec](filename)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.ID) == "" {
		return nil, fmt.Errorf("prefabs: %s: missing id", filename)
	}
	spec.applyDefaults()
	return &spec, nil
}
