package prefabs

import (
	"errors"
	"fmt"
	"sort"
)

var ErrDuplicateEnemy = errors.New("prefabs: duplicate enemy id")

// Registry maps enemy ids to their specs.
type Registry struct {
	specs map[string]*EnemySpec
}

func NewRegistry(specs ...*EnemySpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*EnemySpec, len(specs))}
	for _, s := range specs {
		if err := r.Add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadRegistry reads every enemy prefab, preferring files on disk over the
// embedded copies.
func LoadRegistry() (*Registry, error) {
	names, err := List()
	if err != nil {
		return nil, err
	}
	r := &Registry{specs: make(map[string]*EnemySpec, len(names))}
	for _, name := range names {
		spec, err := LoadEnemySpec(name)
		if err != nil {
			return nil, err
		}
		if err := r.Add(spec); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return r, nil
}

func (r *Registry) Add(spec *EnemySpec) error {
	if spec == nil {
		return nil
	}
	if _, ok := r.specs[spec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEnemy, spec.ID)
	}
	r.specs[spec.ID] = spec
	return nil
}

func (r *Registry) Lookup(id string) (*EnemySpec, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.specs[id]
	return s, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tags returns the distinct pool tags used by the registered specs.
func (r *Registry) Tags() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(r.specs))
	tags := make([]string, 0, len(r.specs))
	for _, s := range r.specs {
		tag := s.Tag()
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
