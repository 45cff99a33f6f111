// Package pool keeps fixed rings of pre-created instances per tag so that
// spawning during a level never allocates.
package pool

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

var (
	ErrInvalidTag        = errors.New("pool: empty tag")
	ErrInvalidSize       = errors.New("pool: size must be positive")
	ErrNilFactory        = errors.New("pool: nil factory")
	ErrAlreadyConfigured = errors.New("pool: tag already configured")
)

// Instance is a reusable handle managed by a Pool.
type Instance interface {
	Activate(pos cp.Vector, facing float64)
	Deactivate()
	Active() bool
}

// Entry describes one tag to configure in bulk.
type Entry[T Instance] struct {
	Tag     string
	Factory func() T
	Size    int
}

type ring[T Instance] struct {
	items []T
	head  int
}

// Pool maps tags to rings of instances. When more instances are requested
// than a ring holds, the oldest one is handed out again even if it is still
// active; callers that spawn faster than capacity get reused handles.
type Pool[T Instance] struct {
	rings map[string]*ring[T]
	log   *zap.Logger
}

func New[T Instance](log *zap.Logger) *Pool[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool[T]{
		rings: make(map[string]*ring[T]),
		log:   log,
	}
}

// Configure pre-creates size dormant instances for tag.
func (p *Pool[T]) Configure(tag string, factory func() T, size int) error {
	if tag == "" {
		return ErrInvalidTag
	}
	if factory == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, tag)
	}
	if size <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidSize, tag, size)
	}
	if _, ok := p.rings[tag]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyConfigured, tag)
	}

	r := &ring[T]{items: make([]T, size)}
	for i := range r.items {
		inst := factory()
		inst.Deactivate()
		r.items[i] = inst
	}
	p.rings[tag] = r
	p.log.Debug("pool configured", zap.String("tag", tag), zap.Int("size", size))
	return nil
}

// ConfigureAll configures every entry, stopping at the first error.
func (p *Pool[T]) ConfigureAll(entries []Entry[T]) error {
	for _, e := range entries {
		if err := p.Configure(e.Tag, e.Factory, e.Size); err != nil {
			return err
		}
	}
	return nil
}

// Acquire activates the instance at the front of tag's ring, moves it to the
// back and returns it. The boolean is false when tag was never configured.
func (p *Pool[T]) Acquire(tag string, pos cp.Vector, facing float64) (T, bool) {
	r, ok := p.rings[tag]
	if !ok {
		var zero T
		p.log.Warn("pool: unknown tag", zap.String("tag", tag))
		return zero, false
	}
	inst := r.items[r.head]
	r.head++
	if r.head == len(r.items) {
		r.head = 0
	}
	inst.Activate(pos, facing)
	return inst, true
}

// Release makes inst dormant. Its place in the ring does not change.
func (p *Pool[T]) Release(inst T) {
	inst.Deactivate()
}

func (p *Pool[T]) Configured(tag string) bool {
	_, ok := p.rings[tag]
	return ok
}

// Size returns the ring length for tag, or 0 when unconfigured.
func (p *Pool[T]) Size(tag string) int {
	r, ok := p.rings[tag]
	if !ok {
		return 0
	}
	return len(r.items)
}

// ActiveCount returns how many instances of tag are currently active.
func (p *Pool[T]) ActiveCount(tag string) int {
	r, ok := p.rings[tag]
	if !ok {
		return 0
	}
	n := 0
	for _, inst := range r.items {
		if inst.Active() {
			n++
		}
	}
	return n
}

func (p *Pool[T]) Tags() []string {
	tags := make([]string, 0, len(p.rings))
	for tag := range p.rings {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
