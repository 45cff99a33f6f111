package enemy

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/scrollbrawl/prefabs"
)

const (
	// DefaultLeftLimit is where ground enemies stop walking.
	DefaultLeftLimit = -1.5
	// DefaultDespawnX is the x past which a drifting boss is removed.
	DefaultDespawnX = -30.0
)

// Space owns the kinematic bodies of every enemy instance plus the compiled
// movement scripts they share.
type Space struct {
	space *cp.Space
	log   *zap.Logger

	LeftLimit float64
	DespawnX  float64

	scripts map[string]scriptMover
}

func NewSpace(log *zap.Logger) *Space {
	if log == nil {
		log = zap.NewNop()
	}
	space := cp.NewSpace()
	space.Iterations = 10
	return &Space{
		space:     space,
		log:       log,
		LeftLimit: DefaultLeftLimit,
		DespawnX:  DefaultDespawnX,
		scripts:   make(map[string]scriptMover),
	}
}

func (s *Space) addBody() *cp.Body {
	body := cp.NewKinematicBody()
	if s != nil && s.space != nil {
		s.space.AddBody(body)
	}
	return body
}

// Step integrates every body's velocity over dt.
func (s *Space) Step(dt time.Duration) {
	if s == nil || s.space == nil || dt <= 0 {
		return
	}
	s.space.Step(dt.Seconds())
}

// script returns the shared mover for a script path, compiling it on first use.
func (s *Space) script(path string) (scriptMover, error) {
	if m, ok := s.scripts[path]; ok {
		return m, nil
	}

	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("enemy: load script %s: %w", path, err)
	}

	var m scriptMover
	switch prefabs.ScriptLanguage(path) {
	case "tengo":
		m, err = newTengoMover(path, src)
	case "lua":
		m, err = newLuaMover(path, src)
	default:
		err = fmt.Errorf("unsupported script type")
	}
	if err != nil {
		return nil, fmt.Errorf("enemy: compile script %s: %w", path, err)
	}

	s.scripts[path] = m
	s.log.Debug("movement script compiled", zap.String("script", path))
	return m, nil
}

// InvalidateScript drops a compiled script so the next Initialize reloads it.
func (s *Space) InvalidateScript(path string) {
	if s == nil {
		return
	}
	for key, m := range s.scripts {
		if filepath.Base(filepath.ToSlash(key)) == filepath.Base(filepath.ToSlash(path)) {
			m.close()
			delete(s.scripts, key)
		}
	}
}

// Close releases script interpreters.
func (s *Space) Close() {
	if s == nil {
		return
	}
	for key, m := range s.scripts {
		m.close()
		delete(s.scripts, key)
	}
}
