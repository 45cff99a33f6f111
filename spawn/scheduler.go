// Package spawn runs a level: it dispatches the spawn sequence on time,
// tracks which enemies are still alive, starts and ends the boss encounter
// and reports completion.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/scrollbrawl/common"
	"github.com/milk9111/scrollbrawl/enemy"
	"github.com/milk9111/scrollbrawl/event"
	"github.com/milk9111/scrollbrawl/levels"
	"github.com/milk9111/scrollbrawl/pool"
)

var (
	ErrInvalidArgument = errors.New("spawn: invalid argument")
	ErrInvalidState    = errors.New("spawn: invalid state")
)

// Scroller is the part of the background the scheduler gates.
type Scroller interface {
	Pause()
	Resume()
}

type noopScroller struct{}

func (noopScroller) Pause()  {}
func (noopScroller) Resume() {}

type Deps struct {
	Bus      *event.Bus
	Pool     *pool.Pool[*enemy.Enemy]
	Scroller Scroller
	Log      *zap.Logger
}

// Stats counts what happened during the current run.
type Stats struct {
	Elapsed      time.Duration
	Dispatched   int
	Skipped      int
	Defeated     int
	StaleNotices int
	BossEntered  bool
}

// Scheduler is a cooperative state machine: all progress happens inside
// Update, called once per tick from the game loop.
type Scheduler struct {
	bus      *event.Bus
	pool     *pool.Pool[*enemy.Enemy]
	scroller Scroller
	log      *zap.Logger

	groundY   float64
	topY      float64
	spawnX    float64
	bossGrace time.Duration

	phase Phase
	ctx   context.Context
	def   *levels.Definition
	next  int
	wait  time.Duration
	// timers holds the remaining time of each boss grace period.
	timers []time.Duration

	active  map[*enemy.Enemy]uint64
	order   []*enemy.Enemy
	mailbox enemy.Mailbox

	attempts int
	stats    Stats
}

func New(deps Deps, opts ...Option) *Scheduler {
	s := &Scheduler{
		bus:       deps.Bus,
		pool:      deps.Pool,
		scroller:  deps.Scroller,
		log:       deps.Log,
		groundY:   0,
		topY:      5,
		spawnX:    10,
		bossGrace: DefaultBossGrace,
		active:    make(map[*enemy.Enemy]uint64),
	}
	if s.scroller == nil {
		s.scroller = noopScroller{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.pool == nil {
		s.pool = pool.New[*enemy.Enemy](s.log)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BeginLevel starts running def. Dispatch begins on the next Update.
func (s *Scheduler) BeginLevel(ctx context.Context, def *levels.Definition) error {
	if def == nil {
		return fmt.Errorf("%w: nil level definition", ErrInvalidArgument)
	}
	if s.phase != PhaseIdle {
		return fmt.Errorf("%w: begin level %s while %s", ErrInvalidState, def.ID, s.phase)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if n := s.ClearActiveEntities(); n > 0 {
		s.log.Debug("released leftover enemies", zap.Int("count", n))
	}
	s.mailbox.Drain()
	s.scroller.Resume()

	s.ctx = ctx
	s.def = def
	s.next = 0
	s.wait = 0
	if len(def.Sequence) > 0 {
		s.wait = def.Sequence[0].Delay
	}
	s.timers = s.timers[:0]
	s.attempts = 0
	s.stats = Stats{}
	s.phase = PhaseRunning

	s.log.Info("level started",
		zap.String("level", def.ID),
		zap.Int("entries", len(def.Sequence)))
	return nil
}

// Update advances the run by dt: cancellation, boss grace timers, due
// dispatches, death notices and finally the completion check.
func (s *Scheduler) Update(dt time.Duration) {
	if s.phase != PhaseRunning && s.phase != PhaseBossActive {
		if n := len(s.mailbox.Drain()); n > 0 {
			s.stats.StaleNotices += n
		}
		return
	}
	if dt < 0 {
		dt = 0
	}
	if s.cancelled() {
		return
	}
	s.stats.Elapsed += dt

	s.tickTimers(dt)
	if !s.dispatchDue(dt) {
		return
	}
	s.drainDeaths()
	s.checkComplete()
}

func (s *Scheduler) cancelled() bool {
	if s.ctx == nil || s.ctx.Err() == nil {
		return false
	}
	s.log.Info("level abandoned",
		zap.String("level", s.levelID()),
		zap.Error(s.ctx.Err()))
	s.timers = s.timers[:0]
	s.def = nil
	s.ctx = nil
	s.next = 0
	s.wait = 0
	s.phase = PhaseIdle
	return true
}

func (s *Scheduler) tickTimers(dt time.Duration) {
	kept := s.timers[:0]
	fired := 0
	for _, remaining := range s.timers {
		remaining -= dt
		if remaining <= 0 {
			fired++
			continue
		}
		kept = append(kept, remaining)
	}
	s.timers = kept
	for ; fired > 0; fired-- {
		s.enterBoss()
	}
}

// dispatchDue sends every entry whose delay has elapsed. Overshoot past an
// entry's due time is carried into the next wait. It reports false when
// the run was abandoned mid-way.
func (s *Scheduler) dispatchDue(dt time.Duration) bool {
	seq := s.def.Sequence
	if s.next >= len(seq) {
		return true
	}
	s.wait -= dt
	for s.next < len(seq) && s.wait <= 0 {
		if s.cancelled() {
			return false
		}
		idx := s.next
		s.next++
		overshoot := -s.wait
		s.dispatch(idx, seq[idx], overshoot)
		if s.next < len(seq) {
			s.wait += seq[s.next].Delay
		}
	}
	return true
}

func (s *Scheduler) dispatch(idx int, entry levels.SpawnEntry, overshoot time.Duration) {
	spec := entry.Enemy
	if spec == nil {
		s.stats.Skipped++
		s.log.Warn("spawn: entry has no enemy data",
			zap.String("level", s.levelID()), zap.Int("entry", idx))
		return
	}
	s.attempts++

	y := s.groundY
	if !spec.GroundBound() {
		y = common.Lerp(s.groundY, s.topY, common.Clamp01(entry.Height))
	}

	e, ok := s.pool.Acquire(spec.Tag(), cp.Vector{X: s.spawnX, Y: y}, -1)
	if !ok {
		s.stats.Skipped++
		s.log.Warn("spawn: no pool for enemy",
			zap.String("level", s.levelID()),
			zap.Int("entry", idx),
			zap.String("enemy", spec.ID),
			zap.String("tag", spec.Tag()))
		return
	}
	if err := e.Initialize(spec); err != nil {
		s.stats.Skipped++
		s.pool.Release(e)
		s.log.Warn("spawn: initialize failed", zap.String("enemy", spec.ID), zap.Error(err))
		return
	}

	if _, tracked := s.active[e]; !tracked {
		s.order = append(s.order, e)
	} else {
		s.log.Debug("spawn: reused a live instance", zap.String("tag", spec.Tag()))
	}
	s.active[e] = e.Life()
	e.OnDeath(&s.mailbox)
	s.stats.Dispatched++

	s.log.Debug("enemy dispatched",
		zap.String("enemy", spec.ID),
		zap.Int("entry", idx),
		zap.Float64("y", y),
		zap.Duration("at", s.stats.Elapsed-overshoot))

	if entry.Boss() {
		remaining := s.bossGrace - overshoot
		if remaining <= 0 {
			s.enterBoss()
		} else {
			s.timers = append(s.timers, remaining)
		}
	}
}

func (s *Scheduler) enterBoss() {
	if s.phase == PhaseRunning {
		s.phase = PhaseBossActive
		s.log.Info("boss encounter", zap.String("level", s.levelID()))
	}
	s.stats.BossEntered = true
	s.scroller.Pause()
}

func (s *Scheduler) drainDeaths() {
	for _, d := range s.mailbox.Drain() {
		life, ok := s.active[d.Enemy]
		if !ok || life != d.Life {
			s.stats.StaleNotices++
			continue
		}
		s.remove(d.Enemy)
		s.pool.Release(d.Enemy)
		s.stats.Defeated++
		event.Publish(s.bus, event.EnemyDefeated{Enemy: d.Enemy.Spec()})
	}
}

func (s *Scheduler) checkComplete() {
	if s.phase != PhaseRunning && s.phase != PhaseBossActive {
		return
	}
	if s.next < len(s.def.Sequence) || len(s.active) > 0 || len(s.timers) > 0 {
		return
	}
	if s.stats.BossEntered {
		s.scroller.Resume()
	}
	id := s.levelID()
	s.phase = PhaseComplete
	s.ctx = nil
	s.log.Info("level complete",
		zap.String("level", id),
		zap.Int("defeated", s.stats.Defeated),
		zap.Duration("elapsed", s.stats.Elapsed))
	event.Publish(s.bus, event.LevelCompleted{LevelID: id})
}

func (s *Scheduler) remove(e *enemy.Enemy) {
	delete(s.active, e)
	if i := slices.Index(s.order, e); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// ClearActiveEntities deactivates and releases every tracked enemy and
// returns how many there were. The phase is left alone.
func (s *Scheduler) ClearActiveEntities() int {
	n := len(s.order)
	for _, e := range s.order {
		e.Deactivate()
		s.pool.Release(e)
	}
	clear(s.active)
	clear(s.order)
	s.order = s.order[:0]
	return n
}

// Reset abandons any run and returns to Idle so BeginLevel is legal again.
func (s *Scheduler) Reset() {
	s.ClearActiveEntities()
	s.mailbox.Drain()
	s.ctx = nil
	s.def = nil
	s.next = 0
	s.wait = 0
	s.timers = s.timers[:0]
	s.phase = PhaseIdle
}

func (s *Scheduler) Phase() Phase { return s.phase }

func (s *Scheduler) ActiveCount() int { return len(s.order) }

// Active returns a snapshot of the live enemies in dispatch order.
func (s *Scheduler) Active() []*enemy.Enemy {
	return slices.Clone(s.order)
}

// DispatchAttempts counts entries of the current run that had enemy data.
func (s *Scheduler) DispatchAttempts() int { return s.attempts }

func (s *Scheduler) Stats() Stats { return s.stats }

// Level is the definition being run, nil when idle.
func (s *Scheduler) Level() *levels.Definition { return s.def }

func (s *Scheduler) levelID() string {
	if s.def == nil {
		return ""
	}
	return s.def.ID
}
