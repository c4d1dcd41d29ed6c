package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardrift/internal/layout"
	"github.com/tomz197/stardrift/internal/object"
	"github.com/tomz197/stardrift/internal/store"
)

// Options configures a GameCore. Zero fields get defaults.
type Options struct {
	Tuning   *Tuning
	Viewport layout.Viewport
	Store    store.Store
	Listener Listener
	Logger   *log.Logger
	Rand     *rand.Rand
}

// GameCore is the whole game for one player: ship, obstacles, difficulty,
// state machine and timed sequences. It is not safe for concurrent use;
// one host goroutine owns it and calls Step once per frame.
type GameCore struct {
	tuning   Tuning
	log      *log.Logger
	listener Listener
	scores   *scoreKeeper

	viewport layout.Viewport
	policy   layout.AxisPolicy

	state      State
	ship       *object.Ship
	pointer    object.Pointer
	obstacles  []object.Obstacle
	spawner    *object.ObstacleSpawner
	stars      *object.Starfield
	difficulty Difficulty
	seq        Sequence
	frame      uint64
}

// New creates a GameCore in Idle and reads the saved progress once.
func New(ctx context.Context, opts Options) *GameCore {
	tuning := DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	listener := opts.Listener
	if listener == nil {
		listener = NopListener{}
	}
	s := opts.Store
	if s == nil {
		s = store.NewMemory(store.Progress{})
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	vp := opts.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = layout.Viewport{Width: 1280, Height: 720}
	}

	policy := layout.Select(vp, tuning.ForceVertical)
	c := &GameCore{
		tuning:    tuning,
		log:       logger,
		listener:  listener,
		scores:    newScoreKeeper(ctx, s, logger),
		viewport:  vp,
		policy:    policy,
		state:     StateIdle,
		ship:      object.NewShip(vp, policy, tuning.Ship),
		obstacles: make([]object.Obstacle, 0, 32),
		spawner:   object.NewObstacleSpawner(tuning.Spawn, rng),
		stars:     object.NewStarfield(tuning.StarCount, vp, rng),
	}
	c.pointer = c.ship.RestingPoint()
	c.difficulty.Reset()
	return c
}

// EnableGame starts a round once the intro has finished. Only valid in Idle.
func (c *GameCore) EnableGame() {
	if c.state != StateIdle {
		return
	}
	c.seq.Cancel()
	c.ship.Reset(c.viewport, c.policy, c.tuning.Ship)
	c.pointer = c.ship.RestingPoint()
	c.difficulty.Reset()
	c.spawner.Reset()
	c.obstacles = c.obstacles[:0]
	c.setState(StateCoasting)
}

// DisableGame abandons the round because the intro was scrolled back.
// The intro already moved, so no scroll reset is requested. A crashed
// round still has its score submitted.
func (c *GameCore) DisableGame() {
	if c.state == StateIdle {
		return
	}
	if c.state == StateCrashed {
		c.submit(c.difficulty.Points())
	}
	c.reset(false)
}

// SetThrust starts or releases thrust. Releasing costs difficulty.
func (c *GameCore) SetThrust(active bool) {
	switch {
	case active && c.state == StateCoasting:
		c.ship.Thrusting = true
		c.setState(StateThrusting)
	case !active && c.state == StateThrusting:
		c.ship.Thrusting = false
		c.difficulty.Release(c.tuning.ReleaseDecay)
		c.setState(StateCoasting)
	}
}

// SetPointer records the latest pointer position. Last write wins.
func (c *GameCore) SetPointer(x, y float64) {
	if !c.state.Active() {
		return
	}
	c.pointer = object.Pointer{X: x, Y: y}
}

// SetViewport changes the playfield size. The ship is clamped back into
// range by its next update. Obstacles are dropped when the travel axis
// flips, since their lead and lateral no longer map to the same place.
func (c *GameCore) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	vp := layout.Viewport{Width: width, Height: height}
	if vp == c.viewport {
		return
	}
	c.viewport = vp
	policy := layout.Select(vp, c.tuning.ForceVertical)
	if policy.Vertical() != c.policy.Vertical() {
		c.obstacles = c.obstacles[:0]
	}
	c.policy = policy
	c.stars.Scatter(vp)
	if c.state == StateIdle {
		c.ship.Reset(vp, c.policy, c.tuning.Ship)
		c.pointer = c.ship.RestingPoint()
	}
}

// TriggerCrash ends a thrusting round. Calls in any other state are
// ignored, so a second crash in the same frame changes nothing.
func (c *GameCore) TriggerCrash() {
	if c.state != StateThrusting {
		return
	}
	c.ship.Thrusting = false
	c.ship.Visible = false
	c.setState(StateCrashed)
	c.seq.Start(StageCrashDelay)
	c.listener.OnCrash(c.ship.X, c.ship.Y, c.difficulty.Points())
}

// SequenceCurrent reports whether gen still identifies the running sequence.
func (c *GameCore) SequenceCurrent(gen uint64) bool {
	return c.seq.Running() && c.seq.Generation == gen
}

func (c *GameCore) beginLanding() {
	points := c.difficulty.Points()
	c.scores.Unlock()
	c.submit(points)

	c.ship.Thrusting = false
	c.setState(StateLanding)
	gen := c.seq.Start(StageLandingApproach)
	c.log.Info("Victory", "score", points)
	c.listener.OnVictory(StageLandingApproach, gen)
}

func (c *GameCore) submit(points int) {
	if c.scores.Submit(points) {
		c.listener.OnHighScore(points)
	}
}

// reset clears the round and returns to Idle. handoff asks the intro to
// rewind to its start.
func (c *GameCore) reset(handoff bool) {
	c.seq.Cancel()
	c.setState(StateResetting)

	c.obstacles = c.obstacles[:0]
	c.spawner.Reset()
	c.ship.Thrusting = false
	if handoff {
		c.listener.OnScrollReset()
	}

	c.setState(StateIdle)
}

func (c *GameCore) setState(to State) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.log.Debug("State change", "from", from, "to", to)
	c.listener.OnStateChange(from, to)
}

// State returns the current phase.
func (c *GameCore) State() State { return c.state }

// Ship returns a copy of the ship.
func (c *GameCore) Ship() object.Ship { return *c.ship }

// Pointer returns the last accepted pointer position.
func (c *GameCore) Pointer() object.Pointer { return c.pointer }

// Difficulty returns the current difficulty and score.
func (c *GameCore) Difficulty() Difficulty { return c.difficulty }

// Points returns the floored score of the current round.
func (c *GameCore) Points() int { return c.difficulty.Points() }

// HighScore returns the cached best score.
func (c *GameCore) HighScore() int { return c.scores.high }

// InfiniteUnlocked reports whether victory has ever been reached.
func (c *GameCore) InfiniteUnlocked() bool { return c.scores.unlocked }

// Sequence returns the timed sequence state.
func (c *GameCore) Sequence() Sequence { return c.seq }

// Viewport returns the playfield size.
func (c *GameCore) Viewport() layout.Viewport { return c.viewport }

// Policy returns the axis policy for the current frame.
func (c *GameCore) Policy() layout.AxisPolicy { return c.policy }

// Tuning returns the game parameters.
func (c *GameCore) Tuning() Tuning { return c.tuning }

// Obstacles returns a copy of the live obstacles.
func (c *GameCore) Obstacles() []object.Obstacle {
	out := make([]object.Obstacle, len(c.obstacles))
	copy(out, c.obstacles)
	return out
}
