package game

import (
	"time"

	"github.com/tomz197/stardrift/internal/layout"
	"github.com/tomz197/stardrift/internal/object"
)

// Step advances the game by one frame. The order is fixed: background,
// ship, obstacles, difficulty, timed sequences. Smoothing, spawning and
// difficulty are per frame; only the sequence timers use dt.
func (c *GameCore) Step(dt time.Duration) {
	c.frame++
	c.policy = layout.Select(c.viewport, c.tuning.ForceVertical)

	c.updateStars()
	c.updateShip()
	c.manageObstacles()
	c.updateDifficulty()
	c.advanceSequence(dt)
}

func (c *GameCore) updateStars() {
	boost := 1.0
	if c.state == StateThrusting {
		boost = c.tuning.StarBoost
	}
	c.stars.Update(c.policy, c.viewport, boost)
}

func (c *GameCore) updateShip() {
	switch c.state {
	case StateCoasting, StateThrusting:
		c.ship.Update(c.pointer, c.policy, c.viewport, c.tuning.Ship)
	case StateLanding:
		x, y := c.policy.ShipTarget(c.viewport.CenterX(), c.viewport.CenterY(), c.viewport, c.tuning.Ship.VerticalOffset)
		c.ship.GlideTo(x, y, c.policy, c.viewport, c.tuning.Ship)
	}
}

func (c *GameCore) manageObstacles() {
	switch c.state {
	case StateThrusting:
		if c.spawner.Tick(c.difficulty.Level) {
			c.obstacles = append(c.obstacles, c.spawner.Spawn(c.policy, c.viewport))
		}
		c.moveObstacles(true)
	case StateLanding:
		c.moveObstacles(false)
	}
}

// moveObstacles moves, culls and (optionally) collision-checks every
// obstacle in one pass, rebuilding the slice in place. The first hit is
// consumed and crashes the ship after the pass completes.
func (c *GameCore) moveObstacles(collide bool) {
	delta := c.tuning.ObstacleBaseSpeed * c.difficulty.Level
	hit := false

	kept := c.obstacles[:0]
	for _, o := range c.obstacles {
		o.Lead = c.policy.Advance(o.Lead, delta)
		if !collide {
			o.Alpha -= c.tuning.FadeStep
		}

		if c.policy.Passed(o.Lead, c.viewport, c.tuning.CullMargin) || o.Faded() {
			continue
		}
		if collide && !hit && c.hits(o, c.policy) {
			hit = true
			continue
		}
		kept = append(kept, o)
	}
	clear(c.obstacles[len(kept):])
	c.obstacles = kept

	if hit {
		c.TriggerCrash()
	}
}

func (c *GameCore) updateDifficulty() {
	if c.state != StateThrusting {
		return
	}
	c.difficulty.Tick(c.tuning.DifficultyStep, c.tuning.MaxDifficulty, c.tuning.ScoreRate)

	if !c.scores.unlocked && c.difficulty.Points() >= c.tuning.VictoryThreshold {
		c.beginLanding()
	}
}

func (c *GameCore) advanceSequence(dt time.Duration) {
	if !c.seq.Running() {
		return
	}
	c.seq.Elapsed += dt

	switch c.seq.Stage {
	case StageCrashDelay:
		if c.seq.Elapsed >= c.tuning.CrashDelay {
			c.submit(c.difficulty.Points())
			c.reset(true)
		}
	case StageLandingApproach:
		if c.seq.Elapsed >= c.tuning.LandingApproach {
			c.seq.Next(StageLandingTouchdown)
			c.listener.OnVictory(StageLandingTouchdown, c.seq.Generation)
		}
	case StageLandingTouchdown:
		if c.seq.Elapsed >= c.tuning.LandingTouchdown {
			c.seq.Next(StageLandingCelebrate)
			c.listener.OnVictory(StageLandingCelebrate, c.seq.Generation)
		}
	case StageLandingCelebrate:
		if c.seq.Elapsed >= c.tuning.LandingCelebrate {
			c.reset(true)
		}
	}
}

// ObstacleView is an obstacle resolved to screen coordinates.
type ObstacleView struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Alpha  float64 `json:"a"`
}

// ShipView is the drawable ship pose.
type ShipView struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rot"`
	HeadingX float64 `json:"hx"`
	HeadingY float64 `json:"hy"`
	ExhaustX float64 `json:"ex"`
	ExhaustY float64 `json:"ey"`
	Thrust   bool    `json:"thrust"`
	Visible  bool    `json:"visible"`
}

// Frame is a read-only snapshot of one frame for renderers.
type Frame struct {
	Number           uint64         `json:"n"`
	State            State          `json:"state"`
	Stage            Stage          `json:"stage"`
	Generation       uint64         `json:"gen"`
	Width            float64        `json:"w"`
	Height           float64        `json:"h"`
	Vertical         bool           `json:"vertical"`
	Ship             ShipView       `json:"ship"`
	Obstacles        []ObstacleView `json:"obstacles"`
	Stars            []object.Star  `json:"-"`
	Difficulty       float64        `json:"difficulty"`
	Points           int            `json:"points"`
	HighScore        int            `json:"highScore"`
	InfiniteUnlocked bool           `json:"infiniteUnlocked"`
}

// Snapshot fills dst (allocating when nil) with the current frame and
// returns it. Reusing dst across frames reuses its slices.
func (c *GameCore) Snapshot(dst *Frame) *Frame {
	if dst == nil {
		dst = &Frame{}
	}
	hx, hy := c.ship.Heading(c.policy)

	dst.Number = c.frame
	dst.State = c.state
	dst.Stage = c.seq.Stage
	dst.Generation = c.seq.Generation
	dst.Width = c.viewport.Width
	dst.Height = c.viewport.Height
	dst.Vertical = c.policy.Vertical()
	dst.Ship = ShipView{
		X:        c.ship.X,
		Y:        c.ship.Y,
		Rotation: c.ship.Rotation,
		HeadingX: hx,
		HeadingY: hy,
		ExhaustX: c.ship.ExhaustX,
		ExhaustY: c.ship.ExhaustY,
		Thrust:   c.ship.Thrusting,
		Visible:  c.ship.Visible,
	}

	dst.Obstacles = dst.Obstacles[:0]
	for _, o := range c.obstacles {
		x, y := o.Center(c.policy)
		dst.Obstacles = append(dst.Obstacles, ObstacleView{
			ID:     o.ID,
			X:      x,
			Y:      y,
			Radius: o.Radius(),
			Alpha:  o.Alpha,
		})
	}
	dst.Stars = append(dst.Stars[:0], c.stars.Stars...)

	dst.Difficulty = c.difficulty.Level
	dst.Points = c.difficulty.Points()
	dst.HighScore = c.scores.high
	dst.InfiniteUnlocked = c.scores.unlocked
	return dst
}
