package object

import (
	"math"

	"github.com/tomz197/stardrift/internal/layout"
	"github.com/tomz197/stardrift/internal/physics"
)

// ShipConfig holds the steering and geometry parameters of the ship.
type ShipConfig struct {
	PositionSmoothing       float64 // Fraction of the remaining distance covered per frame
	RotationGain            float64 // Degrees of tilt per pixel of per-frame displacement
	MaxRotation             float64 // Tilt limit in degrees (symmetric)
	TargetRotationSmoothing float64 // How fast the target angle chases the raw angle
	RotationSmoothing       float64 // How fast the drawn angle chases the target angle
	HalfLength              float64 // Half extent along the nose, used as edge margin
	HalfWidth               float64 // Half extent across the nose, used as edge margin
	VerticalOffset          float64 // Distance from the bottom edge in the vertical layout
	ExhaustOffset           float64 // Distance of the exhaust anchor behind the centre
	CollisionRadius         float64 // Radius used by the collision detector
	IdleBobAmplitude        float64 // Lateral bob in pixels while coasting (0 disables)
	IdleBobSpeed            float64 // Bob phase advance in radians per frame
}

// DefaultShipConfig returns the standard ship parameters.
func DefaultShipConfig() ShipConfig {
	return ShipConfig{
		PositionSmoothing:       0.1,
		RotationGain:            1.5,
		MaxRotation:             30,
		TargetRotationSmoothing: 0.3,
		RotationSmoothing:       0.1,
		HalfLength:              55,
		HalfWidth:               25,
		VerticalOffset:          120,
		ExhaustOffset:           45,
		CollisionRadius:         20,
		IdleBobAmplitude:        0,
		IdleBobSpeed:            0.05,
	}
}

// Ship is the pointer-steered player ship.
type Ship struct {
	X, Y           float64 // Position (centre of ship)
	PrevX, PrevY   float64 // Position on the previous frame
	Rotation       float64 // Drawn tilt in degrees
	TargetRotation float64 // Tilt the drawn angle is chasing
	Thrusting      bool
	Visible        bool

	// Engine exhaust anchor, consumed by particle renderers.
	ExhaustX, ExhaustY float64

	bobPhase float64
}

// NewShip creates a ship at the resting position for the given layout.
func NewShip(vp layout.Viewport, policy layout.AxisPolicy, cfg ShipConfig) *Ship {
	s := &Ship{}
	s.Reset(vp, policy, cfg)
	return s
}

// Reset puts the ship at the centre of the viewport (pinned near the bottom
// in the vertical layout), level and not thrusting.
func (s *Ship) Reset(vp layout.Viewport, policy layout.AxisPolicy, cfg ShipConfig) {
	x, y := policy.ShipTarget(vp.CenterX(), vp.CenterY(), vp, cfg.VerticalOffset)
	*s = Ship{
		X:       x,
		Y:       y,
		PrevX:   x,
		PrevY:   y,
		Visible: true,
	}
	s.updateExhaust(policy, cfg)
}

// RestingPoint returns where the pointer should start so the ship holds still.
func (s *Ship) RestingPoint() Pointer {
	return Pointer{X: s.X, Y: s.Y}
}

// Update steers the ship toward the pointer for one frame.
func (s *Ship) Update(p Pointer, policy layout.AxisPolicy, vp layout.Viewport, cfg ShipConfig) {
	tx, ty := policy.ShipTarget(p.X, p.Y, vp, cfg.VerticalOffset)

	if !s.Thrusting && cfg.IdleBobAmplitude > 0 {
		s.bobPhase += cfg.IdleBobSpeed
		dx, dy := policy.Lateral(math.Sin(s.bobPhase) * cfg.IdleBobAmplitude)
		tx += dx
		ty += dy
	}

	s.steer(tx, ty, policy, vp, cfg)
}

// GlideTo steers the ship toward a fixed point (landing autopilot).
func (s *Ship) GlideTo(x, y float64, policy layout.AxisPolicy, vp layout.Viewport, cfg ShipConfig) {
	s.steer(x, y, policy, vp, cfg)
}

// steer applies exponential smoothing toward (tx, ty), clamps to the safe
// area, then runs the two-stage rotation filter.
func (s *Ship) steer(tx, ty float64, policy layout.AxisPolicy, vp layout.Viewport, cfg ShipConfig) {
	s.PrevX, s.PrevY = s.X, s.Y

	x := physics.Smooth(s.X, tx, cfg.PositionSmoothing)
	y := physics.Smooth(s.Y, ty, cfg.PositionSmoothing)

	mx, my := policy.Margins(cfg.HalfLength, cfg.HalfWidth)
	s.X = physics.ClampF(x, mx, vp.Width-mx)
	s.Y = physics.ClampF(y, my, vp.Height-my)

	limit := math.Abs(cfg.MaxRotation)
	raw := policy.RotationVelocity(s.X-s.PrevX, s.Y-s.PrevY) * cfg.RotationGain
	raw = physics.ClampF(raw, -limit, limit)

	s.TargetRotation = physics.Smooth(s.TargetRotation, raw, cfg.TargetRotationSmoothing)
	s.Rotation = physics.ClampF(
		physics.Smooth(s.Rotation, s.TargetRotation, cfg.RotationSmoothing),
		-limit, limit,
	)

	s.updateExhaust(policy, cfg)
}

// Heading returns the unit vector the ship's nose points along.
func (s *Ship) Heading(policy layout.AxisPolicy) (float64, float64) {
	return policy.Heading(s.Rotation)
}

func (s *Ship) updateExhaust(policy layout.AxisPolicy, cfg ShipConfig) {
	fx, fy := policy.Heading(s.Rotation)
	s.ExhaustX = s.X - fx*cfg.ExhaustOffset
	s.ExhaustY = s.Y - fy*cfg.ExhaustOffset
}
