// Package layout describes the viewport and which screen axis the ship travels along.
package layout

import "github.com/tomz197/stardrift/internal/physics"

// Viewport is the visible play area in logical pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// CenterX returns the horizontal centre of the viewport.
func (v Viewport) CenterX() float64 {
	return v.Width / 2
}

// CenterY returns the vertical centre of the viewport.
func (v Viewport) CenterY() float64 {
	return v.Height / 2
}

// Portrait reports whether the viewport is taller than it is wide.
func (v Viewport) Portrait() bool {
	return v.Width < v.Height
}

// AxisPolicy captures everything that differs between the horizontal
// (desktop) and vertical (mobile) layouts. One policy is selected per frame;
// ship and obstacle code never branch on layout themselves.
//
// Obstacles are described by a leading-edge coordinate along the travel axis
// and a lateral coordinate across it; the policy maps those to screen space.
type AxisPolicy interface {
	// Vertical reports whether obstacles travel top to bottom.
	Vertical() bool

	// ShipTarget returns the position the ship steers toward for a pointer.
	// pinOffset is the distance from the bottom edge used when the primary
	// coordinate is pinned.
	ShipTarget(px, py float64, vp Viewport, pinOffset float64) (x, y float64)

	// Margins returns the ship's edge clearance on X and Y given its half
	// length (along its nose) and half width.
	Margins(halfLength, halfWidth float64) (mx, my float64)

	// RotationVelocity picks the displacement component that tilts the ship.
	RotationVelocity(dx, dy float64) float64

	// Heading returns the unit vector the ship's nose points along for a
	// rotation in degrees.
	Heading(rotationDeg float64) (fx, fy float64)

	// Lateral converts an offset across the travel axis to a screen vector.
	Lateral(amount float64) (dx, dy float64)

	// LateralExtent is the viewport size across the travel axis.
	LateralExtent(vp Viewport) float64

	// SpawnLead is the leading-edge coordinate of a freshly spawned obstacle.
	SpawnLead(vp Viewport, size float64) float64

	// Advance moves a leading edge by delta in the travel direction.
	Advance(lead, delta float64) float64

	// Passed reports whether an obstacle is margin beyond the trailing edge.
	Passed(lead float64, vp Viewport, margin float64) bool

	// ToScreen converts (lead, lateral) to screen (x, y).
	ToScreen(lead, lateral float64) (x, y float64)

	// Scroll returns the screen velocity of background scenery for a speed.
	Scroll(speed float64) (vx, vy float64)
}

// Select returns the policy for a viewport. Portrait viewports, or any
// viewport when forceVertical is set, use the vertical layout.
func Select(vp Viewport, forceVertical bool) AxisPolicy {
	if forceVertical || vp.Portrait() {
		return Vertical{}
	}
	return Horizontal{}
}

// Horizontal is the desktop layout: obstacles enter on the right and travel
// left, the ship follows the pointer on both axes and pitches with vertical motion.
type Horizontal struct{}

var _ AxisPolicy = Horizontal{}

func (Horizontal) Vertical() bool { return false }

func (Horizontal) ShipTarget(px, py float64, _ Viewport, _ float64) (float64, float64) {
	return px, py
}

func (Horizontal) Margins(halfLength, halfWidth float64) (float64, float64) {
	return halfLength, halfWidth
}

func (Horizontal) RotationVelocity(_, dy float64) float64 { return dy }

func (Horizontal) Heading(rotationDeg float64) (float64, float64) {
	return physics.Rotate(1, 0, physics.Deg2Rad(rotationDeg))
}

func (Horizontal) Lateral(amount float64) (float64, float64) { return 0, amount }

func (Horizontal) LateralExtent(vp Viewport) float64 { return vp.Height }

func (Horizontal) SpawnLead(vp Viewport, _ float64) float64 { return vp.Width }

func (Horizontal) Advance(lead, delta float64) float64 { return lead - delta }

func (Horizontal) Passed(lead float64, _ Viewport, margin float64) bool {
	return lead < -margin
}

func (Horizontal) ToScreen(lead, lateral float64) (float64, float64) { return lead, lateral }

func (Horizontal) Scroll(speed float64) (float64, float64) { return -speed, 0 }

// Vertical is the mobile layout: obstacles enter at the top and fall, the
// ship is pinned near the bottom, follows the pointer horizontally and
// rolls with horizontal motion.
type Vertical struct{}

var _ AxisPolicy = Vertical{}

func (Vertical) Vertical() bool { return true }

func (Vertical) ShipTarget(px, _ float64, vp Viewport, pinOffset float64) (float64, float64) {
	return px, vp.Height - pinOffset
}

// Margins swaps the extents because the ship is turned to face up.
func (Vertical) Margins(halfLength, halfWidth float64) (float64, float64) {
	return halfWidth, halfLength
}

func (Vertical) RotationVelocity(dx, _ float64) float64 { return dx }

// Heading is measured from straight up, positive rolls to the right.
func (Vertical) Heading(rotationDeg float64) (float64, float64) {
	return physics.Rotate(0, -1, physics.Deg2Rad(rotationDeg))
}

func (Vertical) Lateral(amount float64) (float64, float64) { return amount, 0 }

func (Vertical) LateralExtent(vp Viewport) float64 { return vp.Width }

func (Vertical) SpawnLead(_ Viewport, size float64) float64 { return -size }

func (Vertical) Advance(lead, delta float64) float64 { return lead + delta }

func (Vertical) Passed(lead float64, vp Viewport, margin float64) bool {
	return lead > vp.Height+margin
}

func (Vertical) ToScreen(lead, lateral float64) (float64, float64) { return lateral, lead }

func (Vertical) Scroll(speed float64) (float64, float64) { return 0, speed }
