package object

import "github.com/tomz197/stardrift/internal/layout"

// Obstacle is a round hazard scrolling along the travel axis.
type Obstacle struct {
	ID      uint64  // Stable handle renderers key their visuals on
	Lead    float64 // Leading-edge coordinate along the travel axis
	Lateral float64 // Offset across the travel axis (top/left edge)
	Size    float64 // Diameter
	Alpha   float64 // Opacity, 1 = solid; drops while fading out
}

// Radius returns the obstacle's collision/draw radius.
func (o Obstacle) Radius() float64 {
	return o.Size / 2
}

// Center returns the obstacle's centre in screen coordinates.
func (o Obstacle) Center(policy layout.AxisPolicy) (float64, float64) {
	r := o.Radius()
	return policy.ToScreen(o.Lead+r, o.Lateral+r)
}

// Faded reports whether the obstacle has become fully transparent.
func (o Obstacle) Faded() bool {
	return o.Alpha <= 0
}
