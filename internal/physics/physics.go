// Package physics provides collision detection, smoothing and clamping utilities.
package physics

import "math"

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CirclesOverlap checks if two circles overlap.
// Touching circles (distance == r1 + r2) do not overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// Smooth moves current toward target by the given fraction (exponential smoothing).
// A factor of 1 snaps to target, 0 leaves current unchanged.
func Smooth(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

// ClampF restricts a value to be within [lo, hi].
// When the range is inverted (hi < lo) the midpoint is returned.
func ClampF(val, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rotate rotates the vector (x, y) by angle radians.
func Rotate(x, y, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return x*cos - y*sin, x*sin + y*cos
}
