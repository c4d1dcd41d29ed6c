package draw

// ShipShape fills dst (length 4) with the ship outline: nose, right wing,
// tail notch, left wing. (hx, hy) is the unit heading the nose points along.
func ShipShape(dst []Point, x, y, hx, hy, halfLength, halfWidth float64) []Point {
	// Perpendicular to the heading.
	px, py := -hy, hx

	dst = dst[:4]
	dst[0] = Point{X: x + hx*halfLength, Y: y + hy*halfLength}
	dst[1] = Point{X: x - hx*halfLength + px*halfWidth, Y: y - hy*halfLength + py*halfWidth}
	dst[2] = Point{X: x - hx*halfLength*0.5, Y: y - hy*halfLength*0.5}
	dst[3] = Point{X: x - hx*halfLength - px*halfWidth, Y: y - hy*halfLength - py*halfWidth}
	return dst
}

// FlameShape fills dst (length 3) with an exhaust flame behind the anchor
// (ax, ay). flicker in [0, 1] varies the flame length between frames.
func FlameShape(dst []Point, ax, ay, hx, hy, length, halfWidth, flicker float64) []Point {
	px, py := -hy, hx
	l := length * (0.6 + 0.4*flicker)

	dst = dst[:3]
	dst[0] = Point{X: ax + px*halfWidth, Y: ay + py*halfWidth}
	dst[1] = Point{X: ax - hx*l, Y: ay - hy*l}
	dst[2] = Point{X: ax - px*halfWidth, Y: ay - py*halfWidth}
	return dst
}
