package game

import (
	"github.com/tomz197/stardrift/internal/layout"
	"github.com/tomz197/stardrift/internal/object"
	"github.com/tomz197/stardrift/internal/physics"
)

// Collides reports whether the ship circle overlaps an obstacle circle.
// Touching circles do not collide. Discrete test against this frame's
// positions only; a fast enough obstacle can pass through between frames.
func Collides(shipX, shipY, shipRadius, obstacleX, obstacleY, obstacleRadius float64) bool {
	return physics.CirclesOverlap(shipX, shipY, shipRadius, obstacleX, obstacleY, obstacleRadius)
}

func (c *GameCore) hits(o object.Obstacle, policy layout.AxisPolicy) bool {
	ox, oy := o.Center(policy)
	return Collides(c.ship.X, c.ship.Y, c.tuning.Ship.CollisionRadius, ox, oy, o.Radius())
}
