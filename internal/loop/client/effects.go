package client

import (
	"github.com/tomz197/stardrift/internal/game"
	"github.com/tomz197/stardrift/internal/loop/config"
	"github.com/tomz197/stardrift/internal/object"
)

// effects plays the cosmetic side of game events for one client.
type effects struct {
	c *Client
}

var _ game.Listener = (*effects)(nil)

func (e *effects) OnStateChange(from, to game.State) {
	e.c.log.Debug("Game state", "user", e.c.handle.Username, "from", from, "to", to)
	if to == game.StateCoasting && from == game.StateIdle {
		e.c.state.newBest = false
	}
}

func (e *effects) OnCrash(x, y float64, points int) {
	e.c.state.crashPoints = points
	object.SpawnExplosion(x, y, config.ExplosionParticles, config.ExplosionSpeed, config.ExplosionLifetime, &e.c.particles)
}

func (e *effects) OnVictory(stage game.Stage, generation uint64) {
	e.c.state.victoryStage = stage
	e.c.state.victoryGen = generation
}

// OnScrollReset hands control back to the intro at its top.
func (e *effects) OnScrollReset() {
	e.c.intro.Rewind()
	e.c.particles.Clear()
}

func (e *effects) OnHighScore(int) {
	e.c.state.newBest = true
}
