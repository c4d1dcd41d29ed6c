// Package config centralizes the host-side parameters and loads game tunables
// from the environment.
package config

import (
	"time"

	envconfig "github.com/tomz197/stardrift/internal/config"
	"github.com/tomz197/stardrift/internal/game"
)

// Logical pixels per terminal cell. A cell is one column wide and two
// half-block sub-pixels tall, so one sub-pixel is PixelsPerColumn square.
const (
	PixelsPerColumn = 10
	PixelsPerRow    = 2 * PixelsPerColumn
)

// Max render resolution - terminals larger than this are centered with a border.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 70
)

// Intro
const (
	IntroSteps = 6 // Scroll steps from the top of the intro to launch
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	TopScoresShown    = 5
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 10
	ServerTickTime = time.Second / ServerTickRate
)

// Particles
const (
	ExplosionParticles = 40
	ExplosionSpeed     = 250.0 // Logical pixels per second
	ExplosionLifetime  = 1.2   // Seconds
)

// LoadTuning returns the default game tuning with environment overrides applied.
func LoadTuning() game.Tuning {
	t := game.DefaultTuning()

	t.Ship.PositionSmoothing = envconfig.GetFloat("STARDRIFT_SMOOTHING", t.Ship.PositionSmoothing)
	t.Spawn.Base = envconfig.GetFloat("STARDRIFT_SPAWN_BASE", t.Spawn.Base)
	t.MaxDifficulty = envconfig.GetFloat("STARDRIFT_MAX_DIFFICULTY", t.MaxDifficulty)
	t.VictoryThreshold = envconfig.GetInt("STARDRIFT_VICTORY", t.VictoryThreshold)
	t.ForceVertical = envconfig.GetBool("STARDRIFT_VERTICAL", t.ForceVertical)

	return t
}
