package game

import (
	"time"

	"github.com/tomz197/stardrift/internal/object"
)

// BaseDifficulty is the difficulty at the start of every round and the
// floor it never decays below.
const BaseDifficulty = 1.0

// Tuning centralizes every gameplay parameter of a GameCore.
type Tuning struct {
	Ship  object.ShipConfig
	Spawn object.SpawnConfig

	// Obstacles
	ObstacleBaseSpeed float64 // Pixels per frame at difficulty 1
	CullMargin        float64 // Distance past the trailing edge before removal
	FadeStep          float64 // Alpha lost per frame while landing

	// Difficulty and score
	MaxDifficulty    float64
	DifficultyStep   float64 // Added every thrusting frame
	ReleaseDecay     float64 // Removed when thrust is released
	ScoreRate        float64 // Score per frame per unit of difficulty
	VictoryThreshold int     // Points that trigger the landing sequence

	// Timed sequences
	CrashDelay       time.Duration
	LandingApproach  time.Duration
	LandingTouchdown time.Duration
	LandingCelebrate time.Duration

	// Background
	StarCount int
	StarBoost float64 // Star speed multiplier while thrusting

	// Layout
	ForceVertical bool // Use the vertical layout regardless of aspect ratio
}

// DefaultTuning returns the standard game parameters.
func DefaultTuning() Tuning {
	return Tuning{
		Ship:  object.DefaultShipConfig(),
		Spawn: object.DefaultSpawnConfig(),

		ObstacleBaseSpeed: 6,
		CullMargin:        200,
		FadeStep:          0.02,

		MaxDifficulty:    4,
		DifficultyStep:   0.001,
		ReleaseDecay:     0.5,
		ScoreRate:        0.1,
		VictoryThreshold: 1000,

		CrashDelay:       2 * time.Second,
		LandingApproach:  2 * time.Second,
		LandingTouchdown: 3 * time.Second,
		LandingCelebrate: 4 * time.Second,

		StarCount: 100,
		StarBoost: 25,
	}
}
