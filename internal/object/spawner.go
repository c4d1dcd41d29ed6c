package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/stardrift/internal/layout"
)

// SpawnConfig controls obstacle creation.
type SpawnConfig struct {
	Base    float64 // Frames between spawns at difficulty 1
	MinSize float64 // Smallest diameter
	MaxSize float64 // Largest diameter (exclusive)
}

// DefaultSpawnConfig returns the standard spawn parameters.
func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		Base:    100,
		MinSize: 40,
		MaxSize: 100,
	}
}

// ObstacleSpawner counts thrusting frames and decides when a new obstacle
// enters. The interval shrinks as difficulty grows.
type ObstacleSpawner struct {
	cfg     SpawnConfig
	rng     *rand.Rand
	counter int
	nextID  uint64
}

// NewObstacleSpawner creates a spawner drawing sizes and positions from rng.
func NewObstacleSpawner(cfg SpawnConfig, rng *rand.Rand) *ObstacleSpawner {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &ObstacleSpawner{
		cfg: cfg,
		rng: rng,
	}
}

// Threshold returns the spawn interval in frames for a difficulty.
func (s *ObstacleSpawner) Threshold(difficulty float64) float64 {
	if difficulty <= 0 {
		difficulty = 1
	}
	return s.cfg.Base / difficulty
}

// Tick counts one thrusting frame. Returns true when an obstacle is due,
// in which case the counter starts over.
func (s *ObstacleSpawner) Tick(difficulty float64) bool {
	s.counter++
	if float64(s.counter) >= s.Threshold(difficulty) {
		s.counter = 0
		return true
	}
	return false
}

// Reset zeroes the frame counter.
func (s *ObstacleSpawner) Reset() {
	s.counter = 0
}

// Spawn creates an obstacle at the entry edge with a random size and a
// random lateral position that keeps it fully on screen.
func (s *ObstacleSpawner) Spawn(policy layout.AxisPolicy, vp layout.Viewport) Obstacle {
	size := s.cfg.MinSize + s.rng.Float64()*(s.cfg.MaxSize-s.cfg.MinSize)
	room := math.Max(policy.LateralExtent(vp)-size, 0)

	s.nextID++
	return Obstacle{
		ID:      s.nextID,
		Lead:    policy.SpawnLead(vp, size),
		Lateral: s.rng.Float64() * room,
		Size:    size,
		Alpha:   1,
	}
}
