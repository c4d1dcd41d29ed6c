package game

import "math"

// Difficulty tracks the difficulty multiplier and the running score.
type Difficulty struct {
	Level float64
	Score float64
}

// Reset returns to the start-of-round baseline.
func (d *Difficulty) Reset() {
	d.Level = BaseDifficulty
	d.Score = 0
}

// Tick ramps the level toward max and accrues score for one thrusting frame.
func (d *Difficulty) Tick(step, max, rate float64) {
	d.Level = math.Min(d.Level+step, math.Max(max, BaseDifficulty))
	d.Score += d.Level * rate
}

// Release applies the thrust-release penalty, never dropping below the baseline.
func (d *Difficulty) Release(decay float64) {
	d.Level = math.Max(d.Level-decay, BaseDifficulty)
}

// Points is the score as reported and persisted.
func (d Difficulty) Points() int {
	return int(math.Floor(d.Score))
}
