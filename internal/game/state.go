package game

import "fmt"

// State is the game phase. Exactly one is active per GameCore.
type State int

const (
	StateIdle      State = iota // Intro playing, no game
	StateCoasting               // Game running, thrust released
	StateThrusting              // Game running, thrust held: spawning and scoring
	StateCrashed                // Hit an obstacle, waiting out the crash delay
	StateLanding                // Victory sequence, not interactive
	StateResetting              // Clearing the round before returning to Idle
)

var stateNames = [...]string{
	StateIdle:      "idle",
	StateCoasting:  "coasting",
	StateThrusting: "thrusting",
	StateCrashed:   "crashed",
	StateLanding:   "landing",
	StateResetting: "resetting",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Active reports whether the game is running (thrust on or off).
func (s State) Active() bool {
	return s == StateCoasting || s == StateThrusting
}

// Stage is the step of a timed multi-stage sequence.
type Stage int

const (
	StageNone Stage = iota
	StageCrashDelay
	StageLandingApproach
	StageLandingTouchdown
	StageLandingCelebrate
)

var stageNames = [...]string{
	StageNone:             "none",
	StageCrashDelay:       "crash_delay",
	StageLandingApproach:  "landing_approach",
	StageLandingTouchdown: "landing_touchdown",
	StageLandingCelebrate: "landing_celebrate",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
