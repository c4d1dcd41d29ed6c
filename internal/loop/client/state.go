package client

import (
	"time"

	"github.com/tomz197/stardrift/internal/game"
	"github.com/tomz197/stardrift/internal/input"
)

// screenMode is what the client currently shows. A change clears the terminal.
type screenMode int

const (
	modeIntro screenMode = iota
	modePlaying
	modeCrashed
	modeLanding
	modeInactive
	modeShutdown
)

// ClientState holds per-connection presentation state. The game itself
// lives in the GameCore.
type ClientState struct {
	Input   input.Input
	Running bool          // Client loop running
	delta   time.Duration // Frame delta time

	prevMode     screenMode
	isInactive   bool    // Whether the client is in inactive warning state
	shuttingDown bool    // Server announced shutdown
	shutdownTime float64 // Countdown before auto-disconnect on shutdown

	crashPoints  int        // Score at the last crash
	newBest      bool       // This round beat the high score
	victoryStage game.Stage // Last landing stage announced
	victoryGen   uint64     // Generation of the landing sequence

	toast     string  // Transient message (e.g. someone else's record)
	toastTime float64 // Seconds left to show toast
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:  true,
		prevMode: -1,
	}
}

// Intro is the scrolling intro shown before each round. Reaching the last
// step launches the game; scrolling back from it abandons the game.
type Intro struct {
	step  int
	steps int
}

// NewIntro creates an intro with the given number of scroll steps.
func NewIntro(steps int) *Intro {
	return &Intro{steps: max(steps, 1)}
}

// Advance scrolls one step forward. Returns true when this reached the end.
func (in *Intro) Advance() bool {
	if in.step >= in.steps {
		return false
	}
	in.step++
	return in.step == in.steps
}

// Back scrolls one step backward. Returns true when this left the end.
func (in *Intro) Back() bool {
	if in.step == 0 {
		return false
	}
	left := in.step == in.steps
	in.step--
	return left
}

// Rewind returns to the top of the intro.
func (in *Intro) Rewind() {
	in.step = 0
}

// Done reports whether the intro has been scrolled to the end.
func (in *Intro) Done() bool {
	return in.step >= in.steps
}

// Step returns the current scroll position.
func (in *Intro) Step() int {
	return in.step
}

// Progress returns the scroll position in [0, 1].
func (in *Intro) Progress() float64 {
	return float64(in.step) / float64(in.steps)
}
