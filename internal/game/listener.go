package game

// Listener receives discrete events for cosmetic playback (explosions,
// victory screens, intro rewinds). Calls happen synchronously on the frame
// goroutine; implementations must not call back into the GameCore.
type Listener interface {
	OnStateChange(from, to State)
	OnCrash(x, y float64, points int)
	OnVictory(stage Stage, generation uint64)
	OnScrollReset()
	OnHighScore(points int)
}

// NopListener ignores every event. Embed it to implement only some methods.
type NopListener struct{}

var _ Listener = NopListener{}

func (NopListener) OnStateChange(State, State) {}
func (NopListener) OnCrash(float64, float64, int) {}
func (NopListener) OnVictory(Stage, uint64) {}
func (NopListener) OnScrollReset() {}
func (NopListener) OnHighScore(int) {}
