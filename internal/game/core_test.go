package game

import (
	"context"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardrift/internal/layout"
	"github.com/tomz197/stardrift/internal/object"
	"github.com/tomz197/stardrift/internal/store"
)

const dt = time.Second / 60

type recorder struct {
	NopListener
	states       []State
	crashes      int
	victories    []Stage
	generations  []uint64
	scrollResets int
	highScores   []int
}

func (r *recorder) OnStateChange(_, to State) { r.states = append(r.states, to) }
func (r *recorder) OnCrash(float64, float64, int) { r.crashes++ }
func (r *recorder) OnScrollReset() { r.scrollResets++ }
func (r *recorder) OnHighScore(points int) { r.highScores = append(r.highScores, points) }
func (r *recorder) OnVictory(stage Stage, gen uint64) {
	r.victories = append(r.victories, stage)
	r.generations = append(r.generations, gen)
}

type countingStore struct {
	*store.Memory
	highWrites int
	flagWrites int
}

func (s *countingStore) WriteHighScore(ctx context.Context, score int) error {
	s.highWrites++
	return s.Memory.WriteHighScore(ctx, score)
}

func (s *countingStore) WriteInfiniteModeUnlocked(ctx context.Context, unlocked bool) error {
	s.flagWrites++
	return s.Memory.WriteInfiniteModeUnlocked(ctx, unlocked)
}

// quietTuning disables spawning so rounds only end when a test says so.
func quietTuning() Tuning {
	t := DefaultTuning()
	t.Spawn.Base = 1e9
	t.CrashDelay = 100 * time.Millisecond
	t.LandingApproach = 100 * time.Millisecond
	t.LandingTouchdown = 100 * time.Millisecond
	t.LandingCelebrate = 100 * time.Millisecond
	return t
}

func newTestCore(tuning Tuning, vp layout.Viewport, s store.Store, l Listener) *GameCore {
	return New(context.Background(), Options{
		Tuning:   &tuning,
		Viewport: vp,
		Store:    s,
		Listener: l,
		Logger:   log.New(io.Discard),
		Rand:     rand.New(rand.NewSource(1)),
	})
}

func stepUntil(c *GameCore, max int, done func() bool) bool {
	for i := 0; i < max; i++ {
		if done() {
			return true
		}
		c.Step(dt)
	}
	return done()
}

func TestCollidesStrictly(t *testing.T) {
	tests := []struct {
		name   string
		ox, oy float64
		want   bool
	}{
		{"overlapping", 110, 100, true},
		{"far apart", 200, 100, false},
		{"touching", 135, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(100, 100, 15, tt.ox, tt.oy, 20); got != tt.want {
				t.Errorf("Collides = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnableGameCentresShip(t *testing.T) {
	tests := []struct {
		name   string
		vp     layout.Viewport
		wantX  float64
		wantY  float64
		vertic bool
	}{
		{"landscape", layout.Viewport{Width: 800, Height: 600}, 400, 300, false},
		{"portrait", layout.Viewport{Width: 400, Height: 800}, 200, 680, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCore(quietTuning(), tt.vp, nil, nil)
			c.EnableGame()

			if c.State() != StateCoasting {
				t.Fatalf("state = %v, want coasting", c.State())
			}
			s := c.Ship()
			if s.X != tt.wantX || s.Y != tt.wantY {
				t.Errorf("ship at (%v, %v), want (%v, %v)", s.X, s.Y, tt.wantX, tt.wantY)
			}
			if s.Rotation != 0 {
				t.Errorf("rotation = %v, want 0", s.Rotation)
			}
			if c.Policy().Vertical() != tt.vertic {
				t.Errorf("vertical = %v, want %v", c.Policy().Vertical(), tt.vertic)
			}
			if c.Difficulty().Level != BaseDifficulty || c.Points() != 0 {
				t.Errorf("difficulty not reset: %+v", c.Difficulty())
			}
		})
	}
}

func TestInvalidTransitionsAreIgnored(t *testing.T) {
	rec := &recorder{}
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, rec)

	c.SetThrust(true)
	c.TriggerCrash()
	c.DisableGame()
	c.SetPointer(10, 10)

	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if len(rec.states) != 0 {
		t.Errorf("unexpected transitions %v", rec.states)
	}
	if p := c.Pointer(); p.X == 10 && p.Y == 10 {
		t.Error("pointer accepted while idle")
	}

	c.EnableGame()
	c.EnableGame()
	if len(rec.states) != 1 {
		t.Errorf("EnableGame twice gave transitions %v", rec.states)
	}
}

func TestVictoryEndToEnd(t *testing.T) {
	tuning := quietTuning()
	tuning.VictoryThreshold = 50
	tuning.ScoreRate = 1

	rec := &recorder{}
	st := &countingStore{Memory: store.NewMemory(store.Progress{})}
	c := newTestCore(tuning, layout.Viewport{Width: 800, Height: 600}, st, rec)

	c.EnableGame()
	c.SetThrust(true)

	if !stepUntil(c, 1000, func() bool { return c.State() != StateThrusting }) {
		t.Fatal("round never left thrusting")
	}
	if c.State() != StateLanding {
		t.Fatalf("state = %v, want landing", c.State())
	}
	if !c.InfiniteUnlocked() {
		t.Error("infinite mode not unlocked")
	}
	if ok, _ := st.ReadInfiniteModeUnlocked(context.Background()); !ok {
		t.Error("unlock not persisted")
	}
	if hs, _ := st.ReadHighScore(context.Background()); hs < 50 {
		t.Errorf("persisted high score = %d, want >= 50", hs)
	}

	// Not interactive while landing.
	c.SetThrust(true)
	c.SetThrust(false)
	if c.State() != StateLanding {
		t.Fatalf("thrust changed landing state to %v", c.State())
	}

	if !stepUntil(c, 1000, func() bool { return c.State() == StateIdle }) {
		t.Fatal("landing never finished")
	}

	want := []State{StateCoasting, StateThrusting, StateLanding, StateResetting, StateIdle}
	if len(rec.states) != len(want) {
		t.Fatalf("transitions = %v, want %v", rec.states, want)
	}
	for i := range want {
		if rec.states[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", rec.states, want)
		}
	}

	wantStages := []Stage{StageLandingApproach, StageLandingTouchdown, StageLandingCelebrate}
	if len(rec.victories) != len(wantStages) {
		t.Fatalf("victory stages = %v, want %v", rec.victories, wantStages)
	}
	for i := range wantStages {
		if rec.victories[i] != wantStages[i] || rec.generations[i] != rec.generations[0] {
			t.Errorf("victory event %d = %v gen %d", i, rec.victories[i], rec.generations[i])
		}
	}
	if rec.scrollResets != 1 {
		t.Errorf("scroll resets = %d, want 1", rec.scrollResets)
	}
	if st.flagWrites != 1 {
		t.Errorf("flag writes = %d, want 1", st.flagWrites)
	}
}

func TestInfiniteModeSkipsVictory(t *testing.T) {
	tuning := quietTuning()
	tuning.VictoryThreshold = 10
	tuning.ScoreRate = 1

	st := store.NewMemory(store.Progress{InfiniteUnlocked: true})
	c := newTestCore(tuning, layout.Viewport{Width: 800, Height: 600}, st, nil)
	c.EnableGame()
	c.SetThrust(true)

	for i := 0; i < 100; i++ {
		c.Step(dt)
	}
	if c.State() != StateThrusting {
		t.Fatalf("state = %v, want thrusting", c.State())
	}
	if c.Points() < 100 {
		t.Errorf("points = %d, want >= 100", c.Points())
	}
}

func TestDoubleCrashWritesOnce(t *testing.T) {
	rec := &recorder{}
	st := &countingStore{Memory: store.NewMemory(store.Progress{})}
	tuning := quietTuning()
	tuning.ScoreRate = 1
	c := newTestCore(tuning, layout.Viewport{Width: 800, Height: 600}, st, rec)

	c.EnableGame()
	c.SetThrust(true)
	for i := 0; i < 30; i++ {
		c.Step(dt)
	}
	points := c.Points()
	if points == 0 {
		t.Fatal("no score accrued")
	}

	c.TriggerCrash()
	c.TriggerCrash()
	if c.State() != StateCrashed {
		t.Fatalf("state = %v, want crashed", c.State())
	}
	if rec.crashes != 1 {
		t.Errorf("crash events = %d, want 1", rec.crashes)
	}
	if c.Ship().Visible {
		t.Error("ship still visible after crash")
	}

	// Frozen while the crash delay runs.
	c.SetThrust(true)
	c.Step(dt)
	if c.Points() != points {
		t.Errorf("points changed after crash: %d -> %d", points, c.Points())
	}

	if !stepUntil(c, 100, func() bool { return c.State() == StateIdle }) {
		t.Fatal("crash delay never ended")
	}
	if st.highWrites != 1 {
		t.Errorf("high score writes = %d, want 1", st.highWrites)
	}
	if hs, _ := st.ReadHighScore(context.Background()); hs != points {
		t.Errorf("persisted = %d, want %d", hs, points)
	}
	if c.HighScore() != points {
		t.Errorf("cached high score = %d, want %d", c.HighScore(), points)
	}
	if len(rec.highScores) != 1 {
		t.Errorf("high score events = %v", rec.highScores)
	}

	crashed := 0
	for _, s := range rec.states {
		if s == StateCrashed {
			crashed++
		}
	}
	if crashed != 1 {
		t.Errorf("entered crashed %d times", crashed)
	}
}

func TestDisableGameAfterCrashSubmitsScore(t *testing.T) {
	rec := &recorder{}
	st := &countingStore{Memory: store.NewMemory(store.Progress{})}
	tuning := quietTuning()
	tuning.ScoreRate = 1
	c := newTestCore(tuning, layout.Viewport{Width: 800, Height: 600}, st, rec)

	c.EnableGame()
	c.SetThrust(true)
	for i := 0; i < 30; i++ {
		c.Step(dt)
	}
	points := c.Points()
	if points == 0 {
		t.Fatal("no score accrued")
	}

	c.TriggerCrash()
	c.DisableGame()
	c.Step(dt)

	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if st.highWrites != 1 {
		t.Errorf("high score writes = %d, want 1", st.highWrites)
	}
	if hs, _ := st.ReadHighScore(context.Background()); hs != points {
		t.Errorf("persisted = %d, want %d", hs, points)
	}
	if c.HighScore() != points {
		t.Errorf("cached high score = %d, want %d", c.HighScore(), points)
	}
	if rec.scrollResets != 0 {
		t.Errorf("scroll resets = %d, want 0", rec.scrollResets)
	}
}

func TestLowerScoreIsNotWritten(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory(store.Progress{HighScore: 1000})}
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, st, nil)

	c.EnableGame()
	c.SetThrust(true)
	c.Step(dt)
	c.TriggerCrash()
	stepUntil(c, 100, func() bool { return c.State() == StateIdle })

	if st.highWrites != 0 {
		t.Errorf("high score writes = %d, want 0", st.highWrites)
	}
	if c.HighScore() != 1000 {
		t.Errorf("high score = %d, want 1000", c.HighScore())
	}
}

func TestDifficultyStaysInBounds(t *testing.T) {
	tuning := quietTuning()
	tuning.DifficultyStep = 0.05
	c := newTestCore(tuning, layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		c.SetThrust(rng.Intn(10) != 0)
		c.Step(dt)

		lvl := c.Difficulty().Level
		if lvl < BaseDifficulty || lvl > tuning.MaxDifficulty {
			t.Fatalf("frame %d: difficulty %v out of bounds", i, lvl)
		}
	}
}

func TestReleasePenalty(t *testing.T) {
	tuning := quietTuning()
	tuning.DifficultyStep = 0.1
	c := newTestCore(tuning, layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()
	c.SetThrust(true)
	for i := 0; i < 10; i++ {
		c.Step(dt)
	}
	before := c.Difficulty().Level
	c.SetThrust(false)

	if c.State() != StateCoasting {
		t.Fatalf("state = %v, want coasting", c.State())
	}
	if got := c.Difficulty().Level; got != before-tuning.ReleaseDecay {
		t.Errorf("level = %v, want %v", got, before-tuning.ReleaseDecay)
	}
}

func TestScoreNonDecreasingWhileThrusting(t *testing.T) {
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()
	c.SetThrust(true)

	last := c.Difficulty().Score
	for i := 0; i < 500; i++ {
		c.SetPointer(float64(i%800), float64((i*7)%600))
		c.Step(dt)
		s := c.Difficulty().Score
		if s < last {
			t.Fatalf("score dropped from %v to %v", last, s)
		}
		last = s
	}
}

func TestObstacleHitCrashes(t *testing.T) {
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()
	c.SetThrust(true)

	// Centred on the ship after this frame's move of 6 px.
	c.obstacles = append(c.obstacles,
		object.Obstacle{ID: 1, Lead: 386, Lateral: 280, Size: 40, Alpha: 1},
		object.Obstacle{ID: 2, Lead: 700, Lateral: 0, Size: 40, Alpha: 1},
	)
	c.Step(dt)

	if c.State() != StateCrashed {
		t.Fatalf("state = %v, want crashed", c.State())
	}
	obs := c.Obstacles()
	if len(obs) != 1 || obs[0].ID != 2 {
		t.Fatalf("obstacles = %+v, want only ID 2", obs)
	}
	if obs[0].Lead != 694 {
		t.Errorf("surviving obstacle lead = %v, want 694", obs[0].Lead)
	}
}

func TestObstaclesFrozenWhileCoasting(t *testing.T) {
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()
	c.obstacles = append(c.obstacles, object.Obstacle{ID: 1, Lead: 600, Lateral: 0, Size: 40, Alpha: 1})

	for i := 0; i < 10; i++ {
		c.Step(dt)
	}
	if obs := c.Obstacles(); len(obs) != 1 || obs[0].Lead != 600 {
		t.Errorf("obstacles moved while coasting: %+v", obs)
	}
}

func TestObstaclesCulledOffScreen(t *testing.T) {
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()
	c.SetThrust(true)
	c.obstacles = append(c.obstacles, object.Obstacle{ID: 1, Lead: -195, Lateral: 0, Size: 40, Alpha: 1})

	c.Step(dt)
	if n := len(c.Obstacles()); n != 0 {
		t.Errorf("obstacles = %d, want 0", n)
	}
}

func TestLandingFadesWithoutCollision(t *testing.T) {
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()
	c.SetThrust(true)
	c.Step(dt)
	c.beginLanding()

	c.obstacles = append(c.obstacles, object.Obstacle{ID: 1, Lead: 380, Lateral: 280, Size: 40, Alpha: 1})
	c.Step(dt)

	if c.State() != StateLanding {
		t.Fatalf("state = %v, want landing", c.State())
	}
	obs := c.Obstacles()
	if len(obs) != 1 {
		t.Fatalf("obstacles = %d, want 1", len(obs))
	}
	if obs[0].Alpha >= 1 {
		t.Errorf("alpha = %v, want < 1", obs[0].Alpha)
	}

	for i := 0; i < 60; i++ {
		c.Step(dt)
	}
	if n := len(c.Obstacles()); n != 0 {
		t.Errorf("faded obstacles still live: %d", n)
	}
}

func TestStaleGenerationRejected(t *testing.T) {
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()
	c.SetThrust(true)
	c.Step(dt)
	c.TriggerCrash()

	gen := c.Sequence().Generation
	if !c.SequenceCurrent(gen) {
		t.Fatal("running sequence not current")
	}

	c.DisableGame()
	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if c.SequenceCurrent(gen) {
		t.Error("stale generation still current after reset")
	}

	// The cancelled crash delay must not fire later.
	c.EnableGame()
	for i := 0; i < 30; i++ {
		c.Step(dt)
	}
	if c.State() != StateCoasting {
		t.Errorf("state = %v, want coasting", c.State())
	}
}

func TestDisableGameSkipsScrollReset(t *testing.T) {
	rec := &recorder{}
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, rec)
	c.EnableGame()
	c.DisableGame()

	if rec.scrollResets != 0 {
		t.Errorf("scroll resets = %d, want 0", rec.scrollResets)
	}
	want := []State{StateCoasting, StateResetting, StateIdle}
	if len(rec.states) != len(want) {
		t.Fatalf("transitions = %v, want %v", rec.states, want)
	}
}

func TestAxisFlipDropsObstacles(t *testing.T) {
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, nil, nil)
	c.EnableGame()
	c.obstacles = append(c.obstacles, object.Obstacle{ID: 1, Lead: 400, Lateral: 300, Size: 40, Alpha: 1})

	c.SetViewport(1000, 600)
	if len(c.obstacles) != 1 {
		t.Fatalf("obstacles = %d after same-axis resize, want 1", len(c.obstacles))
	}

	c.SetViewport(600, 800)
	if len(c.obstacles) != 0 {
		t.Errorf("obstacles = %d after rotating to portrait, want 0", len(c.obstacles))
	}
	if f := c.Snapshot(nil); !f.Vertical {
		t.Error("portrait frame not vertical")
	}
}

func TestSnapshotResolvesObstacles(t *testing.T) {
	c := newTestCore(quietTuning(), layout.Viewport{Width: 400, Height: 800}, nil, nil)
	c.EnableGame()
	c.obstacles = append(c.obstacles, object.Obstacle{ID: 9, Lead: 100, Lateral: 50, Size: 40, Alpha: 1})

	f := c.Snapshot(nil)
	if !f.Vertical {
		t.Error("portrait frame not vertical")
	}
	if len(f.Obstacles) != 1 {
		t.Fatalf("obstacles = %d, want 1", len(f.Obstacles))
	}
	o := f.Obstacles[0]
	if o.X != 70 || o.Y != 120 || o.Radius != 20 {
		t.Errorf("obstacle view = %+v, want centre (70, 120) r 20", o)
	}
	if len(f.Stars) != c.Tuning().StarCount {
		t.Errorf("stars = %d", len(f.Stars))
	}

	again := c.Snapshot(f)
	if again != f {
		t.Error("Snapshot did not reuse dst")
	}
}

func TestMalformedSaveReadsAsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.msgpack")
	if err := os.WriteFile(path, []byte("not msgpack"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := newTestCore(quietTuning(), layout.Viewport{Width: 800, Height: 600}, store.NewFile(path), nil)
	if c.HighScore() != 0 || c.InfiniteUnlocked() {
		t.Errorf("got high %d unlocked %v, want zero", c.HighScore(), c.InfiniteUnlocked())
	}
}
