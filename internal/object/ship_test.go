package object

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/stardrift/internal/layout"
)

func TestShipStaysInsideMargins(t *testing.T) {
	cfg := DefaultShipConfig()
	rng := rand.New(rand.NewSource(7))

	for _, vp := range []layout.Viewport{{Width: 1200, Height: 800}, {Width: 400, Height: 900}} {
		policy := layout.Select(vp, false)
		ship := NewShip(vp, policy, cfg)
		mx, my := policy.Margins(cfg.HalfLength, cfg.HalfWidth)

		for i := 0; i < 2000; i++ {
			// Pointer anywhere, including far outside the viewport.
			p := Pointer{X: (rng.Float64()*3 - 1) * vp.Width, Y: (rng.Float64()*3 - 1) * vp.Height}
			ship.Update(p, policy, vp, cfg)

			if ship.X < mx || ship.X > vp.Width-mx || ship.Y < my || ship.Y > vp.Height-my {
				t.Fatalf("frame %d: ship at (%f,%f) outside margins in %v", i, ship.X, ship.Y, vp)
			}
		}
	}
}

func TestShipRotationClamped(t *testing.T) {
	cfg := DefaultShipConfig()
	cfg.PositionSmoothing = 1 // snap, maximising per-frame velocity
	vp := layout.Viewport{Width: 1200, Height: 800}
	policy := layout.Horizontal{}
	ship := NewShip(vp, policy, cfg)

	for i := 0; i < 500; i++ {
		y := 25.0
		if i%2 == 0 {
			y = 775
		}
		ship.Update(Pointer{X: 600, Y: y}, policy, vp, cfg)
		if math.Abs(ship.Rotation) > cfg.MaxRotation || math.Abs(ship.TargetRotation) > cfg.MaxRotation {
			t.Fatalf("frame %d: rotation %f (target %f) exceeds ±%f", i, ship.Rotation, ship.TargetRotation, cfg.MaxRotation)
		}
	}
}

func TestShipSmoothsTowardPointer(t *testing.T) {
	cfg := DefaultShipConfig()
	vp := layout.Viewport{Width: 1200, Height: 800}
	policy := layout.Horizontal{}
	ship := NewShip(vp, policy, cfg)

	ship.Update(Pointer{X: 700, Y: 400}, policy, vp, cfg)
	if got, want := ship.X, 610.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("x after one frame = %f, want %f (10%% of the way)", got, want)
	}
	if ship.Rotation != 0 {
		t.Fatalf("horizontal-only motion tilted the ship: %f", ship.Rotation)
	}

	ship.Update(Pointer{X: 700, Y: 600}, policy, vp, cfg)
	if ship.Rotation <= 0 {
		t.Fatalf("moving down should pitch nose down (positive), got %f", ship.Rotation)
	}
}

func TestVerticalShipPinnedAndRolls(t *testing.T) {
	cfg := DefaultShipConfig()
	vp := layout.Viewport{Width: 400, Height: 900}
	policy := layout.Vertical{}
	ship := NewShip(vp, policy, cfg)

	wantY := vp.Height - cfg.VerticalOffset
	if ship.Y != wantY {
		t.Fatalf("reset y = %f, want pinned %f", ship.Y, wantY)
	}
	for i := 0; i < 30; i++ {
		ship.Update(Pointer{X: 350, Y: 10}, policy, vp, cfg)
	}
	if ship.Y != wantY {
		t.Fatalf("vertical pointer moved pinned ship to y=%f", ship.Y)
	}
	if ship.Rotation <= 0 {
		t.Fatalf("moving right should roll right (positive), got %f", ship.Rotation)
	}
}

func TestExhaustTrailsShip(t *testing.T) {
	cfg := DefaultShipConfig()
	vp := layout.Viewport{Width: 1200, Height: 800}
	ship := NewShip(vp, layout.Horizontal{}, cfg)

	if ship.ExhaustX != ship.X-cfg.ExhaustOffset || ship.ExhaustY != ship.Y {
		t.Fatalf("exhaust at (%f,%f), want (%f,%f)", ship.ExhaustX, ship.ExhaustY, ship.X-cfg.ExhaustOffset, ship.Y)
	}
}

func TestIdleBobIsDeterministic(t *testing.T) {
	cfg := DefaultShipConfig()
	cfg.IdleBobAmplitude = 8
	vp := layout.Viewport{Width: 1200, Height: 800}
	policy := layout.Horizontal{}

	run := func() []float64 {
		ship := NewShip(vp, policy, cfg)
		ys := make([]float64, 0, 60)
		for i := 0; i < 60; i++ {
			ship.Update(ship.RestingPoint(), policy, vp, cfg)
			ys = append(ys, ship.Y)
		}
		return ys
	}

	a, b := run(), run()
	moved := false
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("frame %d: bob differs between runs: %f vs %f", i, a[i], b[i])
		}
		if a[i] != vp.CenterY() {
			moved = true
		}
	}
	if !moved {
		t.Fatal("idle bob never moved the ship")
	}
}
