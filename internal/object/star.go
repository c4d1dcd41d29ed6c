package object

import (
	"math/rand"

	"github.com/tomz197/stardrift/internal/layout"
)

// Star is a background point scrolling against the travel direction.
type Star struct {
	X, Y  float64
	Size  float64
	Speed float64 // Pixels per frame at normal speed
}

// Starfield is the scrolling background. Visual only.
type Starfield struct {
	Stars []Star
	rng   *rand.Rand
}

// NewStarfield scatters count stars over the viewport.
func NewStarfield(count int, vp layout.Viewport, rng *rand.Rand) *Starfield {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	f := &Starfield{
		Stars: make([]Star, count),
		rng:   rng,
	}
	f.Scatter(vp)
	return f
}

// Scatter places every star at a random position (used after a resize).
func (f *Starfield) Scatter(vp layout.Viewport) {
	for i := range f.Stars {
		f.Stars[i] = Star{
			X:     f.rng.Float64() * vp.Width,
			Y:     f.rng.Float64() * vp.Height,
			Size:  f.rng.Float64() * 2,
			Speed: f.rng.Float64()*2 + 0.5,
		}
	}
}

// Update scrolls every star by its speed times boost. Stars leaving the
// viewport re-enter at the spawn edge at a random lateral position.
func (f *Starfield) Update(policy layout.AxisPolicy, vp layout.Viewport, boost float64) {
	entry := policy.SpawnLead(vp, 0)
	extent := policy.LateralExtent(vp)

	for i := range f.Stars {
		st := &f.Stars[i]
		vx, vy := policy.Scroll(st.Speed * boost)
		st.X += vx
		st.Y += vy

		if st.X < 0 || st.X > vp.Width || st.Y < 0 || st.Y > vp.Height {
			st.X, st.Y = policy.ToScreen(entry, f.rng.Float64()*extent)
		}
	}
}
