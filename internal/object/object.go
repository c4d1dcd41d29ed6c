// Package object holds the game entities: ship, obstacles, stars and particles.
package object

import (
	"time"
)

// Pointer is the latest raw input coordinate (mouse or single touch).
// Last write wins; intermediate events between frames are overwritten.
type Pointer struct {
	X, Y float64
}

// Spawner accepts newly created particles.
type Spawner interface {
	Spawn(p *Particle)
}

// Particles is a collection of pooled particles owned by a renderer.
// Implements Spawner.
type Particles struct {
	items []*Particle
}

var _ Spawner = (*Particles)(nil)

// Spawn adds a particle to the collection.
func (ps *Particles) Spawn(p *Particle) {
	ps.items = append(ps.items, p)
}

// Update advances all particles and releases the expired ones back to the pool.
func (ps *Particles) Update(delta time.Duration) {
	kept := ps.items[:0] // reuse backing array
	for _, p := range ps.items {
		if p.Update(delta) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(ps.items[len(kept):])
	ps.items = kept
}

// Each calls fn for every live particle.
func (ps *Particles) Each(fn func(p *Particle)) {
	for _, p := range ps.items {
		fn(p)
	}
}

// Len returns the number of live particles.
func (ps *Particles) Len() int {
	return len(ps.items)
}

// Clear releases every particle.
func (ps *Particles) Clear() {
	for _, p := range ps.items {
		p.Release()
	}
	clear(ps.items)
	ps.items = ps.items[:0]
}
