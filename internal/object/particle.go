package object

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect (engine exhaust, crash debris).
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity in pixels per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Fade        bool    // Whether to fade out over lifetime
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	p.Fade = true
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Visible reports whether a fading particle is still bright enough to draw.
func (p *Particle) Visible() bool {
	if !p.Fade || p.MaxLifetime <= 0 {
		return true
	}
	return p.Lifetime/p.MaxLifetime >= 0.25
}

// Update moves the particle. Returns true once its lifetime is over.
func (p *Particle) Update(delta time.Duration) bool {
	dt := delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// SpawnExplosion creates particles in a circular burst pattern.
func SpawnExplosion(x, y float64, count int, speed, lifetime float64, spawner Spawner) {
	if spawner == nil {
		return
	}

	for i := 0; i < count; i++ {
		angle := rand.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rand.Float64())
		// Random lifetime variation (50% to 100%)
		life := lifetime * (0.5 + rand.Float64()*0.5)

		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// SpawnExhaust emits particles from the exhaust anchor, opposite to the
// ship's heading (fx, fy).
func SpawnExhaust(x, y, fx, fy float64, spawner Spawner) {
	if spawner == nil {
		return
	}

	count := 1 + rand.Intn(2)
	base := math.Atan2(-fy, -fx)
	for i := 0; i < count; i++ {
		angle := base + (rand.Float64()-0.5)*0.5
		speed := 240.0 + rand.Float64()*120.0
		lifetime := 0.1 + rand.Float64()*0.15

		p := NewParticle(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, lifetime)
		p.Drag = 0.85
		spawner.Spawn(p)
	}
}
