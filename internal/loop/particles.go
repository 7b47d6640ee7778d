package loop

import (
	"math"
	"math/rand"
	"sync"

	"ballpit/internal/draw"
)

// particlePool reuses particle objects to keep pop effects allocation-free.
var particlePool = sync.Pool{
	New: func() any {
		return &particle{}
	},
}

// particle is a short-lived client-side pop effect. Particles are pure
// presentation; the simulation knows nothing about them.
type particle struct {
	x, y        float64
	vx, vy      float64
	lifetime    float64 // Seconds remaining
	maxLifetime float64
	drag        float64 // Velocity decay per normalized frame
	color       draw.Color
}

// spawnBurst appends count particles in a circular burst at (x, y) and
// returns the extended slice.
func spawnBurst(particles []*particle, x, y float64, count int, speed, lifetime float64, color draw.Color) []*particle {
	for i := 0; i < count; i++ {
		angle := rand.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rand.Float64())
		life := lifetime * (0.5 + rand.Float64()*0.5)

		p := particlePool.Get().(*particle)
		p.x = x
		p.y = y
		p.vx = math.Cos(angle) * spd
		p.vy = math.Sin(angle) * spd
		p.lifetime = life
		p.maxLifetime = life
		p.drag = 0.92
		p.color = color

		particles = append(particles, p)
	}
	return particles
}

// updateParticles advances all particles by dt seconds, releasing
// expired ones back to the pool, and returns the compacted slice.
func updateParticles(particles []*particle, dt float64) []*particle {
	kept := particles[:0]
	for _, p := range particles {
		p.lifetime -= dt
		if p.lifetime <= 0 {
			particlePool.Put(p)
			continue
		}

		dragFactor := math.Pow(p.drag, dt*60) // Normalize drag to ~60fps
		p.vx *= dragFactor
		p.vy *= dragFactor
		p.x += p.vx * dt
		p.y += p.vy * dt

		kept = append(kept, p)
	}
	for i := len(kept); i < len(particles); i++ {
		particles[i] = nil
	}
	return kept
}

// drawParticles renders particles as single pixels, skipping the last
// quarter of their lifetime for a fade-out.
func drawParticles(canvas *draw.Canvas, particles []*particle) {
	for _, p := range particles {
		if p.maxLifetime > 0 && p.lifetime/p.maxLifetime < 0.25 {
			continue
		}
		canvas.SetFloat(p.x, p.y, p.color)
	}
}
