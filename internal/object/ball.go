// Package object contains the entities simulated inside the arena.
package object

import (
	"math"
	"math/rand"
)

// Ball is a circular body moving at constant velocity inside the arena.
// Collisions with other balls drain its strength; at zero strength the
// ball decays (radius shrinks) until it is removed.
type Ball struct {
	ID          int
	X, Y        float64 // Position (center)
	VX, VY      float64 // Velocity (logical units per time unit)
	Radius      float64 // Collision/draw radius; shrinks to 0 during decay
	Strength    int     // Remaining hits before decay starts
	MaxStrength int     // Strength at spawn, for damage shading

	collided bool // Overlapped another ball this tick
}

// NewBall creates a ball with a random direction of travel. Speed is
// maxSpeed scaled down by the square root of the radius, so larger balls
// move slower; it never exceeds maxSpeed.
func NewBall(id int, x, y, radius float64, strength int, maxSpeed float64) *Ball {
	angle := rand.Float64() * 2 * math.Pi

	speed := maxSpeed
	if radius > 1 {
		speed = maxSpeed / math.Sqrt(radius)
	}

	return &Ball{
		ID:          id,
		X:           x,
		Y:           y,
		VX:          math.Cos(angle) * speed,
		VY:          math.Sin(angle) * speed,
		Radius:      radius,
		Strength:    strength,
		MaxStrength: strength,
	}
}

// MarkCollided flags the ball as having overlapped another ball this tick.
// Marking is idempotent; any number of simultaneous overlaps count once.
func (b *Ball) MarkCollided() {
	b.collided = true
}

// ResetCollided clears the collision flag at the start of a detection pass.
func (b *Ball) ResetCollided() {
	b.collided = false
}

// Collided returns true if the ball is flagged as overlapping.
func (b *Ball) Collided() bool {
	return b.collided
}

// Dying returns true once the ball's strength is exhausted and it is in
// the shrinking decay phase.
func (b *Ball) Dying() bool {
	return b.Strength == 0
}

// Spent returns true once the decay phase has shrunk the ball to nothing.
// A spent ball is only removed on a tick where it also collides.
func (b *Ball) Spent() bool {
	return b.Radius <= 0
}

// DamageLevel returns the remaining strength as a fraction of the spawn
// strength, in [0, 1]. Renderers shade the ball darker as this drops.
func (b *Ball) DamageLevel() float64 {
	if b.MaxStrength <= 0 {
		return 0
	}
	return float64(b.Strength) / float64(b.MaxStrength)
}

// ResolveWalls redirects the ball back into the arena. Each side is
// checked independently, so a corner hit corrects both axes in one call.
// The ball is not repositioned, only its velocity sign is forced inward.
func (b *Ball) ResolveWalls(width, height float64) {
	if b.X-b.Radius < 0 {
		b.VX = math.Abs(b.VX)
	}
	if b.X+b.Radius > width {
		b.VX = -math.Abs(b.VX)
	}
	if b.Y-b.Radius < 0 {
		b.VY = math.Abs(b.VY)
	}
	if b.Y+b.Radius > height {
		b.VY = -math.Abs(b.VY)
	}
}

// Advance integrates one step of motion and consumes the collision flag.
// A flagged ball with strength left loses exactly one strength point and
// reports damaged=true; a flagged ball at zero strength shrinks by one
// radius unit instead (floored at 0). The flag is only consumed by the
// strength decrement, so at most one point is lost per tick.
func (b *Ball) Advance(dt float64) (damaged bool) {
	b.X += b.VX * dt
	b.Y += b.VY * dt

	if !b.collided {
		return false
	}

	if b.Strength > 0 {
		b.Strength--
		b.collided = false
		return true
	}

	// Decay phase: shrink instead of losing strength. The flag stays set;
	// the next detection pass re-evaluates it.
	b.Radius--
	if b.Radius < 0 {
		b.Radius = 0
	}
	return false
}
