// Package arena owns the set of live balls and runs the per-tick
// simulation pipeline: ball-ball collision detection, reaping, wall
// resolution and motion integration.
package arena

import (
	"errors"
	"fmt"

	"ballpit/internal/object"
	"ballpit/internal/physics"
)

// ErrInvalidParameter reports spawn arguments the simulation refuses to
// accept. Input adapters clamp their values, so well-behaved callers
// never see it.
var ErrInvalidParameter = errors.New("invalid parameter")

// BoundsFunc reports the current arena dimensions. It is queried once at
// the start of each wall-resolution pass, so bounds may change between
// ticks (e.g. on terminal resize).
type BoundsFunc func() (width, height float64)

// Arena is the bounded simulation space. It exclusively owns the
// lifetime of every ball: creation happens only through Spawn, removal
// only through Tick. Arena is not safe for concurrent use; the driver
// serializes Spawn and Tick on a single goroutine.
type Arena struct {
	balls    []*object.Ball
	bounds   BoundsFunc
	maxSpeed float64
	nextID   int

	events []Event // Reused between ticks
}

// New creates an empty arena. bounds must not be nil. maxSpeed caps the
// spawn velocity of the smallest balls.
func New(bounds BoundsFunc, maxSpeed float64) *Arena {
	return &Arena{
		bounds:   bounds,
		maxSpeed: maxSpeed,
	}
}

// Spawn creates and registers a ball at (x, y) with a random direction
// of travel. Radius and strength are validated defensively; a malformed
// ball must never enter the live set.
func (a *Arena) Spawn(x, y, radius float64, strength int) (*object.Ball, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius %g", ErrInvalidParameter, radius)
	}
	if strength < 1 {
		return nil, fmt.Errorf("%w: strength %d", ErrInvalidParameter, strength)
	}

	a.nextID++
	b := object.NewBall(a.nextID, x, y, radius, strength, a.maxSpeed)
	a.balls = append(a.balls, b)
	return b, nil
}

// Tick advances the simulation by dt time units and returns the events
// it produced. The returned slice is reused and only valid until the
// next call.
//
// The pipeline runs in strict order: detect overlaps, reap spent balls,
// resolve walls, integrate motion. A spent ball (radius 0) is only
// reaped on a tick where the detection pass flags it again; one that
// stops colliding lingers in the live set.
func (a *Arena) Tick(dt float64) []Event {
	a.events = a.events[:0]

	// 1. Ball-ball detection. Flags from the previous tick are cleared
	// first, then OR-accumulated over all unordered pairs.
	for _, b := range a.balls {
		b.ResetCollided()
	}
	for i := 0; i < len(a.balls); i++ {
		bi := a.balls[i]
		for j := i + 1; j < len(a.balls); j++ {
			bj := a.balls[j]
			if physics.CirclesOverlap(bi.X, bi.Y, bi.Radius, bj.X, bj.Y, bj.Radius) {
				bi.MarkCollided()
				bj.MarkCollided()
			}
		}
	}

	// 2. Reap spent balls that collided this tick.
	kept := a.balls[:0]
	for _, b := range a.balls {
		if b.Collided() && b.Spent() {
			a.events = append(a.events, Event{Kind: EventDestroyed, ID: b.ID})
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(a.balls); i++ {
		a.balls[i] = nil // Release reaped balls to the GC
	}
	a.balls = kept

	// 3. Wall resolution. Bounds are read once per tick.
	width, height := a.bounds()
	for _, b := range a.balls {
		b.ResolveWalls(width, height)
	}

	// 4. Integration and strength decay.
	for _, b := range a.balls {
		if b.Advance(dt) {
			a.events = append(a.events, Event{Kind: EventDamaged, ID: b.ID})
		}
	}

	return a.events
}

// Balls returns the live set. Callers must not retain the slice across
// ticks or mutate it.
func (a *Arena) Balls() []*object.Ball {
	return a.balls
}

// Len returns the number of live balls.
func (a *Arena) Len() int {
	return len(a.balls)
}
