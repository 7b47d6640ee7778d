package loop

import (
	"math"
	"testing"
)

func TestSpawnBurstCount(t *testing.T) {
	particles := spawnBurst(nil, 10, 20, 12, 25.0, 0.6, 203)
	if len(particles) != 12 {
		t.Fatalf("expected 12 particles, got %d", len(particles))
	}
	for i, p := range particles {
		if p.x != 10 || p.y != 20 {
			t.Errorf("particle %d spawned at (%v, %v), want (10, 20)", i, p.x, p.y)
		}
		if p.lifetime <= 0 {
			t.Errorf("particle %d has non-positive lifetime %v", i, p.lifetime)
		}
	}
}

func TestUpdateParticlesCompactsExpired(t *testing.T) {
	particles := spawnBurst(nil, 0, 0, 8, 10.0, 0.5, 203)

	// Max lifetime from spawnBurst is under the base lifetime's full
	// jitter range, so a big step expires everything.
	particles = updateParticles(particles, 10.0)
	if len(particles) != 0 {
		t.Fatalf("expected all particles expired, got %d remaining", len(particles))
	}
}

func TestUpdateParticlesDragSlows(t *testing.T) {
	p := &particle{vx: 30, vy: -30, lifetime: 5, maxLifetime: 5, drag: 0.92}
	particles := []*particle{p}

	particles = updateParticles(particles, 1.0/60)
	if len(particles) != 1 {
		t.Fatalf("particle expired too early")
	}
	if math.Abs(p.vx) >= 30 || math.Abs(p.vy) >= 30 {
		t.Errorf("drag did not slow particle: vx=%v vy=%v", p.vx, p.vy)
	}
	if p.x == 0 && p.y == 0 {
		t.Error("particle did not move")
	}
}
