package input

import "testing"

func testChargerConfig() ChargerConfig {
	return ChargerConfig{
		MinRadius:       2,
		MaxRadius:       12,
		ChargeRate:      6,
		DefaultStrength: 3,
		MaxStrength:     9,
	}
}

func TestChargerGrowsWithHoldDuration(t *testing.T) {
	c := NewCharger(testChargerConfig())

	// Hold for one second across several frames.
	for i := 0; i < 10; i++ {
		if _, done := c.Update(Input{Space: true}, 0.1, 0, 0); done {
			t.Fatalf("spawn emitted while still holding")
		}
	}
	if !c.Charging() {
		t.Fatalf("charger not charging during hold")
	}
	if r := c.Radius(); r < 7.9 || r > 8.1 {
		t.Fatalf("radius after 1s hold = %f, want ~8", r)
	}

	req, done := c.Update(Input{}, 0.1, 30, 40)
	if !done {
		t.Fatalf("release did not emit a spawn request")
	}
	if req.X != 30 || req.Y != 40 {
		t.Fatalf("request position = (%f, %f), want (30, 40)", req.X, req.Y)
	}
	if req.Radius < 7.9 || req.Radius > 8.1 {
		t.Fatalf("request radius = %f, want ~8", req.Radius)
	}
	if req.Strength != 3 {
		t.Fatalf("request strength = %d, want default 3", req.Strength)
	}
}

func TestChargerCapsRadius(t *testing.T) {
	c := NewCharger(testChargerConfig())
	for i := 0; i < 100; i++ {
		c.Update(Input{Space: true}, 0.1, 0, 0)
	}
	if r := c.Radius(); r != 12 {
		t.Fatalf("radius after long hold = %f, want cap 12", r)
	}
}

func TestChargerDigitSelectsStrength(t *testing.T) {
	c := NewCharger(testChargerConfig())
	c.Update(Input{Number: 7}, 0.1, 0, 0)
	c.Update(Input{Space: true}, 0.1, 0, 0)
	req, done := c.Update(Input{}, 0.1, 0, 0)
	if !done || req.Strength != 7 {
		t.Fatalf("strength = %d, want 7", req.Strength)
	}

	// Out-of-range digits are ignored.
	c.Update(Input{Number: 0}, 0.1, 0, 0)
	if c.Strength() != 7 {
		t.Fatalf("digit 0 changed strength to %d", c.Strength())
	}
}

func TestChargerResetsAfterRelease(t *testing.T) {
	c := NewCharger(testChargerConfig())
	c.Update(Input{Space: true}, 1.0, 0, 0)
	c.Update(Input{}, 0.1, 0, 0)

	if c.Charging() {
		t.Fatalf("still charging after release")
	}
	if r := c.Radius(); r != 2 {
		t.Fatalf("radius after release = %f, want min 2", r)
	}

	// No request without a preceding hold.
	if _, done := c.Update(Input{}, 0.1, 0, 0); done {
		t.Fatalf("spawn request without a hold")
	}
}
