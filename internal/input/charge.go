package input

// SpawnRequest carries already-clamped spawn parameters for the arena.
type SpawnRequest struct {
	X, Y     float64
	Radius   float64
	Strength int
}

// ChargerConfig bounds the gesture-to-parameter mapping.
type ChargerConfig struct {
	MinRadius       float64
	MaxRadius       float64
	ChargeRate      float64 // Radius gained per second of holding
	DefaultStrength int
	MaxStrength     int
}

// Charger maps a press-and-hold gesture to ball spawn parameters: the
// hold duration sets the radius, digit keys act as a strength modifier.
// It is the thin adapter in front of Arena.Spawn; the values it emits
// are clamped so the arena's defensive validation never fires.
type Charger struct {
	cfg      ChargerConfig
	charging bool
	held     float64
	strength int
}

// NewCharger creates a charger with the given bounds.
func NewCharger(cfg ChargerConfig) *Charger {
	return &Charger{
		cfg:      cfg,
		strength: cfg.DefaultStrength,
	}
}

// Update advances the gesture by dt seconds using the frame's input.
// x, y is the current aim position, captured at release. Returns a spawn
// request and true on the frame the spawn key is released.
func (c *Charger) Update(in Input, dt, x, y float64) (SpawnRequest, bool) {
	if n := in.Number; n >= 1 && n <= c.cfg.MaxStrength {
		c.strength = n
	}

	if in.Space {
		c.charging = true
		c.held += dt
		return SpawnRequest{}, false
	}

	if !c.charging {
		return SpawnRequest{}, false
	}

	// Key released: the gesture is complete.
	req := SpawnRequest{
		X:        x,
		Y:        y,
		Radius:   c.Radius(),
		Strength: c.strength,
	}
	c.charging = false
	c.held = 0
	return req, true
}

// Charging returns true while the spawn key is held.
func (c *Charger) Charging() bool {
	return c.charging
}

// Radius returns the radius the charge has grown to so far.
func (c *Charger) Radius() float64 {
	r := c.cfg.MinRadius + c.cfg.ChargeRate*c.held
	if r > c.cfg.MaxRadius {
		r = c.cfg.MaxRadius
	}
	return r
}

// Strength returns the currently selected strength.
func (c *Charger) Strength() int {
	return c.strength
}
