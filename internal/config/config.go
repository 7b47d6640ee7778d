package config

import "time"

// Arena dimensions - the logical simulation space.
// Actual rendering scales to fit terminal size.
const (
	ArenaWidth  = 120 // Logical width
	ArenaHeight = 80  // Logical height (in sub-pixels, so 40 terminal rows)
)

// Maximum render resolution. Larger terminals get a centered play area
// with a border instead of a stretched one.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Ball parameters.
const (
	MinRadius       = 2.0  // Smallest spawnable ball
	MaxRadius       = 12.0 // Charge cap
	ChargeRate      = 6.0  // Radius gained per second of holding the spawn key
	DefaultStrength = 3    // Strength when no digit key was pressed
	MaxStrength     = 9    // Digit keys select 1..9
	MaxSpeed        = 40.0 // Speed of a radius-1 ball; scaled down by sqrt(radius)
)

// Server tick rate. One tick interval equals one simulation time unit,
// so Arena.Tick receives dt values around 1.0.
const (
	TickRate = 60
	TickTime = time.Second / TickRate
)

// Client rendering.
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)
