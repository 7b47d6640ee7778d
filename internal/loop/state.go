package loop

import (
	"ballpit/internal/config"
	"ballpit/internal/input"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active play
	GameStateShutdown                  // Server is going away
)

// ClientState holds per-session state: input, aim cursor, charge gesture
// and screen phase. Each connection has its own instance.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Running   bool

	// Aim cursor in logical arena coordinates.
	CursorX float64
	CursorY float64

	Charger *input.Charger

	Muted         bool
	isInactive    bool
	shutdownTimer float64
}

// NewClientState creates an initialized client state with the cursor at
// the arena center.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
		CursorX:   config.ArenaWidth / 2,
		CursorY:   config.ArenaHeight / 2,
		Charger: input.NewCharger(input.ChargerConfig{
			MinRadius:       config.MinRadius,
			MaxRadius:       config.MaxRadius,
			ChargeRate:      config.ChargeRate,
			DefaultStrength: config.DefaultStrength,
			MaxStrength:     config.MaxStrength,
		}),
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution
// and computes the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
