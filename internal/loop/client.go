package loop

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ballpit/internal/arena"
	"ballpit/internal/audio"
	"ballpit/internal/config"
	"ballpit/internal/draw"
	"ballpit/internal/input"
)

// HUD styles.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	hudStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// cursorSpeed is how fast the aim cursor moves, in logical units per second.
const cursorSpeed = 60.0

// Client handles rendering and input for a single connection.
type Client struct {
	server       GameServer
	handle       *ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	player       *audio.Player // May be nil (no local audio)

	lastInput    time.Time
	lastSnapshot *Snapshot
	particles    []*particle
	prevMute     bool
	delta        time.Duration
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Player       *audio.Player
}

// NewClient creates a client connected to the given server.
func NewClient(gs GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight, config.ArenaWidth, config.ArenaHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       gs.RegisterClient(),
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		player:       opts.Player,
		lastInput:    time.Now(),
	}
}

// Run starts the client loop. Blocks until the client disconnects or the
// server shuts down.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads the frame's input and handles quit/inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}

	// Rising edge on the mute key toggles audio.
	if c.state.Input.Mute && !c.prevMute && c.player != nil {
		c.state.Muted = c.player.ToggleMute()
	}
	c.prevMute = c.state.Input.Mute
}

// processServerEvents drains simulation events: audio cues, pop bursts
// and shutdown notifications.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case EventSim:
				c.handleSimEvent(event.Sim)
			case EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// handleSimEvent reacts to one arena event. The ball's last known
// geometry comes from the previous snapshot; a destroyed ball is already
// gone from the current one.
func (c *Client) handleSimEvent(ev arena.Event) {
	view, ok := findBall(c.lastSnapshot, ev.ID)

	switch ev.Kind {
	case arena.EventDamaged:
		if c.player != nil {
			level := 0.5
			if ok {
				level = view.Level
			}
			c.player.Damaged(level)
		}
	case arena.EventDestroyed:
		if ok {
			c.particles = spawnBurst(c.particles, view.X, view.Y, 12, 25.0, 0.6, 203)
		}
		if c.player != nil {
			c.player.Destroyed()
		}
	}
}

// findBall looks up a ball by id in a snapshot.
func findBall(snap *Snapshot, id int) (BallView, bool) {
	if snap == nil {
		return BallView{}, false
	}
	for _, b := range snap.Balls {
		if b.ID == id {
			return b, true
		}
	}
	return BallView{}, false
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// updateStartState handles the title screen.
func (c *Client) updateStartState() {
	if c.state.Input.Enter || c.state.Input.Space {
		input.Reset(c.inputStream)
		c.state.GameState = GameStatePlaying
	}
}

// updatePlayingState moves the aim cursor and runs the charge gesture.
func (c *Client) updatePlayingState() {
	dt := c.delta.Seconds()

	if c.state.Input.Left {
		c.state.CursorX -= cursorSpeed * dt
	}
	if c.state.Input.Right {
		c.state.CursorX += cursorSpeed * dt
	}
	if c.state.Input.Up {
		c.state.CursorY -= cursorSpeed * dt
	}
	if c.state.Input.Down {
		c.state.CursorY += cursorSpeed * dt
	}
	c.state.CursorX = clamp(c.state.CursorX, 0, config.ArenaWidth)
	c.state.CursorY = clamp(c.state.CursorY, 0, config.ArenaHeight)

	req, release := c.state.Charger.Update(c.state.Input, dt, c.state.CursorX, c.state.CursorY)
	if release {
		c.server.RequestSpawn(req)
	}

	c.particles = updateParticles(c.particles, dt)
}

// updateShutdownState counts down the shutdown notice, then disconnects.
func (c *Client) updateShutdownState() {
	c.particles = updateParticles(c.particles, c.delta.Seconds())
	c.state.shutdownTimer -= c.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// drawFrame renders the current screen and flushes it in one write.
func (c *Client) drawFrame() error {
	c.canvas.Clear()
	c.chunkWriter.WriteString("\033[H\033[2J")

	snap := c.server.GetSnapshot()

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(snap)
	case GameStatePlaying, GameStateShutdown:
		c.drawArena(snap)
	}

	c.canvas.RenderBorder(c.chunkWriter)
	c.canvas.Render(c.chunkWriter)
	c.drawHUD(snap)

	c.lastSnapshot = snap
	return c.chunkWriter.Flush()
}

// drawArena draws balls, particles and the aim cursor to the canvas.
func (c *Client) drawArena(snap *Snapshot) {
	for _, b := range snap.Balls {
		c.canvas.DrawCircle(b.X, b.Y, b.Radius, ballColor(b.Level, b.Dying), true)
	}

	drawParticles(c.canvas, c.particles)

	if c.state.GameState != GameStatePlaying {
		return
	}

	// Aim crosshair, plus a preview rim while charging.
	const cursorColor draw.Color = 252
	c.canvas.SetFloat(c.state.CursorX, c.state.CursorY, cursorColor)
	c.canvas.SetFloat(c.state.CursorX-1, c.state.CursorY, cursorColor)
	c.canvas.SetFloat(c.state.CursorX+1, c.state.CursorY, cursorColor)
	c.canvas.SetFloat(c.state.CursorX, c.state.CursorY-1, cursorColor)
	c.canvas.SetFloat(c.state.CursorX, c.state.CursorY+1, cursorColor)

	if c.state.Charger.Charging() {
		c.canvas.DrawCircle(c.state.CursorX, c.state.CursorY, c.state.Charger.Radius(), 250, false)
	}
}

// drawStartScreen writes the title and controls.
func (c *Client) drawStartScreen(snap *Snapshot) {
	centerCol := c.canvas.TerminalWidth() / 2
	centerRow := c.canvas.TerminalHeight() / 2

	writeCentered(c.chunkWriter, centerCol, centerRow-3, titleStyle.Render("B A L L P I T"))
	writeCentered(c.chunkWriter, centerCol, centerRow-1, hudStyle.Render(fmt.Sprintf("%d balls bouncing", len(snap.Balls))))
	writeCentered(c.chunkWriter, centerCol, centerRow+1, "hold SPACE to charge a ball, release to drop it")
	writeCentered(c.chunkWriter, centerCol, centerRow+2, "arrows/wasd aim · 1-9 set strength · m mute · q quit")
	writeCentered(c.chunkWriter, centerCol, centerRow+4, titleStyle.Render("press ENTER to play"))
}

// drawHUD writes the status line under the play area.
func (c *Client) drawHUD(snap *Snapshot) {
	row := c.canvas.TerminalHeight()
	if c.canvas.OffsetRow() >= 1 {
		row += 2 // Below the border
	}

	switch {
	case c.state.GameState == GameStateShutdown:
		msg := warnStyle.Render(fmt.Sprintf("server shutting down in %.0fs", c.state.shutdownTimer))
		writeCentered(c.chunkWriter, c.canvas.TerminalWidth()/2, row, msg)
	case c.state.isInactive:
		msg := warnStyle.Render("inactive - disconnecting soon")
		writeCentered(c.chunkWriter, c.canvas.TerminalWidth()/2, row, msg)
	case c.state.GameState == GameStatePlaying:
		mute := ""
		if c.state.Muted {
			mute = "  [muted]"
		}
		status := hudStyle.Render(fmt.Sprintf("balls %d  strength %d%s", len(snap.Balls), c.state.Charger.Strength(), mute))
		c.chunkWriter.WriteAt(2, row, status)
		hint := hintStyle.Render("space charge · q quit")
		c.chunkWriter.WriteAt(c.canvas.TerminalWidth()-lipgloss.Width(hint)-1, row, hint)
	}
}

// writeCentered writes s horizontally centered on col.
func writeCentered(cw *draw.ChunkWriter, col, row int, s string) {
	start := col - lipgloss.Width(s)/2
	if start < 1 {
		start = 1
	}
	cw.WriteAt(start, row, s)
}

// ballColor shades a ball by its remaining strength: bright at full
// strength, darker as it drains, solid warning red while dying.
func ballColor(level float64, dying bool) draw.Color {
	if dying {
		return 196
	}
	greens := []draw.Color{22, 28, 34, 40, 46}
	idx := int(level * float64(len(greens)-1))
	if idx < 0 {
		idx = 0
	} else if idx >= len(greens) {
		idx = len(greens) - 1
	}
	return greens[idx]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
