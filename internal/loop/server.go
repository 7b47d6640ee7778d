// Package loop drives the simulation at a fixed tick rate and renders it
// for connected terminal clients. The Server owns the arena and is the
// only goroutine that touches it; spawns arrive over a channel and are
// folded into the tick, which is what keeps Spawn and Tick serialized.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"ballpit/internal/arena"
	"ballpit/internal/config"
	"ballpit/internal/input"
)

// GameServer is the interface clients use to talk to the simulation.
// Decouples the Client from the concrete Server implementation.
type GameServer interface {
	RegisterClient() *ClientHandle
	UnregisterClient(clientID int)
	RequestSpawn(req input.SpawnRequest)
	GetSnapshot() *Snapshot
}

// BallView is a value copy of one live ball. Renderers only ever see
// these, never the simulation's own state.
type BallView struct {
	ID     int
	X, Y   float64
	Radius float64
	Level  float64 // Remaining strength fraction, 0..1
	Dying  bool    // In the shrinking decay phase
}

// Snapshot is an immutable view of the arena published after each tick.
type Snapshot struct {
	Balls  []BallView
	Width  float64
	Height float64
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventSim            ClientEventType = iota // Sim field carries an arena event
	EventServerShutdown                        // Server is shutting down
)

// ClientEvent is delivered to each client's event channel.
type ClientEvent struct {
	Type ClientEventType
	Sim  arena.Event
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	EventsCh chan ClientEvent
}

// Server owns the arena and runs the tick loop.
type Server struct {
	arena        *arena.Arena
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	spawnCh      chan input.SpawnRequest
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex
	logger       *log.Logger

	// Double-buffered snapshot backing slices to avoid allocations
	snapshotBufs [2][]BallView
	snapshotIdx  int
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates a server with an empty arena of the configured
// logical dimensions.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		arena: arena.New(func() (float64, float64) {
			return config.ArenaWidth, config.ArenaHeight
		}, config.MaxSpeed),
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		spawnCh:      make(chan input.SpawnRequest, 64),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		logger:       logger,
	}

	s.snapshot.Store(&Snapshot{
		Width:  config.ArenaWidth,
		Height: config.ArenaHeight,
	})

	return s
}

// Run starts the tick loop. Blocks until the context is cancelled.
// Each iteration drains pending registrations and spawn requests, runs
// one arena tick, fans the tick's events out to clients and publishes a
// fresh snapshot.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		elapsed := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.processRegistrations()
		s.drainSpawns()

		// One tick interval == one simulation time unit.
		dt := elapsed.Seconds() / config.TickTime.Seconds()
		events := s.arena.Tick(dt)
		s.fanOut(events)

		s.publishSnapshot()

		if sleep := config.TickTime - time.Since(frameStart); sleep > 0 {
			time.Sleep(sleep)
		}
	}
}

// Shutdown notifies all connected clients and waits for them to
// disconnect, up to the given timeout. The caller cancels the Run
// context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client and returns its handle.
func (s *Server) RegisterClient() *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		EventsCh: make(chan ClientEvent, 64),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// RequestSpawn queues a spawn for the next tick. A full queue drops the
// request rather than blocking the caller.
func (s *Server) RequestSpawn(req input.SpawnRequest) {
	select {
	case s.spawnCh <- req:
	default:
		s.logger.Warn("spawn queue full, dropping request")
	}
}

// GetSnapshot returns the most recently published snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Debug("client registered", "id", handle.ID)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
			s.logger.Debug("client unregistered", "id", clientID)
		default:
			return
		}
	}
}

// drainSpawns feeds all queued spawn requests into the arena.
func (s *Server) drainSpawns() {
	for {
		select {
		case req := <-s.spawnCh:
			if _, err := s.arena.Spawn(req.X, req.Y, req.Radius, req.Strength); err != nil {
				// Adapters clamp their values, so this only fires on a
				// misbehaving client.
				s.logger.Warn("rejected spawn", "err", err)
			}
		default:
			return
		}
	}
}

// fanOut delivers this tick's simulation events to every client with a
// non-blocking send. Slow clients miss events rather than stalling the
// tick.
func (s *Server) fanOut(events []arena.Event) {
	if len(events) == 0 {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, handle := range s.clients {
		for _, ev := range events {
			select {
			case handle.EventsCh <- ClientEvent{Type: EventSim, Sim: ev}:
			default:
			}
		}
	}
}

// publishSnapshot copies the live set into a value snapshot. Backing
// slices are double-buffered: the previous snapshot stays valid for
// readers while the next one is built.
func (s *Server) publishSnapshot() {
	balls := s.arena.Balls()

	idx := s.snapshotIdx
	s.snapshotIdx = 1 - s.snapshotIdx

	buf := s.snapshotBufs[idx]
	if cap(buf) < len(balls) {
		buf = make([]BallView, len(balls))
		s.snapshotBufs[idx] = buf
	}
	buf = buf[:len(balls)]

	for i, b := range balls {
		buf[i] = BallView{
			ID:     b.ID,
			X:      b.X,
			Y:      b.Y,
			Radius: b.Radius,
			Level:  b.DamageLevel(),
			Dying:  b.Dying(),
		}
	}

	s.snapshot.Store(&Snapshot{
		Balls:  buf,
		Width:  config.ArenaWidth,
		Height: config.ArenaHeight,
	})
}
