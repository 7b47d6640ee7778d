package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"ballpit/internal/config"
	"ballpit/internal/input"
	"ballpit/internal/loop"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"

	// Snapshot stream rate for browser viewers.
	streamInterval = 50 * time.Millisecond
)

//go:embed index.html
var htmlPage []byte

type wireBall struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Level  float64 `json:"level"`
	Dying  bool    `json:"dying"`
}

type wireSnapshot struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Balls  []wireBall `json:"balls"`
}

type clientMessage struct {
	Op       string  `json:"op"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Strength int     `json:"strength"`
}

func main() {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ballpit-web",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gameServer := loop.NewServer(logger)
	go gameServer.Run(ctx)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(htmlPage)
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("upgrade failed", "err", err)
			return
		}
		serveClient(conn, gameServer, logger)
	})

	addr := host + ":" + port
	logger.Info("starting web server", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// serveClient streams snapshots to one websocket viewer and feeds its
// spawn requests into the simulation.
func serveClient(conn *websocket.Conn, gs *loop.Server, logger *log.Logger) {
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				logger.Debug("discarding malformed message", "err", err)
				continue
			}
			if msg.Op != "spawn" {
				continue
			}

			gs.RequestSpawn(input.SpawnRequest{
				X:        msg.X,
				Y:        msg.Y,
				Radius:   clampFloat(msg.Radius, config.MinRadius, config.MaxRadius),
				Strength: clampInt(msg.Strength, 1, config.MaxStrength),
			})
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := gs.GetSnapshot()
			out := wireSnapshot{
				Width:  snap.Width,
				Height: snap.Height,
				Balls:  make([]wireBall, len(snap.Balls)),
			}
			for i, b := range snap.Balls {
				out.Balls[i] = wireBall{
					ID:     b.ID,
					X:      b.X,
					Y:      b.Y,
					Radius: b.Radius,
					Level:  b.Level,
					Dying:  b.Dying,
				}
			}
			if err := conn.WriteJSON(out); err != nil {
				return
			}
		}
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
