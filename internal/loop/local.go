package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"ballpit/internal/audio"
	"ballpit/internal/config"
)

// Run hosts a single-player session: a private server plus one client on
// the given terminal streams. Blocks until the player quits.
func Run(r *bufio.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The terminal belongs to the renderer, so server logs are discarded.
	server := NewServer(log.New(io.Discard))
	go server.Run(ctx)

	var player *audio.Player
	if config.GetEnv("BALLPIT_AUDIO", "on") != "off" {
		player = audio.NewPlayer()
		// Init failure leaves the player in silent mode.
		_ = player.Initialize()
		defer player.Cleanup()
	}

	client := NewClient(server, r, w, ClientOptions{Player: player})
	return client.Run()
}
