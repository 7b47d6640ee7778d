// Package audio plays short synthesized cues for simulation events.
// There are two: a blip when a ball takes damage and a burst when one
// pops. If no audio device is available the player degrades to silent
// mode, so headless and SSH hosts work unchanged.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player manages the speaker and mixes event cues.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewPlayer creates a player. Call Initialize before playing.
func NewPlayer() *Player {
	return &Player{
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the audio device. A failed init is not an error;
// the player stays in silent mode.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*50)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences and detaches all cues.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.mixer.Clear()
	p.initialized = false
}

// ToggleMute flips the mute state and reports the new value.
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Damaged plays a short square blip. level is the ball's remaining
// strength fraction; weaker balls sound lower.
func (p *Player) Damaged(level float64) {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	freq := 280 + 520*level
	p.play(NewEnvelope(
		NewOscillator(freq, 70*time.Millisecond, WaveSquare, sampleRate),
		70*time.Millisecond, 5*time.Millisecond, 30*time.Millisecond, 0.25, sampleRate,
	))
}

// Destroyed plays a noise burst for a popped ball.
func (p *Player) Destroyed() {
	p.play(NewEnvelope(
		NewOscillator(0, 160*time.Millisecond, WaveNoise, sampleRate),
		160*time.Millisecond, 2*time.Millisecond, 120*time.Millisecond, 0.35, sampleRate,
	))
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}
