package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain pulls every sample out of a streamer and returns them.
func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestOscillatorDuration(t *testing.T) {
	s := NewOscillator(440, 100*time.Millisecond, WaveSine, sampleRate)
	samples := drain(t, s)

	want := sampleRate.N(100 * time.Millisecond)
	if len(samples) != want {
		t.Fatalf("oscillator produced %d samples, want %d", len(samples), want)
	}
}

func TestOscillatorSquareStaysInRange(t *testing.T) {
	s := NewOscillator(200, 20*time.Millisecond, WaveSquare, sampleRate)
	for i, smp := range drain(t, s) {
		if smp[0] != 1.0 && smp[0] != -1.0 {
			t.Fatalf("square sample %d = %f, want ±1", i, smp[0])
		}
		if smp[0] != smp[1] {
			t.Fatalf("channels differ at sample %d", i)
		}
	}
}

func TestOscillatorNoiseInRange(t *testing.T) {
	s := NewOscillator(0, 20*time.Millisecond, WaveNoise, sampleRate)
	for i, smp := range drain(t, s) {
		if smp[0] < -1 || smp[0] > 1 {
			t.Fatalf("noise sample %d = %f out of range", i, smp[0])
		}
	}
}

func TestEnvelopeRampsInAndOut(t *testing.T) {
	dur := 100 * time.Millisecond
	s := NewEnvelope(
		NewOscillator(0, dur, WaveSquare, sampleRate), // Constant +1 at freq 0
		dur, 10*time.Millisecond, 10*time.Millisecond, 1.0, sampleRate,
	)
	samples := drain(t, s)

	if len(samples) == 0 {
		t.Fatalf("envelope produced no samples")
	}
	if first := samples[0][0]; first > 0.01 {
		t.Fatalf("attack does not start near silence: %f", first)
	}
	if last := samples[len(samples)-1][0]; last > 0.01 {
		t.Fatalf("release does not end near silence: %f", last)
	}

	mid := samples[len(samples)/2][0]
	if mid < 0.99 || mid > 1.01 {
		t.Fatalf("sustain level = %f, want ~1", mid)
	}
}

func TestEnvelopeAppliesGain(t *testing.T) {
	dur := 40 * time.Millisecond
	s := NewEnvelope(
		NewOscillator(0, dur, WaveSquare, sampleRate),
		dur, 0, 0, 0.5, sampleRate,
	)
	samples := drain(t, s)
	mid := samples[len(samples)/2][0]
	if mid < 0.49 || mid > 0.51 {
		t.Fatalf("gain not applied, mid sample = %f", mid)
	}
}

func TestPlayerSilentModeIsSafe(t *testing.T) {
	// Never initialized: cues must be no-ops, not panics.
	p := NewPlayer()
	p.Damaged(0.5)
	p.Destroyed()
	p.Cleanup()
	if muted := p.ToggleMute(); !muted {
		t.Fatalf("first toggle should mute")
	}
}
