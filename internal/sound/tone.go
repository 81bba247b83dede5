package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Waveform selects the oscillator shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveTriangle
)

// oscillator generates a fixed-length tone.
type oscillator struct {
	freq     float64
	rate     beep.SampleRate
	wave     Waveform
	position int
	total    int
}

// NewTone returns a streamer that plays freq for d and then ends.
func NewTone(freq float64, d time.Duration, wave Waveform, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, rate: rate, wave: wave, total: rate.N(d)}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.position >= o.total {
		return 0, false
	}
	for i := range samples {
		if o.position >= o.total {
			return i, true
		}
		phase := math.Mod(float64(o.position)*o.freq/float64(o.rate), 1)
		var v float64
		switch o.wave {
		case WaveSquare:
			v = 1
			if phase >= 0.5 {
				v = -1
			}
		case WaveTriangle:
			v = 4*math.Abs(phase-0.5) - 1
		default:
			v = math.Sin(2 * math.Pi * phase)
		}
		samples[i][0] = v
		samples[i][1] = v
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// fade applies a linear release over the last part of a stream.
type fade struct {
	streamer beep.Streamer
	position int
	total    int
	release  int
}

func newFade(s beep.Streamer, d, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{streamer: s, total: rate.N(d), release: rate.N(release)}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	start := f.total - f.release
	for i := 0; i < n; i++ {
		if f.release > 0 && f.position >= start {
			vol := float64(f.total-f.position) / float64(f.release)
			if vol < 0 {
				vol = 0
			}
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// withVolume scales s by vol (0..1). Zero is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is one step of a jingle.
type note struct {
	freq float64
	dur  time.Duration
	wave Waveform
}

// jingle plays notes back to back with a short release on each.
func jingle(rate beep.SampleRate, vol float64, notes ...note) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		release := n.dur / 3
		parts = append(parts, newFade(NewTone(n.freq, n.dur, n.wave, rate), n.dur, release, rate))
	}
	return withVolume(beep.Seq(parts...), vol)
}

// length returns the total duration of notes.
func length(notes []note) time.Duration {
	var d time.Duration
	for _, n := range notes {
		d += n.dur
	}
	return d
}
