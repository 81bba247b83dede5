// Package sound plays short chiptune cues for game events.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/tetris/internal/game"
)

// SampleRate is the output rate used for every cue.
const SampleRate = beep.SampleRate(48000)

const volume = 0.3

// Player mixes cues into the speaker. The zero value is unusable; call
// NewPlayer and then Init.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	initialized bool
}

// NewPlayer creates a player that stays silent until Init succeeds.
func NewPlayer() *Player {
	return &Player{
		mixer: &beep.Mixer{},
		rate:  SampleRate,
	}
}

// Init opens the audio device and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Handle queues the cue for e, if it has one. Safe to use as an
// engine event observer.
func (p *Player) Handle(e game.Event) {
	s := Cue(e, p.rate)
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// Cue returns the sound for an event, or nil when the event is silent.
func Cue(e game.Event, rate beep.SampleRate) beep.Streamer {
	notes := cueNotes(e)
	if len(notes) == 0 {
		return nil
	}
	return jingle(rate, volume, notes...)
}

// CueLength returns how long the cue for e plays.
func CueLength(e game.Event) time.Duration {
	return length(cueNotes(e))
}

func cueNotes(e game.Event) []note {
	const ms = time.Millisecond
	switch e.Type {
	case game.EventLocked:
		return []note{{110, 40 * ms, WaveSquare}}
	case game.EventLinesCleared:
		// One rising step per cleared line
		notes := make([]note, 0, e.Lines)
		for i := 0; i < e.Lines; i++ {
			notes = append(notes, note{523.25 * float64(i+2) / 2, 70 * ms, WaveTriangle})
		}
		return notes
	case game.EventSpeedChanged:
		return []note{{659.25, 60 * ms, WaveSquare}, {987.77, 90 * ms, WaveSquare}}
	case game.EventPaused, game.EventResumed:
		return []note{{440, 30 * ms, WaveSine}}
	case game.EventGameOver:
		return []note{
			{392, 150 * ms, WaveTriangle},
			{311.13, 150 * ms, WaveTriangle},
			{261.63, 300 * ms, WaveTriangle},
		}
	}
	return nil
}
