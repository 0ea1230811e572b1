// Package sound plays a short tick whenever the carousel rotates.
package sound

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	tickLength = 40 * time.Millisecond

	rightFreq = 880.0
	leftFreq  = 660.0
)

// Tone returns the tick for one rotate step. Right and left rotations
// sound at different pitches.
func Tone(direction int, volume float64) (beep.Streamer, error) {
	freq := rightFreq
	if direction < 0 {
		freq = leftFreq
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("sound: tone %.0f Hz: %w", freq, err)
	}
	tick := beep.Take(sampleRate.N(tickLength), sine)
	if volume <= 0 {
		return &effects.Volume{Streamer: tick, Base: 2, Silent: true}, nil
	}
	return &effects.Volume{Streamer: tick, Base: 2, Volume: math.Log2(volume)}, nil
}

// Player sends ticks to the speaker.
type Player struct {
	volume float64
	play   func(beep.Streamer)
}

// NewPlayer initialises the speaker. Close releases it.
func NewPlayer(volume float64) (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("sound: init speaker: %w", err)
	}
	return &Player{volume: volume, play: func(s beep.Streamer) { speaker.Play(s) }}, nil
}

// Rotate plays the tick for direction. It has the signature of a
// carousel.Controller rotate hook.
func (p *Player) Rotate(direction int) {
	s, err := Tone(direction, p.volume)
	if err != nil {
		return
	}
	p.play(s)
}

// Close stops playback.
func (p *Player) Close() {
	speaker.Close()
}
