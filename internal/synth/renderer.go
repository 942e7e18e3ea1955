package synth

import (
	"fmt"
	"math"
)

// PhaseClock tracks time within the current period. It belongs to the render
// goroutine.
type PhaseClock struct {
	Elapsed float64
	Delta   float64 // seconds per sample
}

func (c *PhaseClock) advance(period float64) {
	c.Elapsed += c.Delta
	if c.Elapsed >= period {
		c.Elapsed = math.Mod(c.Elapsed, period)
	}
}

// Renderer fills audio buffers from a Voice. It must only be driven from one
// goroutine at a time; the Voice may be changed concurrently.
//
// Render never blocks and never allocates.
type Renderer struct {
	voice *Voice
	clock PhaseClock

	// pitch cache, refreshed when the observed note or octave changes
	tuned  bool
	note   int
	octave int
	freq   float64
	period float64
}

// NewRenderer creates a renderer for voice at sampleRate frames per second.
func NewRenderer(voice *Voice, sampleRate float64) (*Renderer, error) {
	if voice == nil {
		return nil, fmt.Errorf("renderer needs a voice")
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, &ParamError{Name: "sample rate", Value: sampleRate}
	}
	return &Renderer{
		voice: voice,
		clock: PhaseClock{Delta: 1.0 / sampleRate},
	}, nil
}

// Clock returns a copy of the phase clock.
func (r *Renderer) Clock() PhaseClock {
	return r.clock
}

// Frequency returns the frequency used for the most recent sounding frame.
func (r *Renderer) Frequency() float64 {
	return r.freq
}

// Reset rewinds the phase clock to zero.
func (r *Renderer) Reset() {
	r.clock.Elapsed = 0
}

// Render writes frameCount frames of the mono signal into every channel of out
// and returns the number of frames written, which is limited by the shortest
// channel buffer.
func (r *Renderer) Render(frameCount int, out [][]float32) int {
	if len(out) == 0 || frameCount <= 0 {
		return 0
	}
	n := frameCount
	for _, ch := range out {
		if len(ch) < n {
			n = len(ch)
		}
	}
	for i := 0; i < n; i++ {
		s := float32(r.next())
		for _, ch := range out {
			ch[i] = s
		}
	}
	return n
}

// RenderInterleaved fills out with whole frames of channels samples each and
// returns the number of frames written. Samples left over after the last whole
// frame are zeroed.
func (r *Renderer) RenderInterleaved(out []float32, channels int) int {
	if channels <= 0 {
		clear(out)
		return 0
	}
	frames := len(out) / channels
	for i := 0; i < frames; i++ {
		s := float32(r.next())
		frame := out[i*channels : (i+1)*channels]
		for c := range frame {
			frame[c] = s
		}
	}
	clear(out[frames*channels:])
	return frames
}

// next produces one mono sample and advances the clock.
func (r *Renderer) next() float64 {
	s := r.voice.Snapshot()
	if !s.NoteActive {
		return 0
	}
	if !r.tuned || s.Note != r.note || s.OctaveOffset != r.octave {
		r.retune(FrequencyHz(s.Note, s.OctaveOffset))
		r.note, r.octave, r.tuned = s.Note, s.OctaveOffset, true
	}
	if r.period == 0 {
		return 0
	}

	gain := s.Gain()
	out := Sample(s.Waveform, r.freq, r.clock.Elapsed) * gain
	r.clock.advance(r.period)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		r.clock.Elapsed = 0
		return 0
	}
	return out
}

// retune switches to frequency f, keeping the phase fraction of the clock so
// the waveform continues from the same point of its cycle.
func (r *Renderer) retune(f float64) {
	if !(f > 0) || math.IsInf(f, 0) || math.IsInf(1/f, 0) {
		r.freq, r.period = f, 0
		r.clock.Elapsed = 0
		return
	}
	period := 1.0 / f
	if r.period > 0 {
		r.clock.Elapsed = r.clock.Elapsed / r.period * period
		if r.clock.Elapsed >= period {
			r.clock.Elapsed = 0
		}
	} else {
		r.clock.Elapsed = 0
	}
	r.freq, r.period = f, period
}
