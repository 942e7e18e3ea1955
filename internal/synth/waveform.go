// Package synth provides the monophonic tone generator: pitch mapping,
// waveform shapes, the shared voice parameters and the real-time renderer.
package synth

import (
	"fmt"
	"math"
	"strings"
)

// Waveform represents an oscillator wave shape
type Waveform int32

const (
	Sine Waveform = iota
	Triangle
	Sawtooth
	Square

	numWaveforms
)

var waveformNames = [numWaveforms]string{
	Sine:     "sine",
	Triangle: "triangle",
	Sawtooth: "sawtooth",
	Square:   "square",
}

// shapes is indexed by Waveform. Each entry receives the frequency, the
// elapsed time and the phase fraction of that time within one period.
var shapes = [numWaveforms]func(f, t, p float64) float64{
	Sine:     sineShape,
	Triangle: triangleShape,
	Sawtooth: sawtoothShape,
	Square:   squareShape,
}

// Waveforms lists every supported shape in selection order.
func Waveforms() []Waveform {
	return []Waveform{Sine, Triangle, Sawtooth, Square}
}

// Valid reports whether w names a supported shape.
func (w Waveform) Valid() bool {
	return w >= 0 && w < numWaveforms
}

func (w Waveform) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Waveform(%d)", int32(w))
	}
	return waveformNames[w]
}

// Next returns the following shape, wrapping after Square.
func (w Waveform) Next() Waveform {
	if !w.Valid() {
		return Sine
	}
	return (w + 1) % numWaveforms
}

// ParseWaveform looks a shape up by name, case-insensitively.
func ParseWaveform(name string) (Waveform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for w, n := range waveformNames {
		if n == name {
			return Waveform(w), nil
		}
	}
	return Sine, &ParamError{Name: "waveform", Value: name}
}

// Sample returns the amplitude in [-1, 1] of shape at time t seconds for a
// tone of frequencyHz. Non-positive or non-finite frequencies and unknown
// shapes produce silence.
func Sample(shape Waveform, frequencyHz, t float64) float64 {
	if !shape.Valid() || !(frequencyHz > 0) || math.IsInf(frequencyHz, 0) {
		return 0
	}
	return shapes[shape](frequencyHz, t, phaseFraction(frequencyHz, t))
}

// phaseFraction folds t into one period and returns its position in [0, 1).
func phaseFraction(frequencyHz, t float64) float64 {
	period := 1.0 / frequencyHz
	current := math.Mod(t, period)
	if current < 0 {
		current += period
	}
	p := current / period
	if p >= 1 {
		return 0
	}
	return p
}

func sineShape(f, t, _ float64) float64 {
	return math.Sin(2 * math.Pi * f * t)
}

func triangleShape(_, _, p float64) float64 {
	switch {
	case p < 0.25:
		return 4 * p
	case p < 0.75:
		return 2 - 4*p
	default:
		return 4*p - 4
	}
}

func sawtoothShape(_, _, p float64) float64 {
	return 2*p - 1
}

func squareShape(_, _, p float64) float64 {
	if p < 0.5 {
		return 1
	}
	return -1
}
