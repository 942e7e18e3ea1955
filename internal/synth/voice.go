package synth

import (
	"math"
	"sync/atomic"
)

const (
	MinOctaveOffset = -2
	MaxOctaveOffset = 2

	// noNote marks the active note as released.
	noNote = math.MinInt64
)

// Voice holds the performance parameters shared between the control goroutine
// and the render goroutine. Every field is stored independently, so a reader
// sees either the old or the new value of each field but may see a mix across
// fields while a change is in flight.
type Voice struct {
	note            atomic.Int64
	octaveOffset    atomic.Int32
	waveform        atomic.Int32
	velocityEnabled atomic.Bool
	volumeBits      atomic.Uint64
}

// VoiceSnapshot is a copy of the voice parameters taken field by field.
type VoiceSnapshot struct {
	Note            int
	NoteActive      bool
	OctaveOffset    int
	Waveform        Waveform
	VelocityEnabled bool
	VolumeLevel     float64
}

// Gain is the linear amplitude applied to the raw waveform.
func (s VoiceSnapshot) Gain() float64 {
	if s.VelocityEnabled {
		return s.VolumeLevel
	}
	return 1.0
}

// NewVoice creates a silent voice: no note, octave 0, sine, velocity off and
// full volume.
func NewVoice() *Voice {
	v := &Voice{}
	v.note.Store(noNote)
	v.waveform.Store(int32(Sine))
	v.volumeBits.Store(math.Float64bits(1.0))
	return v
}

// SetActiveNote starts sounding note, replacing any note already playing.
func (v *Voice) SetActiveNote(note int) {
	v.note.Store(int64(note))
}

// ClearActiveNote silences the voice.
func (v *Voice) ClearActiveNote() {
	v.note.Store(noNote)
}

// ActiveNote returns the sounding note, or false when the voice is silent.
func (v *Voice) ActiveNote() (int, bool) {
	n := v.note.Load()
	if n == noNote {
		return 0, false
	}
	return int(n), true
}

// SetOctaveOffset transposes by whole octaves in [MinOctaveOffset, MaxOctaveOffset].
func (v *Voice) SetOctaveOffset(offset int) error {
	if offset < MinOctaveOffset || offset > MaxOctaveOffset {
		return &ParamError{Name: "octave offset", Value: offset}
	}
	v.octaveOffset.Store(int32(offset))
	return nil
}

// OctaveOffset returns the current transposition.
func (v *Voice) OctaveOffset() int {
	return int(v.octaveOffset.Load())
}

// SetWaveform selects the oscillator shape.
func (v *Voice) SetWaveform(w Waveform) error {
	if !w.Valid() {
		return &ParamError{Name: "waveform", Value: w}
	}
	v.waveform.Store(int32(w))
	return nil
}

// Waveform returns the selected shape.
func (v *Voice) Waveform() Waveform {
	return Waveform(v.waveform.Load())
}

// SetVelocityEnabled toggles whether the volume level scales the output.
func (v *Voice) SetVelocityEnabled(enabled bool) {
	v.velocityEnabled.Store(enabled)
}

// VelocityEnabled reports whether the volume level is applied.
func (v *Voice) VelocityEnabled() bool {
	return v.velocityEnabled.Load()
}

// SetVolumeLevel sets the velocity gain in [0, 1].
func (v *Voice) SetVolumeLevel(level float64) error {
	if !(level >= 0 && level <= 1) {
		return &ParamError{Name: "volume level", Value: level}
	}
	v.volumeBits.Store(math.Float64bits(level))
	return nil
}

// VolumeLevel returns the velocity gain.
func (v *Voice) VolumeLevel() float64 {
	return math.Float64frombits(v.volumeBits.Load())
}

// Gain is the effective linear gain: the volume level when velocity is
// enabled, otherwise 1.
func (v *Voice) Gain() float64 {
	if v.VelocityEnabled() {
		return v.VolumeLevel()
	}
	return 1.0
}

// Snapshot loads every field once.
func (v *Voice) Snapshot() VoiceSnapshot {
	note, active := v.ActiveNote()
	return VoiceSnapshot{
		Note:            note,
		NoteActive:      active,
		OctaveOffset:    v.OctaveOffset(),
		Waveform:        v.Waveform(),
		VelocityEnabled: v.VelocityEnabled(),
		VolumeLevel:     v.VolumeLevel(),
	}
}
