package synth

import "math"

const (
	// ReferenceNote is A4, the note tuned to ReferenceFrequencyHz.
	ReferenceNote        = 69
	ReferenceFrequencyHz = 440.0
	notesPerOctave       = 12
)

// FrequencyHz converts a note number transposed by octaveOffset octaves into a
// frequency using equal temperament. Inputs are not clamped.
func FrequencyHz(note, octaveOffset int) float64 {
	// float64 so extreme inputs cannot wrap
	semitones := float64(note) + notesPerOctave*float64(octaveOffset) - ReferenceNote
	if semitones == 0 {
		return ReferenceFrequencyHz
	}
	return ReferenceFrequencyHz * math.Pow(2.0, semitones/notesPerOctave)
}

// VelocityFromPosition maps a press position within a key of the given extent
// to a level in [0, 1]. Positions further along the key are louder.
func VelocityFromPosition(pos, extent float64) float64 {
	if extent <= 0 || math.IsNaN(pos) || math.IsNaN(extent) {
		return 1.0
	}
	v := pos / extent
	if v < 0 {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}
