package synth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyHzReferencePitch(t *testing.T) {
	require.Equal(t, 440.0, FrequencyHz(69, 0))
	require.Equal(t, 440.0, FrequencyHz(57, 1))
	require.Equal(t, 440.0, FrequencyHz(93, -2))
}

func TestFrequencyHzKnownNotes(t *testing.T) {
	tests := []struct {
		note   int
		octave int
		want   float64
		name   string
	}{
		{60, 0, 261.6255653, "C4"},
		{72, 0, 523.2511306, "C5"},
		{60, -1, 130.8127827, "C3"},
		{81, 0, 880.0, "A5"},
		{69, -2, 110.0, "A2"},
		{0, 0, 8.1757989, "C-1"},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, FrequencyHz(tt.note, tt.octave), 1e-6, tt.name)
	}
}

func TestFrequencyHzOctaveEquivalence(t *testing.T) {
	for note := -24; note <= 151; note++ {
		for octave := -4; octave <= 4; octave++ {
			a := FrequencyHz(note, octave)
			b := FrequencyHz(note+12, octave-1)
			require.InEpsilon(t, a, b, 1e-12, "note %d octave %d", note, octave)
		}
	}
}

func TestFrequencyHzSemitoneRatio(t *testing.T) {
	ratio := math.Pow(2, 1.0/12)
	for note := 0; note < 127; note++ {
		got := FrequencyHz(note+1, 0) / FrequencyHz(note, 0)
		require.InDelta(t, ratio, got, 1e-12)
	}
}

func TestFrequencyHzExtremeInputs(t *testing.T) {
	// Not clamped: large inputs overflow to +Inf, small ones underflow toward 0.
	assert.True(t, math.IsInf(FrequencyHz(1<<20, 0), 1))
	assert.GreaterOrEqual(t, FrequencyHz(-(1 << 20), 0), 0.0)
	assert.Greater(t, FrequencyHz(-1000, 0), 0.0)
}

func TestFrequencyHzDoesNotWrap(t *testing.T) {
	assert.Equal(t, 0.0, FrequencyHz(math.MinInt+5, -1))
	assert.Equal(t, 0.0, FrequencyHz(math.MinInt, math.MinInt))
	assert.True(t, math.IsInf(FrequencyHz(math.MaxInt, 1), 1))
	assert.True(t, math.IsInf(FrequencyHz(math.MaxInt, math.MaxInt), 1))
}

func TestVelocityFromPosition(t *testing.T) {
	assert.Equal(t, 0.0, VelocityFromPosition(0, 4))
	assert.Equal(t, 0.5, VelocityFromPosition(2, 4))
	assert.Equal(t, 1.0, VelocityFromPosition(4, 4))
	assert.Equal(t, 1.0, VelocityFromPosition(9, 4))
	assert.Equal(t, 0.0, VelocityFromPosition(-3, 4))
	assert.Equal(t, 1.0, VelocityFromPosition(2, 0))
	assert.Equal(t, 1.0, VelocityFromPosition(math.NaN(), 4))
}
