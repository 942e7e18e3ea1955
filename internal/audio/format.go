// Package audio connects the synth renderer to a host audio stream.
package audio

import (
	"fmt"
	"time"
)

const (
	DefaultSampleRate   = 44100
	DefaultChannelCount = 2
	bytesPerSample      = 4 // float32 little-endian
)

// Format is the stream layout negotiated with the host. Samples are float32
// little-endian, interleaved by channel.
type Format struct {
	SampleRate   int
	ChannelCount int
}

// Validate rejects formats the engine cannot render.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", f.SampleRate)
	}
	if f.ChannelCount != 1 && f.ChannelCount != 2 {
		return fmt.Errorf("invalid channel count %d (want 1 or 2)", f.ChannelCount)
	}
	return nil
}

// BytesPerFrame is the size of one interleaved frame.
func (f Format) BytesPerFrame() int {
	return f.ChannelCount * bytesPerSample
}

// BufferBytes is the size of d worth of whole frames, at least one frame.
func (f Format) BufferBytes(d time.Duration) int {
	frames := int(float64(f.SampleRate) * d.Seconds())
	if frames < 1 {
		frames = 1
	}
	return frames * f.BytesPerFrame()
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch float32", f.SampleRate, f.ChannelCount)
}
