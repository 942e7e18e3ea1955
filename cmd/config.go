package cmd

import (
	"fmt"
	"time"

	"github.com/icco/tonesynth/internal/audio"
	"github.com/icco/tonesynth/internal/audio/device"
	"github.com/icco/tonesynth/internal/synth"
)

// engineConfig collects the persistent audio flags
type engineConfig struct {
	sampleRate int
	channels   int
	bufferSize time.Duration
	headless   bool
	logFile    string
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		sampleRate: audio.DefaultSampleRate,
		channels:   audio.DefaultChannelCount,
	}
}

func (c engineConfig) format() audio.Format {
	return audio.Format{SampleRate: c.sampleRate, ChannelCount: c.channels}
}

func (c engineConfig) validate() error {
	if err := c.format().Validate(); err != nil {
		return err
	}
	if c.bufferSize < 0 {
		return fmt.Errorf("invalid buffer length %v", c.bufferSize)
	}
	return nil
}

func (c engineConfig) backend() audio.Backend {
	if c.headless {
		return audio.NewHeadlessBackend(c.bufferSize)
	}
	return device.New(c.bufferSize)
}

// newEngine builds a stopped engine for voice from the flags.
func (c engineConfig) newEngine(voice *synth.Voice) (*audio.Engine, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return audio.NewEngine(c.backend(), voice, c.format()), nil
}
