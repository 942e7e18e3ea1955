//go:build !headless

// Package device opens the system audio output.
package device

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/icco/tonesynth/internal/audio"
)

// defaultReadAhead bounds how far a player renders ahead of the device when no
// buffer length is given. oto's own default is half a second.
const defaultReadAhead = 20 * time.Millisecond

// otoBackend drives the sound card through oto. oto allows one context per
// process, so the first Open fixes the format.
type otoBackend struct {
	bufferSize time.Duration

	mu     sync.Mutex
	ctx    *oto.Context
	ready  <-chan struct{}
	format audio.Format
}

// New returns the system audio host. A zero bufferSize lets oto pick its
// default latency.
func New(bufferSize time.Duration) audio.Backend {
	return &otoBackend{bufferSize: bufferSize}
}

func (b *otoBackend) Open(ctx context.Context, want audio.Format) (audio.Format, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   want.SampleRate,
			ChannelCount: want.ChannelCount,
			Format:       oto.FormatFloat32LE,
			BufferSize:   b.bufferSize,
		}
		otoCtx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return audio.Format{}, fmt.Errorf("failed to create audio context: %w", err)
		}
		b.ctx, b.ready, b.format = otoCtx, readyChan, want
	} else if want != b.format {
		return audio.Format{}, fmt.Errorf("audio context already open as %v", b.format)
	}

	select {
	case <-b.ready:
	case <-ctx.Done():
		return audio.Format{}, fmt.Errorf("waiting for audio device: %w", ctx.Err())
	}
	if err := b.ctx.Err(); err != nil {
		return audio.Format{}, err
	}
	return b.format, nil
}

func (b *otoBackend) NewStream(src io.Reader) audio.Stream {
	b.mu.Lock()
	defer b.mu.Unlock()
	player := b.ctx.NewPlayer(src)
	player.SetBufferSize(b.BufferBytes(b.format))
	return &otoStream{player: player}
}

// BufferBytes is the player read-ahead: bufferSize, or defaultReadAhead.
func (b *otoBackend) BufferBytes(format audio.Format) int {
	d := b.bufferSize
	if d <= 0 {
		d = defaultReadAhead
	}
	return format.BufferBytes(d)
}

type otoStream struct {
	player *oto.Player
}

func (s *otoStream) Play()      { s.player.Play() }
func (s *otoStream) Pause()     { s.player.Pause() }
func (s *otoStream) Err() error { return s.player.Err() }

// Close only pauses: as of oto v3.4 player.Close is deprecated and the player is
// released when garbage collected.
func (s *otoStream) Close() error {
	s.player.Pause()
	return nil
}
