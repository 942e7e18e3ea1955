package audio

import (
	"context"
	"encoding/binary"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/icco/tonesynth/internal/synth"
)

// Backend is the host audio subsystem.
type Backend interface {
	// Open negotiates the stream format with the host and returns the format
	// the host will actually pull.
	Open(ctx context.Context, want Format) (Format, error)
	// NewStream creates a stream that pulls samples from src on the host's
	// real-time goroutine.
	NewStream(src io.Reader) Stream
	// BufferBytes is the largest read a stream of format issues to src.
	BufferBytes(format Format) int
}

// Stream is a host output stream.
type Stream interface {
	Play()
	// Pause stops pulling. Once it returns, src is no longer read.
	Pause()
	Err() error
	Close() error
}

// binding is what the host goroutine sees; it is swapped as a unit.
type binding struct {
	renderer *synth.Renderer
	channels int
}

// Engine wires a synth renderer into a host stream.
type Engine struct {
	backend Backend
	voice   *synth.Voice
	want    Format

	bound     atomic.Pointer[binding] // Atomic for lock-free Read()
	sampleBuf []float32               // Pre-allocated, owned by the host goroutine

	mu      sync.Mutex // Only for Start/Stop/Close
	format  Format
	stream  Stream
	running bool
}

// NewEngine creates a stopped engine that will render voice through backend.
func NewEngine(backend Backend, voice *synth.Voice, want Format) *Engine {
	return &Engine{
		backend: backend,
		voice:   voice,
		want:    want,
	}
}

// Start negotiates the format, attaches a renderer and starts the host stream.
// It returns a *StartupError if any step fails.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}
	if err := e.want.Validate(); err != nil {
		return &StartupError{Op: "validate format", Err: err}
	}

	format, err := e.backend.Open(ctx, e.want)
	if err != nil {
		return &StartupError{Op: "open host", Err: err}
	}
	if err := format.Validate(); err != nil {
		return &StartupError{Op: "negotiate format", Err: err}
	}

	r, err := synth.NewRenderer(e.voice, float64(format.SampleRate))
	if err != nil {
		return &StartupError{Op: "create renderer", Err: err}
	}
	// The host goroutine is not reading while the engine is stopped.
	if n := e.backend.BufferBytes(format) / bytesPerSample; len(e.sampleBuf) < n {
		e.sampleBuf = make([]float32, n)
	}
	e.bound.Store(&binding{renderer: r, channels: format.ChannelCount})

	if e.stream == nil {
		e.stream = e.backend.NewStream(e)
	}
	e.stream.Play()
	if err := e.stream.Err(); err != nil {
		e.stream.Pause()
		e.bound.Store(nil)
		_ = e.stream.Close()
		e.stream = nil
		return &StartupError{Op: "start stream", Err: err}
	}

	e.format = format
	e.running = true
	log.Printf("audio started: %v", format)
	return nil
}

// Read renders the next buffer. It is called by the host and never blocks.
func (e *Engine) Read(p []byte) (int, error) {
	b := e.bound.Load()
	if b == nil {
		clear(p)
		return len(p), nil
	}

	frames := len(p) / (b.channels * bytesPerSample)
	numSamples := frames * b.channels

	// Sized in Start; only grows if the host reads more than it advertised.
	if len(e.sampleBuf) < numSamples {
		e.sampleBuf = make([]float32, numSamples)
	}
	samples := e.sampleBuf[:numSamples]
	b.renderer.RenderInterleaved(samples, b.channels)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(s))
	}
	clear(p[numSamples*bytesPerSample:])
	return len(p), nil
}

// Stop pauses the host stream and then detaches the renderer, so no callback
// can run against it afterwards. Stopping a stopped engine does nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if !e.running {
		return
	}
	e.stream.Pause()
	e.bound.Store(nil)
	e.running = false
	log.Println("audio stopped")
}

// Close stops the engine, closes the stream and silences the voice.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.voice.ClearActiveNote()
	if e.stream == nil {
		return nil
	}
	err := e.stream.Close()
	e.stream = nil
	return err
}

// Err reports an asynchronous error from the host stream.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream == nil {
		return nil
	}
	return e.stream.Err()
}

// Running reports whether the host stream is playing.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Format returns the negotiated format; it is zero until Start succeeds.
func (e *Engine) Format() Format {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.format
}

// Voice returns the control surface of the engine.
func (e *Engine) Voice() *synth.Voice {
	return e.voice
}
