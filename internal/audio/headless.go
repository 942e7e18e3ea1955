package audio

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

const defaultHeadlessBuffer = 10 * time.Millisecond

// HeadlessBackend is a host without hardware: each stream pulls one buffer per
// buffer period on its own goroutine and discards it.
type HeadlessBackend struct {
	bufferSize time.Duration

	mu     sync.Mutex
	format Format
}

// NewHeadlessBackend creates a headless host pulling bufferSize worth of
// audio per period. Zero selects 10ms.
func NewHeadlessBackend(bufferSize time.Duration) *HeadlessBackend {
	if bufferSize <= 0 {
		bufferSize = defaultHeadlessBuffer
	}
	return &HeadlessBackend{bufferSize: bufferSize}
}

// Open accepts any format.
func (b *HeadlessBackend) Open(ctx context.Context, want Format) (Format, error) {
	if err := ctx.Err(); err != nil {
		return Format{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.format = want
	return want, nil
}

// NewStream creates a stream for the most recently opened format.
func (b *HeadlessBackend) NewStream(src io.Reader) Stream {
	b.mu.Lock()
	format := b.format
	b.mu.Unlock()

	buf := make([]byte, b.BufferBytes(format))
	return &HeadlessStream{
		src:    src,
		buf:    buf,
		frames: len(buf) / format.BytesPerFrame(),
		period: b.bufferSize,
	}
}

// BufferBytes is one buffer period of format.
func (b *HeadlessBackend) BufferBytes(format Format) int {
	return format.BufferBytes(b.bufferSize)
}

// HeadlessStream is the stream created by HeadlessBackend.
type HeadlessStream struct {
	src    io.Reader
	buf    []byte
	frames int
	period time.Duration
	pulled atomic.Int64

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}

	errMu sync.Mutex
	err   error
}

// Play starts the pull goroutine.
func (s *HeadlessStream) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

func (s *HeadlessStream) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	t := time.NewTicker(s.period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}
		if _, err := io.ReadFull(s.src, s.buf); err != nil {
			s.errMu.Lock()
			s.err = err
			s.errMu.Unlock()
			return
		}
		s.pulled.Add(int64(s.frames))
	}
}

// Pause stops the pull goroutine and waits for it to exit.
func (s *HeadlessStream) Pause() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (s *HeadlessStream) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *HeadlessStream) Close() error {
	s.Pause()
	return nil
}

// Pulled returns the number of frames read from the source so far.
func (s *HeadlessStream) Pulled() int64 {
	return s.pulled.Load()
}

// LastBuffer copies the most recently pulled buffer. Call it only while the
// stream is paused.
func (s *HeadlessStream) LastBuffer() []byte {
	return append([]byte(nil), s.buf...)
}
