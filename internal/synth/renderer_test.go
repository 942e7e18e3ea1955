package synth

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSampleRate = 44100

// RendererSuite drives a renderer at 44.1kHz against a fresh voice.
type RendererSuite struct {
	suite.Suite
	voice    *Voice
	renderer *Renderer
}

func (s *RendererSuite) SetupTest() {
	s.voice = NewVoice()
	r, err := NewRenderer(s.voice, testSampleRate)
	s.Require().NoError(err)
	s.renderer = r
}

func (s *RendererSuite) renderMono(frames int) []float32 {
	buf := make([]float32, frames)
	n := s.renderer.Render(frames, [][]float32{buf})
	s.Require().Equal(frames, n)
	return buf
}

func peak(buf []float32) float64 {
	var p float64
	for _, v := range buf {
		p = math.Max(p, math.Abs(float64(v)))
	}
	return p
}

func (s *RendererSuite) TestSilentWithoutNote() {
	for _, w := range Waveforms() {
		for _, velocity := range []bool{false, true} {
			s.Require().NoError(s.voice.SetWaveform(w))
			s.voice.SetVelocityEnabled(velocity)
			s.Require().NoError(s.voice.SetVolumeLevel(0.8))

			left := make([]float32, 256)
			right := make([]float32, 256)
			for i := range left {
				left[i], right[i] = 9, 9
			}
			n := s.renderer.Render(256, [][]float32{left, right})
			s.Require().Equal(256, n)
			for i := range left {
				s.Require().Zero(left[i])
				s.Require().Zero(right[i])
			}
		}
	}
}

func (s *RendererSuite) TestGainLaw() {
	s.voice.SetActiveNote(69)
	s.Require().NoError(s.voice.SetWaveform(Square))
	s.Require().NoError(s.voice.SetVolumeLevel(0.3))

	s.Require().Equal(1.0, peak(s.renderMono(1024)), "volume ignored while velocity is off")

	s.voice.SetVelocityEnabled(true)
	s.Require().NoError(s.voice.SetVolumeLevel(0.5))
	s.Require().Equal(0.5, peak(s.renderMono(1024)))

	s.Require().NoError(s.voice.SetWaveform(Sine))
	s.Require().InDelta(0.5, peak(s.renderMono(testSampleRate)), 1e-3)
}

func (s *RendererSuite) TestSineZeroCrossings() {
	s.voice.SetActiveNote(60)

	buf := s.renderMono(testSampleRate)
	crossings := 0
	for i := 1; i < len(buf); i++ {
		if (buf[i-1] < 0) != (buf[i] < 0) {
			crossings++
		}
	}
	s.Require().InDelta(2*FrequencyHz(60, 0), float64(crossings), 2)
}

func (s *RendererSuite) TestMatchesWaveformGenerator() {
	s.voice.SetActiveNote(57)
	s.Require().NoError(s.voice.SetWaveform(Triangle))

	f := FrequencyHz(57, 0)
	buf := s.renderMono(2048)
	elapsed := 0.0
	for i, v := range buf {
		s.Require().InDelta(Sample(Triangle, f, elapsed), float64(v), 1e-5, "frame %d", i)
		elapsed = math.Mod(elapsed+1.0/testSampleRate, 1/f)
	}
}

func (s *RendererSuite) TestReleaseSilencesNextFrames() {
	s.voice.SetActiveNote(72)
	s.Require().NoError(s.voice.SetWaveform(Sawtooth))
	s.Require().NotZero(peak(s.renderMono(128)))

	s.voice.ClearActiveNote()
	s.Require().Zero(peak(s.renderMono(128)))

	s.voice.SetActiveNote(72)
	s.Require().NotZero(peak(s.renderMono(128)))
}

func (s *RendererSuite) TestClockStaysWithinPeriod() {
	s.voice.SetActiveNote(45)
	period := 1 / FrequencyHz(45, 0)
	for i := 0; i < 100; i++ {
		s.renderMono(4410)
		c := s.renderer.Clock()
		s.Require().GreaterOrEqual(c.Elapsed, 0.0)
		s.Require().Less(c.Elapsed, period)
	}
	s.Require().InDelta(1.0/testSampleRate, s.renderer.Clock().Delta, 1e-15)
}

func (s *RendererSuite) TestPhaseContinuousAcrossOctaveChange() {
	s.voice.SetActiveNote(69)
	buf := s.renderMono(1000)
	last := float64(buf[len(buf)-1])

	s.Require().NoError(s.voice.SetOctaveOffset(1))
	next := s.renderMono(1)
	step := 2 * math.Pi * FrequencyHz(69, 1) / testSampleRate
	s.Require().Less(math.Abs(float64(next[0])-last), step*1.5)
	s.Require().Equal(880.0, s.renderer.Frequency())
}

func (s *RendererSuite) TestPlanarChannelsIdentical() {
	s.voice.SetActiveNote(64)
	s.Require().NoError(s.voice.SetWaveform(Triangle))

	left := make([]float32, 300)
	right := make([]float32, 200)
	n := s.renderer.Render(300, [][]float32{left, right})
	s.Require().Equal(200, n, "limited by the shortest channel")
	s.Require().Equal(left[:200], right)

	s.Require().Zero(s.renderer.Render(10, nil))
	s.Require().Zero(s.renderer.Render(-1, [][]float32{left}))
}

func (s *RendererSuite) TestRenderInterleaved() {
	s.voice.SetActiveNote(60)

	buf := make([]float32, 2*64+1)
	for i := range buf {
		buf[i] = 7
	}
	frames := s.renderer.RenderInterleaved(buf, 2)
	s.Require().Equal(64, frames)
	for i := 0; i < frames; i++ {
		s.Require().Equal(buf[2*i], buf[2*i+1])
	}
	s.Require().Zero(buf[len(buf)-1])

	s.Require().Zero(s.renderer.RenderInterleaved(buf, 0))
	s.Require().Zero(peak(buf))
}

func (s *RendererSuite) TestOverflowingNoteDegradesToSilence() {
	s.voice.SetActiveNote(1 << 20)
	s.Require().Zero(peak(s.renderMono(256)))

	s.voice.SetActiveNote(69)
	s.Require().NotZero(peak(s.renderMono(256)))
}

func (s *RendererSuite) TestReset() {
	s.voice.SetActiveNote(69)
	s.renderMono(33)
	s.Require().NotZero(s.renderer.Clock().Elapsed)
	s.renderer.Reset()
	s.Require().Zero(s.renderer.Clock().Elapsed)
}

func (s *RendererSuite) TestConcurrentControlWrites() {
	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%5 == 0 {
				s.voice.ClearActiveNote()
			} else {
				s.voice.SetActiveNote(40 + i%40)
			}
			_ = s.voice.SetOctaveOffset(i%5 - 2)
			_ = s.voice.SetWaveform(Waveform(i % 4))
			s.voice.SetVelocityEnabled(i%3 == 0)
			_ = s.voice.SetVolumeLevel(float64(i%10) / 9)
		}
	}()

	for i := 0; i < 50; i++ {
		for _, v := range s.renderMono(512) {
			s.Require().False(math.IsNaN(float64(v)))
			s.Require().LessOrEqual(math.Abs(float64(v)), 1.0)
		}
	}
	close(done)
	wg.Wait()
}

func TestRendererSuite(t *testing.T) {
	suite.Run(t, new(RendererSuite))
}

func TestNewRendererRejectsBadInput(t *testing.T) {
	v := NewVoice()
	for _, rate := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		_, err := NewRenderer(v, rate)
		require.ErrorIs(t, err, ErrInvalidParameter)
	}
	_, err := NewRenderer(nil, 44100)
	require.Error(t, err)
}
