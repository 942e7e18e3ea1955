//go:build headless

package device

import (
	"time"

	"github.com/icco/tonesynth/internal/audio"
)

// New returns a simulated host; headless builds carry no sound card driver.
func New(bufferSize time.Duration) audio.Backend {
	return audio.NewHeadlessBackend(bufferSize)
}
