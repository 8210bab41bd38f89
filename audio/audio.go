// Package audio plays music and sound effects through a beep mixer.
package audio

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is the mixer rate every clip is resampled to.
const DefaultSampleRate = beep.SampleRate(44100)

// Mixer owns the output device and the streamers playing on it. Without a
// successful Open the mixer still accepts streamers but nothing drains
// them, which is what tests rely on.
type Mixer struct {
	mu     sync.Mutex
	log    *zap.Logger
	rate   beep.SampleRate
	mixer  *beep.Mixer
	opened bool
}

// NewMixer creates a mixer at rate. A nil logger discards output.
func NewMixer(rate beep.SampleRate, log *zap.Logger) *Mixer {
	if log == nil {
		log = zap.NewNop()
	}
	if rate == 0 {
		rate = DefaultSampleRate
	}
	return &Mixer{log: log, rate: rate, mixer: &beep.Mixer{}}
}

// Open initializes the speaker and starts playback of the mixer.
func (m *Mixer) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return nil
	}
	if err := speaker.Init(m.rate, m.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("scion/audio: init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.opened = true
	return nil
}

// Close stops everything that is playing.
func (m *Mixer) Close() {
	m.locked(func() { m.mixer.Clear() })
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		speaker.Clear()
		m.opened = false
	}
}

// SampleRate returns the output rate.
func (m *Mixer) SampleRate() beep.SampleRate {
	return m.rate
}

// Playing returns the number of active streamers.
func (m *Mixer) Playing() int {
	n := 0
	m.locked(func() { n = m.mixer.Len() })
	return n
}

// Stream pulls samples from the mixer directly. Only meaningful when the
// mixer is not open.
func (m *Mixer) Stream(samples [][2]float64) {
	m.locked(func() { m.mixer.Stream(samples) })
}

// locked runs fn while holding the speaker lock when the speaker is live.
func (m *Mixer) locked(fn func()) {
	m.mu.Lock()
	opened := m.opened
	m.mu.Unlock()
	if opened {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

func (m *Mixer) add(s beep.Streamer) {
	m.locked(func() { m.mixer.Add(s) })
}

// Decode reads an audio clip. Only WAV is supported.
func Decode(name string, r io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		s, f, err := wav.Decode(r)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("scion/audio: decode %s: %w", name, err)
		}
		return s, f, nil
	}
	return nil, beep.Format{}, fmt.Errorf("scion/audio: unsupported format %q", name)
}

// resample converts s to the mixer rate when needed.
func (m *Mixer) resample(s beep.Streamer, from beep.SampleRate) beep.Streamer {
	if from == m.rate || from == 0 {
		return s
	}
	return beep.Resample(4, from, m.rate, s)
}

// volume wraps s in a gain stage. v is linear in [0, 1]; 0 is silent.
func volume(s beep.Streamer, v float64) *effects.Volume {
	fx := &effects.Volume{Streamer: s, Base: 2}
	setVolume(fx, v)
	return fx
}

func setVolume(fx *effects.Volume, v float64) {
	if v <= 0 {
		fx.Silent = true
		return
	}
	fx.Silent = false
	fx.Volume = math.Log2(math.Min(v, 1))
}
