package audio

import (
	"github.com/gopxl/beep"
)

// Sound is a short clip decoded fully into memory so it can overlap itself.
type Sound struct {
	Name   string
	buffer *beep.Buffer
	volume float64
}

// NewSound buffers every sample of s.
func NewSound(name string, s beep.StreamSeekCloser, format beep.Format) *Sound {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	s.Close()
	return &Sound{Name: name, buffer: buf, volume: 1}
}

// Len returns the clip length in samples.
func (s *Sound) Len() int {
	return s.buffer.Len()
}

// SetVolume sets the linear volume of future plays.
func (s *Sound) SetVolume(v float64) {
	s.volume = v
}

// SoundPlayer plays Sounds on a mixer.
type SoundPlayer struct {
	mixer *Mixer
}

func NewSoundPlayer(m *Mixer) *SoundPlayer {
	return &SoundPlayer{mixer: m}
}

// Play starts s, repeating it loops extra times (-1 loops forever).
func (p *SoundPlayer) Play(s *Sound, loops int) {
	if s == nil || s.buffer.Len() == 0 {
		return
	}
	var st beep.Streamer = s.buffer.Streamer(0, s.buffer.Len())
	if loops != 0 {
		count := loops + 1
		if loops < 0 {
			count = -1
		}
		st = beep.Loop(count, s.buffer.Streamer(0, s.buffer.Len()))
	}
	st = p.mixer.resample(st, s.buffer.Format().SampleRate)
	p.mixer.add(volume(st, s.volume))
}

// StopAll silences every sound and music track on the mixer.
func (p *SoundPlayer) StopAll() {
	p.mixer.locked(func() { p.mixer.mixer.Clear() })
}
