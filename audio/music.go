package audio

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"go.uber.org/zap"
)

// Music is a streamed track. Only one track plays at a time.
type Music struct {
	Name     string
	streamer beep.StreamSeekCloser
	format   beep.Format
}

func NewMusic(name string, s beep.StreamSeekCloser, format beep.Format) *Music {
	return &Music{Name: name, streamer: s, format: format}
}

// Close releases the underlying decoder.
func (m *Music) Close() error {
	return m.streamer.Close()
}

// MusicPlayer controls the single music channel.
type MusicPlayer struct {
	mixer   *Mixer
	log     *zap.Logger
	current *Music
	ctrl    *beep.Ctrl
	fx      *effects.Volume
	volume  float64
}

func NewMusicPlayer(m *Mixer) *MusicPlayer {
	return &MusicPlayer{mixer: m, log: m.log, volume: 1}
}

// Play starts mus from the beginning, replacing whatever was playing.
// loops follows SoundPlayer.Play.
func (p *MusicPlayer) Play(mus *Music, loops int) {
	if mus == nil {
		p.log.Error("music player: nil track")
		return
	}
	p.Stop()
	if err := mus.streamer.Seek(0); err != nil {
		p.log.Error("music player: rewind", zap.String("music", mus.Name), zap.Error(err))
		return
	}
	var st beep.Streamer = mus.streamer
	if loops != 0 {
		count := loops + 1
		if loops < 0 {
			count = -1
		}
		st = beep.Loop(count, mus.streamer)
	}
	st = p.mixer.resample(st, mus.format.SampleRate)
	p.fx = volume(st, p.volume)
	p.ctrl = &beep.Ctrl{Streamer: p.fx}
	p.current = mus
	p.mixer.add(p.ctrl)
}

// Pause halts the current track in place.
func (p *MusicPlayer) Pause() {
	if p.ctrl != nil {
		p.mixer.locked(func() { p.ctrl.Paused = true })
	}
}

// Resume continues a paused track.
func (p *MusicPlayer) Resume() {
	if p.ctrl != nil {
		p.mixer.locked(func() { p.ctrl.Paused = false })
	}
}

// Stop ends the current track.
func (p *MusicPlayer) Stop() {
	if p.ctrl == nil {
		return
	}
	p.mixer.locked(func() {
		p.ctrl.Streamer = nil
		p.ctrl.Paused = true
	})
	p.ctrl = nil
	p.fx = nil
	p.current = nil
}

// IsPlaying reports whether a track is active and not paused.
func (p *MusicPlayer) IsPlaying() bool {
	if p.ctrl == nil {
		return false
	}
	playing := false
	p.mixer.locked(func() { playing = !p.ctrl.Paused && p.ctrl.Streamer != nil })
	return playing
}

// Current returns the active track, or nil.
func (p *MusicPlayer) Current() *Music {
	return p.current
}

// SetVolume sets the linear music volume in [0, 1].
func (p *MusicPlayer) SetVolume(v float64) {
	p.volume = v
	if p.fx != nil {
		p.mixer.locked(func() { setVolume(p.fx, v) })
	}
}

// Volume returns the linear music volume.
func (p *MusicPlayer) Volume() float64 {
	return p.volume
}
