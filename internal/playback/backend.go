// Package playback implements voicepool.Backend on top of the beep
// speaker. One speaker mixer carries every session; per-session control
// goes through beep.Ctrl under the speaker lock.
package playback

import (
	"fmt"
	"time"

	"croakbox/pkg/spec"
	"croakbox/pkg/voicepool"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Stream is an open decode chain for one session. Close may be nil.
type Stream struct {
	Seeker beep.StreamSeeker
	Format beep.Format
	Close  func() error
}

// Source is the loadable handle this backend accepts from a resolver.
// Open returns a fresh stream so every session gets its own playhead.
type Source interface {
	Open() (*Stream, error)
}

// Engine is the beep-backed voicepool.Backend.
type Engine struct {
	sampleRate beep.SampleRate
}

// NewEngine initializes the speaker at the given sample rate with
// bufLen of mixing headroom.
func NewEngine(sampleRate int, bufLen time.Duration) (*Engine, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(bufLen)); err != nil {
		return nil, fmt.Errorf("playback: speaker init: %w", err)
	}
	return &Engine{sampleRate: sr}, nil
}

// DefaultEngine initializes the speaker at the project sample rate with
// 100ms of buffer.
func DefaultEngine() (*Engine, error) {
	return NewEngine(spec.SampleRate, 100*time.Millisecond)
}

// NewSession opens the handle and prepares a session. Playback starts
// on Session.Start.
func (e *Engine) NewSession(h voicepool.Handle, notify voicepool.NotifyFunc) (voicepool.Session, error) {
	src, ok := h.(Source)
	if !ok {
		return nil, fmt.Errorf("playback: handle %T is not a playback source", h)
	}
	st, err := src.Open()
	if err != nil {
		return nil, err
	}

	s := &session{
		stream: st,
		notify: notify,
		loop:   &loopStreamer{s: st.Seeker},
	}

	var chain beep.Streamer = s.loop
	if st.Format.SampleRate != e.sampleRate {
		chain = beep.Resample(4, st.Format.SampleRate, e.sampleRate, chain)
	}
	s.ctrl = &beep.Ctrl{Streamer: chain}

	return s, nil
}

// Shutdown drops every streamer from the mixer.
func (e *Engine) Shutdown() {
	speaker.Clear()
}
